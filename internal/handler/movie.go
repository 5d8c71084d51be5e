package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HapaxPablo/online-cinema-server/internal/repo"
	"github.com/HapaxPablo/online-cinema-server/internal/service"
)

type MovieHandler struct {
	movies *service.MovieService
}

func NewMovieHandler(movies *service.MovieService) *MovieHandler {
	return &MovieHandler{movies: movies}
}

// List godoc
// @Summary List movies
// @Description Get the catalog, newest first. Optional case-insensitive title search.
// @Tags movies
// @Produce json
// @Param search query string false "Title substring"
// @Success 200 {array} repo.Movie
// @Router /api/movies [get]
func (h *MovieHandler) List(c *fiber.Ctx) error {
	movies, err := h.movies.Search(c.Context(), c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to list movies"})
	}
	return c.JSON(movies)
}

// BySlug godoc
// @Summary Get movie by slug
// @Tags movies
// @Produce json
// @Param slug path string true "Movie slug"
// @Success 200 {object} repo.Movie
// @Failure 404 {object} ErrorResponse
// @Router /api/movies/by-slug/{slug} [get]
func (h *MovieHandler) BySlug(c *fiber.Ctx) error {
	movie, err := h.movies.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to get movie"})
	}
	if movie == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "movie not found"})
	}
	return c.JSON(movie)
}

// ByActor godoc
// @Summary List movies by actor
// @Tags movies
// @Produce json
// @Param actorId path string true "Actor id"
// @Success 200 {array} repo.Movie
// @Router /api/movies/by-actor/{actorId} [get]
func (h *MovieHandler) ByActor(c *fiber.Ctx) error {
	actorID, err := primitive.ObjectIDFromHex(c.Params("actorId"))
	if err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid actor id"})
	}

	movies, err := h.movies.ByActor(c.Context(), actorID)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to list movies"})
	}
	return c.JSON(movies)
}

type ByGenresRequest struct {
	GenreIDs []primitive.ObjectID `json:"genre_ids"`
}

// ByGenres godoc
// @Summary List movies matching any of the given genres
// @Tags movies
// @Accept json
// @Produce json
// @Param request body ByGenresRequest true "Genre ids"
// @Success 200 {array} repo.Movie
// @Router /api/movies/by-genres [post]
func (h *MovieHandler) ByGenres(c *fiber.Ctx) error {
	var req ByGenresRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if len(req.GenreIDs) == 0 {
		return c.Status(400).JSON(ErrorResponse{Error: "genre_ids is required"})
	}

	movies, err := h.movies.ByGenres(c.Context(), req.GenreIDs)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to list movies"})
	}
	return c.JSON(movies)
}

// MostPopular godoc
// @Summary List most viewed movies
// @Tags movies
// @Produce json
// @Success 200 {array} repo.Movie
// @Router /api/movies/most-popular [get]
func (h *MovieHandler) MostPopular(c *fiber.Ctx) error {
	movies, err := h.movies.TopRated(c.Context())
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to list movies"})
	}
	return c.JSON(movies)
}

type ViewRequest struct {
	Slug string `json:"slug"`
}

// View godoc
// @Summary Record a view
// @Description Increment the view counter for a movie. Best effort.
// @Tags movies
// @Accept json
// @Param request body ViewRequest true "Movie slug"
// @Success 200 {object} SuccessResponse
// @Router /api/movies/update-count-opened [put]
func (h *MovieHandler) View(c *fiber.Ctx) error {
	var req ViewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Slug == "" {
		return c.Status(400).JSON(ErrorResponse{Error: "slug is required"})
	}

	if err := h.movies.RecordView(c.Context(), req.Slug); err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to record view"})
	}
	return c.JSON(SuccessResponse{Message: "ok"})
}

// Get godoc
// @Summary Get movie by id
// @Tags movies
// @Security BearerAuth
// @Produce json
// @Param id path string true "Movie id"
// @Success 200 {object} repo.Movie
// @Failure 404 {object} ErrorResponse
// @Router /api/movies/{id} [get]
func (h *MovieHandler) Get(c *fiber.Ctx) error {
	if _, err := primitive.ObjectIDFromHex(c.Params("id")); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid movie id"})
	}

	movie, err := h.movies.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to get movie"})
	}
	if movie == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "movie not found"})
	}
	return c.JSON(movie)
}

// Create godoc
// @Summary Create a blank movie
// @Description Returns the new id; content is supplied by a follow-up update.
// @Tags movies
// @Security BearerAuth
// @Produce json
// @Success 201 {object} CreatedResponse
// @Router /api/movies [post]
func (h *MovieHandler) Create(c *fiber.Ctx) error {
	id, err := h.movies.Create(c.Context())
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to create movie"})
	}
	return c.Status(201).JSON(CreatedResponse{ID: id.Hex()})
}

// Update godoc
// @Summary Update movie content
// @Description Sends the publish notification on the first update of unnotified content.
// @Tags movies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Movie id"
// @Param request body repo.MovieContent true "Movie content"
// @Success 200 {object} repo.Movie
// @Failure 404 {object} ErrorResponse
// @Router /api/movies/{id} [put]
func (h *MovieHandler) Update(c *fiber.Ctx) error {
	var content repo.MovieContent
	if err := c.BodyParser(&content); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}

	movie, err := h.movies.Update(c.Context(), c.Params("id"), &content)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to update movie"})
	}
	if movie == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "movie not found"})
	}
	return c.JSON(movie)
}

// Delete godoc
// @Summary Delete movie
// @Tags movies
// @Security BearerAuth
// @Produce json
// @Param id path string true "Movie id"
// @Success 200 {object} repo.Movie
// @Failure 404 {object} ErrorResponse
// @Router /api/movies/{id} [delete]
func (h *MovieHandler) Delete(c *fiber.Ctx) error {
	movie, err := h.movies.Remove(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to delete movie"})
	}
	if movie == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "movie not found"})
	}
	return c.JSON(movie)
}
