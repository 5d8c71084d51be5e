package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HapaxPablo/online-cinema-server/internal/repo"
)

type GenreHandler struct {
	genreRepo *repo.GenreRepo
	movieRepo *repo.MovieRepo
}

func NewGenreHandler(genreRepo *repo.GenreRepo, movieRepo *repo.MovieRepo) *GenreHandler {
	return &GenreHandler{genreRepo: genreRepo, movieRepo: movieRepo}
}

// List godoc
// @Summary List genres
// @Tags genres
// @Produce json
// @Param search query string false "Search over name, slug, description"
// @Success 200 {array} repo.Genre
// @Router /api/genres [get]
func (h *GenreHandler) List(c *fiber.Ctx) error {
	genres, err := h.genreRepo.FindAll(c.Context(), c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to list genres"})
	}
	return c.JSON(genres)
}

// BySlug godoc
// @Summary Get genre by slug
// @Tags genres
// @Produce json
// @Param slug path string true "Genre slug"
// @Success 200 {object} repo.Genre
// @Failure 404 {object} ErrorResponse
// @Router /api/genres/by-slug/{slug} [get]
func (h *GenreHandler) BySlug(c *fiber.Ctx) error {
	genre, err := h.genreRepo.FindBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to get genre"})
	}
	if genre == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "genre not found"})
	}
	return c.JSON(genre)
}

type Collection struct {
	ID    primitive.ObjectID `json:"id"`
	Image string             `json:"image"`
	Title string             `json:"title"`
	Slug  string             `json:"slug"`
}

// Collections godoc
// @Summary Genre collections
// @Description One card per genre that has movies, illustrated by a movie poster.
// @Tags genres
// @Produce json
// @Success 200 {array} Collection
// @Router /api/genres/collections [get]
func (h *GenreHandler) Collections(c *fiber.Ctx) error {
	genres, err := h.genreRepo.FindAll(c.Context(), "")
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to list genres"})
	}

	collections := make([]Collection, 0, len(genres))
	for _, genre := range genres {
		movies, err := h.movieRepo.FindByGenres(c.Context(), []primitive.ObjectID{genre.ID})
		if err != nil {
			return c.Status(500).JSON(ErrorResponse{Error: "failed to build collections"})
		}
		if len(movies) == 0 {
			continue
		}

		collections = append(collections, Collection{
			ID:    genre.ID,
			Image: movies[0].BigPoster,
			Title: genre.Name,
			Slug:  genre.Slug,
		})
	}
	return c.JSON(collections)
}

// Get godoc
// @Summary Get genre by id
// @Tags genres
// @Security BearerAuth
// @Produce json
// @Param id path string true "Genre id"
// @Success 200 {object} repo.Genre
// @Failure 404 {object} ErrorResponse
// @Router /api/genres/{id} [get]
func (h *GenreHandler) Get(c *fiber.Ctx) error {
	if _, err := primitive.ObjectIDFromHex(c.Params("id")); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid genre id"})
	}

	genre, err := h.genreRepo.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to get genre"})
	}
	if genre == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "genre not found"})
	}
	return c.JSON(genre)
}

// Create godoc
// @Summary Create a blank genre
// @Tags genres
// @Security BearerAuth
// @Produce json
// @Success 201 {object} CreatedResponse
// @Router /api/genres [post]
func (h *GenreHandler) Create(c *fiber.Ctx) error {
	id, err := h.genreRepo.CreateEmpty(c.Context())
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to create genre"})
	}
	return c.Status(201).JSON(CreatedResponse{ID: id.Hex()})
}

// Update godoc
// @Summary Update genre
// @Tags genres
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Genre id"
// @Param request body repo.GenreContent true "Genre content"
// @Success 200 {object} repo.Genre
// @Failure 404 {object} ErrorResponse
// @Router /api/genres/{id} [put]
func (h *GenreHandler) Update(c *fiber.Ctx) error {
	var content repo.GenreContent
	if err := c.BodyParser(&content); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}

	genre, err := h.genreRepo.ApplyUpdate(c.Context(), c.Params("id"), &content)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to update genre"})
	}
	if genre == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "genre not found"})
	}
	return c.JSON(genre)
}

// Delete godoc
// @Summary Delete genre
// @Tags genres
// @Security BearerAuth
// @Produce json
// @Param id path string true "Genre id"
// @Success 200 {object} repo.Genre
// @Failure 404 {object} ErrorResponse
// @Router /api/genres/{id} [delete]
func (h *GenreHandler) Delete(c *fiber.Ctx) error {
	genre, err := h.genreRepo.DeleteByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to delete genre"})
	}
	if genre == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "genre not found"})
	}
	return c.JSON(genre)
}
