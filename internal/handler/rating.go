package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HapaxPablo/online-cinema-server/internal/middleware"
	"github.com/HapaxPablo/online-cinema-server/internal/service"
)

type RatingHandler struct {
	ratings *service.RatingService
}

func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// Get godoc
// @Summary Get own rating for a movie
// @Tags ratings
// @Security BearerAuth
// @Produce json
// @Param movieId path string true "Movie id"
// @Success 200 {object} map[string]float64
// @Router /api/ratings/{movieId} [get]
func (h *RatingHandler) Get(c *fiber.Ctx) error {
	movieID, err := primitive.ObjectIDFromHex(c.Params("movieId"))
	if err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid movie id"})
	}

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		return c.Status(401).JSON(ErrorResponse{Error: "unauthorized"})
	}

	value, err := h.ratings.GetByUserMovie(c.Context(), userID, movieID)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to get rating"})
	}
	return c.JSON(fiber.Map{"value": value})
}

type SetRatingRequest struct {
	MovieID primitive.ObjectID `json:"movie_id"`
	Value   float64            `json:"value"`
}

// Set godoc
// @Summary Rate a movie
// @Description Store the user's vote and recompute the movie's average rating.
// @Tags ratings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body SetRatingRequest true "Rating"
// @Success 200 {object} map[string]float64
// @Router /api/ratings [post]
func (h *RatingHandler) Set(c *fiber.Ctx) error {
	var req SetRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.MovieID.IsZero() {
		return c.Status(400).JSON(ErrorResponse{Error: "movie_id is required"})
	}
	if req.Value < 0 || req.Value > 10 {
		return c.Status(400).JSON(ErrorResponse{Error: "value must be between 0 and 10"})
	}

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		return c.Status(401).JSON(ErrorResponse{Error: "unauthorized"})
	}

	average, err := h.ratings.SetRating(c.Context(), userID, req.MovieID, req.Value)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to set rating"})
	}
	return c.JSON(fiber.Map{"average": average})
}
