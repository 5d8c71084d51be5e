package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HapaxPablo/online-cinema-server/internal/repo"
)

type RatingStore interface {
	Upsert(ctx context.Context, userID, movieID primitive.ObjectID, value float64) error
	ValueByUserMovie(ctx context.Context, userID, movieID primitive.ObjectID) (float64, error)
	AverageForMovie(ctx context.Context, movieID primitive.ObjectID) (float64, error)
}

type movieRater interface {
	Rate(ctx context.Context, id string, value float64) (*repo.Movie, error)
}

// RatingService stores per-user ratings and keeps the movie's aggregate
// rating in sync by pushing the recomputed average through the catalog.
type RatingService struct {
	ratings RatingStore
	movies  movieRater
}

func NewRatingService(ratings RatingStore, movies movieRater) *RatingService {
	return &RatingService{ratings: ratings, movies: movies}
}

// SetRating records the user's vote and returns the movie's new average.
func (s *RatingService) SetRating(ctx context.Context, userID, movieID primitive.ObjectID, value float64) (float64, error) {
	if err := s.ratings.Upsert(ctx, userID, movieID, value); err != nil {
		return 0, err
	}

	average, err := s.ratings.AverageForMovie(ctx, movieID)
	if err != nil {
		return 0, err
	}

	if _, err := s.movies.Rate(ctx, movieID.Hex(), average); err != nil {
		return 0, err
	}
	return average, nil
}

// GetByUserMovie returns the user's own vote, 0 when they have not rated.
func (s *RatingService) GetByUserMovie(ctx context.Context, userID, movieID primitive.ObjectID) (float64, error) {
	return s.ratings.ValueByUserMovie(ctx, userID, movieID)
}
