package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HapaxPablo/online-cinema-server/internal/repo"
	"github.com/HapaxPablo/online-cinema-server/internal/telegram"
)

const watchButtonLabel = "🍿 Go to watch"

// MovieStore is the persistence surface the catalog service needs. The Mongo
// repo satisfies it; tests plug in-memory fakes.
type MovieStore interface {
	FindAll(ctx context.Context, searchTerm string) ([]repo.Movie, error)
	FindBySlug(ctx context.Context, slug string) (*repo.Movie, error)
	FindByActor(ctx context.Context, actorID primitive.ObjectID) ([]repo.Movie, error)
	FindByGenres(ctx context.Context, genreIDs []primitive.ObjectID) ([]repo.Movie, error)
	IncrementCountOpened(ctx context.Context, slug string) error
	FindByID(ctx context.Context, id string) (*repo.Movie, error)
	CreateEmpty(ctx context.Context) (primitive.ObjectID, error)
	ApplyUpdate(ctx context.Context, id string, content *repo.MovieContent) (*repo.Movie, error)
	DeleteByID(ctx context.Context, id string) (*repo.Movie, error)
	MostPopular(ctx context.Context) ([]repo.Movie, error)
	SetRating(ctx context.Context, id string, rating float64) (*repo.Movie, error)
}

// Notifier is the outbound messaging gateway.
type Notifier interface {
	SendPhoto(ctx context.Context, photoURL string) error
	SendMessage(ctx context.Context, text string, opts telegram.MessageOptions) error
}

// MovieService orchestrates the catalog repository and the publish
// notification. All store semantics (sorting, filtering, population,
// atomic increments) live in the store; the service only adds the
// one-notification-per-publish rule.
type MovieService struct {
	movies   MovieStore
	notifier Notifier
	appURL   string
}

func NewMovieService(movies MovieStore, notifier Notifier, appURL string) *MovieService {
	return &MovieService{
		movies:   movies,
		notifier: notifier,
		appURL:   strings.TrimSuffix(appURL, "/"),
	}
}

// Search returns the catalog, optionally narrowed by a title substring.
func (s *MovieService) Search(ctx context.Context, term string) ([]repo.Movie, error) {
	return s.movies.FindAll(ctx, term)
}

// GetBySlug resolves a movie for public display, (nil, nil) when unknown.
func (s *MovieService) GetBySlug(ctx context.Context, slug string) (*repo.Movie, error) {
	return s.movies.FindBySlug(ctx, slug)
}

func (s *MovieService) ByActor(ctx context.Context, actorID primitive.ObjectID) ([]repo.Movie, error) {
	return s.movies.FindByActor(ctx, actorID)
}

func (s *MovieService) ByGenres(ctx context.Context, genreIDs []primitive.ObjectID) ([]repo.Movie, error) {
	return s.movies.FindByGenres(ctx, genreIDs)
}

// RecordView bumps the view counter. Best effort: a missing slug is not an
// error, only store failures propagate.
func (s *MovieService) RecordView(ctx context.Context, slug string) error {
	return s.movies.IncrementCountOpened(ctx, slug)
}

func (s *MovieService) GetByID(ctx context.Context, id string) (*repo.Movie, error) {
	return s.movies.FindByID(ctx, id)
}

// Create inserts a blank movie and returns its id; content follows via
// Update. The two-step create/populate flow is part of the public contract.
func (s *MovieService) Create(ctx context.Context) (primitive.ObjectID, error) {
	return s.movies.CreateEmpty(ctx)
}

// Update persists content onto the movie with the given id. The first update
// of unnotified content sends the publish notification before persisting and
// raises the latch; a notification failure aborts the update so a retry will
// notify again. Returns (nil, nil) when the id is unknown.
func (s *MovieService) Update(ctx context.Context, id string, content *repo.MovieContent) (*repo.Movie, error) {
	if !content.IsSendTelegram {
		if err := s.sendNotifications(ctx, content); err != nil {
			return nil, fmt.Errorf("publish notification: %w", err)
		}
		content.IsSendTelegram = true
	}

	return s.movies.ApplyUpdate(ctx, id, content)
}

func (s *MovieService) Remove(ctx context.Context, id string) (*repo.Movie, error) {
	return s.movies.DeleteByID(ctx, id)
}

// TopRated returns viewed movies ordered by view count descending.
func (s *MovieService) TopRated(ctx context.Context) ([]repo.Movie, error) {
	return s.movies.MostPopular(ctx)
}

func (s *MovieService) Rate(ctx context.Context, id string, value float64) (*repo.Movie, error) {
	return s.movies.SetRating(ctx, id, value)
}

func (s *MovieService) sendNotifications(ctx context.Context, content *repo.MovieContent) error {
	if content.Poster != "" {
		if err := s.notifier.SendPhoto(ctx, s.posterURL(content.Poster)); err != nil {
			return err
		}
	}

	msg := fmt.Sprintf("<b>%s</b>\n\n", content.Title)
	return s.notifier.SendMessage(ctx, msg, telegram.MessageOptions{
		LinkLabel: watchButtonLabel,
		LinkURL:   s.watchURL(content.Slug),
	})
}

func (s *MovieService) posterURL(poster string) string {
	return s.appURL + "/" + strings.TrimPrefix(poster, "/")
}

func (s *MovieService) watchURL(slug string) string {
	return s.appURL + "/movie/" + slug
}
