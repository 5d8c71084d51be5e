package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HapaxPablo/online-cinema-server/internal/repo"
)

type ratingKey struct {
	user  primitive.ObjectID
	movie primitive.ObjectID
}

type fakeRatingStore struct {
	values map[ratingKey]float64
}

func newFakeRatingStore() *fakeRatingStore {
	return &fakeRatingStore{values: map[ratingKey]float64{}}
}

func (f *fakeRatingStore) Upsert(_ context.Context, userID, movieID primitive.ObjectID, value float64) error {
	f.values[ratingKey{userID, movieID}] = value
	return nil
}

func (f *fakeRatingStore) ValueByUserMovie(_ context.Context, userID, movieID primitive.ObjectID) (float64, error) {
	return f.values[ratingKey{userID, movieID}], nil
}

func (f *fakeRatingStore) AverageForMovie(_ context.Context, movieID primitive.ObjectID) (float64, error) {
	var sum float64
	var count int
	for k, v := range f.values {
		if k.movie == movieID {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

type fakeRater struct {
	rated map[string]float64
	fail  bool
}

func (f *fakeRater) Rate(_ context.Context, id string, value float64) (*repo.Movie, error) {
	if f.fail {
		return nil, errors.New("store unavailable")
	}
	if f.rated == nil {
		f.rated = map[string]float64{}
	}
	f.rated[id] = value
	return &repo.Movie{Rating: value}, nil
}

func TestSetRatingPushesAverageToMovie(t *testing.T) {
	store := newFakeRatingStore()
	rater := &fakeRater{}
	svc := NewRatingService(store, rater)
	ctx := context.Background()

	movieID := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	avg, err := svc.SetRating(ctx, alice, movieID, 8)
	require.NoError(t, err)
	assert.Equal(t, 8.0, avg)

	avg, err = svc.SetRating(ctx, bob, movieID, 6)
	require.NoError(t, err)
	assert.Equal(t, 7.0, avg)
	assert.Equal(t, 7.0, rater.rated[movieID.Hex()])
}

func TestSetRatingOverwritesOwnVote(t *testing.T) {
	store := newFakeRatingStore()
	svc := NewRatingService(store, &fakeRater{})
	ctx := context.Background()

	movieID := primitive.NewObjectID()
	user := primitive.NewObjectID()

	_, err := svc.SetRating(ctx, user, movieID, 3)
	require.NoError(t, err)

	avg, err := svc.SetRating(ctx, user, movieID, 9)
	require.NoError(t, err)
	assert.Equal(t, 9.0, avg)

	value, err := svc.GetByUserMovie(ctx, user, movieID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, value)
}

func TestSetRatingPropagatesCatalogFailure(t *testing.T) {
	store := newFakeRatingStore()
	svc := NewRatingService(store, &fakeRater{fail: true})

	_, err := svc.SetRating(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 5)
	require.Error(t, err)
}

func TestGetByUserMovieUnratedIsZero(t *testing.T) {
	svc := NewRatingService(newFakeRatingStore(), &fakeRater{})

	value, err := svc.GetByUserMovie(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Zero(t, value)
}
