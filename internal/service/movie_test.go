package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HapaxPablo/online-cinema-server/internal/repo"
	"github.com/HapaxPablo/online-cinema-server/internal/telegram"
)

// fakeMovieStore mirrors the Mongo repo contract in memory: substring title
// search sorted newest first, $in genre matching, positive-view popularity
// ordering, absent results as (nil, nil).
type fakeMovieStore struct {
	movies []repo.Movie
}

func (f *fakeMovieStore) FindAll(_ context.Context, searchTerm string) ([]repo.Movie, error) {
	var out []repo.Movie
	for _, m := range f.movies {
		if searchTerm == "" || strings.Contains(strings.ToLower(m.Title), strings.ToLower(searchTerm)) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeMovieStore) FindBySlug(_ context.Context, slug string) (*repo.Movie, error) {
	for i := range f.movies {
		if f.movies[i].Slug == slug {
			m := f.movies[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMovieStore) FindByActor(_ context.Context, actorID primitive.ObjectID) ([]repo.Movie, error) {
	var out []repo.Movie
	for _, m := range f.movies {
		for _, id := range m.ActorIDs {
			if id == actorID {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeMovieStore) FindByGenres(_ context.Context, genreIDs []primitive.ObjectID) ([]repo.Movie, error) {
	want := map[primitive.ObjectID]struct{}{}
	for _, id := range genreIDs {
		want[id] = struct{}{}
	}

	var out []repo.Movie
	for _, m := range f.movies {
		for _, id := range m.GenreIDs {
			if _, ok := want[id]; ok {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeMovieStore) IncrementCountOpened(_ context.Context, slug string) error {
	for i := range f.movies {
		if f.movies[i].Slug == slug {
			f.movies[i].CountOpened++
		}
	}
	return nil
}

func (f *fakeMovieStore) FindByID(_ context.Context, id string) (*repo.Movie, error) {
	for i := range f.movies {
		if f.movies[i].ID.Hex() == id {
			m := f.movies[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMovieStore) CreateEmpty(_ context.Context) (primitive.ObjectID, error) {
	movie := repo.Movie{
		ID:        primitive.NewObjectID(),
		GenreIDs:  []primitive.ObjectID{},
		ActorIDs:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	f.movies = append(f.movies, movie)
	return movie.ID, nil
}

func (f *fakeMovieStore) ApplyUpdate(_ context.Context, id string, content *repo.MovieContent) (*repo.Movie, error) {
	for i := range f.movies {
		if f.movies[i].ID.Hex() == id {
			f.movies[i].Title = content.Title
			f.movies[i].Slug = content.Slug
			f.movies[i].Poster = content.Poster
			f.movies[i].BigPoster = content.BigPoster
			f.movies[i].VideoURL = content.VideoURL
			f.movies[i].GenreIDs = content.GenreIDs
			f.movies[i].ActorIDs = content.ActorIDs
			f.movies[i].IsSendTelegram = content.IsSendTelegram
			m := f.movies[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMovieStore) DeleteByID(_ context.Context, id string) (*repo.Movie, error) {
	for i := range f.movies {
		if f.movies[i].ID.Hex() == id {
			m := f.movies[i]
			f.movies = append(f.movies[:i], f.movies[i+1:]...)
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMovieStore) MostPopular(_ context.Context) ([]repo.Movie, error) {
	var out []repo.Movie
	for _, m := range f.movies {
		if m.CountOpened > 0 {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CountOpened > out[j].CountOpened
	})
	return out, nil
}

func (f *fakeMovieStore) SetRating(_ context.Context, id string, rating float64) (*repo.Movie, error) {
	for i := range f.movies {
		if f.movies[i].ID.Hex() == id {
			f.movies[i].Rating = rating
			m := f.movies[i]
			return &m, nil
		}
	}
	return nil, nil
}

type fakeNotifier struct {
	photos   []string
	messages []string
	options  []telegram.MessageOptions
	fail     bool
}

func (f *fakeNotifier) SendPhoto(_ context.Context, photoURL string) error {
	if f.fail {
		return errors.New("gateway unavailable")
	}
	f.photos = append(f.photos, photoURL)
	return nil
}

func (f *fakeNotifier) SendMessage(_ context.Context, text string, opts telegram.MessageOptions) error {
	if f.fail {
		return errors.New("gateway unavailable")
	}
	f.messages = append(f.messages, text)
	f.options = append(f.options, opts)
	return nil
}

const testAppURL = "https://cinema24.vercel.app"

func newTestService(store *fakeMovieStore, notifier *fakeNotifier) *MovieService {
	return NewMovieService(store, notifier, testAppURL)
}

func TestUpdatePublishesOnceAndRaisesFlag(t *testing.T) {
	store := &fakeMovieStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	id, err := svc.Create(ctx)
	require.NoError(t, err)

	content := &repo.MovieContent{
		Title:  "A",
		Poster: "p.jpg",
		Slug:   "a",
	}
	movie, err := svc.Update(ctx, id.Hex(), content)
	require.NoError(t, err)
	require.NotNil(t, movie)

	assert.True(t, movie.IsSendTelegram)
	require.Len(t, notifier.photos, 1)
	assert.Equal(t, testAppURL+"/p.jpg", notifier.photos[0])
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "<b>A</b>\n\n", notifier.messages[0])
	assert.Equal(t, testAppURL+"/movie/a", notifier.options[0].LinkURL)
	assert.Equal(t, "🍿 Go to watch", notifier.options[0].LinkLabel)
}

func TestUpdateSkipsNotificationForNotifiedContent(t *testing.T) {
	store := &fakeMovieStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	id, err := svc.Create(ctx)
	require.NoError(t, err)

	content := &repo.MovieContent{
		Title:          "A",
		Poster:         "p.jpg",
		Slug:           "a",
		IsSendTelegram: true,
	}
	movie, err := svc.Update(ctx, id.Hex(), content)
	require.NoError(t, err)
	require.NotNil(t, movie)

	assert.True(t, movie.IsSendTelegram)
	assert.Empty(t, notifier.photos)
	assert.Empty(t, notifier.messages)
}

func TestUpdateAbortsWhenNotificationFails(t *testing.T) {
	store := &fakeMovieStore{}
	notifier := &fakeNotifier{fail: true}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	id, err := svc.Create(ctx)
	require.NoError(t, err)

	content := &repo.MovieContent{Title: "A", Slug: "a"}
	movie, err := svc.Update(ctx, id.Hex(), content)
	require.Error(t, err)
	assert.Nil(t, movie)

	// Nothing persisted, the flag stays down so a retry notifies again.
	stored, err := store.FindByID(ctx, id.Hex())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.Title)
	assert.False(t, stored.IsSendTelegram)
}

func TestUpdateSkipsPhotoWithoutPoster(t *testing.T) {
	store := &fakeMovieStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	id, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, id.Hex(), &repo.MovieContent{Title: "A", Slug: "a"})
	require.NoError(t, err)

	assert.Empty(t, notifier.photos)
	assert.Len(t, notifier.messages, 1)
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	store := &fakeMovieStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	movie, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), &repo.MovieContent{
		Title:          "A",
		IsSendTelegram: true,
	})
	require.NoError(t, err)
	assert.Nil(t, movie)
}

func TestSearchFiltersByTitleSubstring(t *testing.T) {
	now := time.Now()
	store := &fakeMovieStore{movies: []repo.Movie{
		{ID: primitive.NewObjectID(), Title: "Foobar", Slug: "foobar", CreatedAt: now.Add(-time.Hour)},
		{ID: primitive.NewObjectID(), Title: "Baz", Slug: "baz", CreatedAt: now},
	}}
	svc := newTestService(store, &fakeNotifier{})
	ctx := context.Background()

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Baz", all[0].Title) // newest first

	found, err := svc.Search(ctx, "bar")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Foobar", found[0].Title)

	upper, err := svc.Search(ctx, "FOO")
	require.NoError(t, err)
	require.Len(t, upper, 1)
}

func TestRecordViewIncrementsCounter(t *testing.T) {
	store := &fakeMovieStore{movies: []repo.Movie{
		{ID: primitive.NewObjectID(), Title: "A", Slug: "a"},
	}}
	svc := newTestService(store, &fakeNotifier{})
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, svc.RecordView(ctx, "a"))
	}

	movie, err := svc.GetBySlug(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, int64(n), movie.CountOpened)
}

func TestTopRatedExcludesUnviewedAndOrdersByViews(t *testing.T) {
	store := &fakeMovieStore{movies: []repo.Movie{
		{ID: primitive.NewObjectID(), Title: "A", Slug: "a", CountOpened: 3},
		{ID: primitive.NewObjectID(), Title: "B", Slug: "b", CountOpened: 0},
		{ID: primitive.NewObjectID(), Title: "C", Slug: "c", CountOpened: 7},
	}}
	svc := newTestService(store, &fakeNotifier{})

	movies, err := svc.TopRated(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)

	for i, m := range movies {
		assert.Greater(t, m.CountOpened, int64(0))
		if i > 0 {
			assert.GreaterOrEqual(t, movies[i-1].CountOpened, m.CountOpened)
		}
	}
}

func TestGetBySlugUnknownIsNotFound(t *testing.T) {
	svc := newTestService(&fakeMovieStore{}, &fakeNotifier{})

	movie, err := svc.GetBySlug(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, movie)
}

func TestRateSetsOnlyRating(t *testing.T) {
	id := primitive.NewObjectID()
	store := &fakeMovieStore{movies: []repo.Movie{
		{ID: id, Title: "A", Slug: "a", CountOpened: 2},
	}}
	svc := newTestService(store, &fakeNotifier{})

	movie, err := svc.Rate(context.Background(), id.Hex(), 8.5)
	require.NoError(t, err)
	require.NotNil(t, movie)

	assert.Equal(t, 8.5, movie.Rating)
	assert.Equal(t, "A", movie.Title)
	assert.Equal(t, "a", movie.Slug)
	assert.Equal(t, int64(2), movie.CountOpened)
}

func TestByGenresMatchesAnyGenre(t *testing.T) {
	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()
	g3 := primitive.NewObjectID()

	store := &fakeMovieStore{movies: []repo.Movie{
		{ID: primitive.NewObjectID(), Title: "OnlyG1", GenreIDs: []primitive.ObjectID{g1}},
		{ID: primitive.NewObjectID(), Title: "OnlyG2", GenreIDs: []primitive.ObjectID{g2}},
		{ID: primitive.NewObjectID(), Title: "OnlyG3", GenreIDs: []primitive.ObjectID{g3}},
	}}
	svc := newTestService(store, &fakeNotifier{})

	movies, err := svc.ByGenres(context.Background(), []primitive.ObjectID{g1, g2})
	require.NoError(t, err)
	require.Len(t, movies, 2)

	titles := []string{movies[0].Title, movies[1].Title}
	assert.Contains(t, titles, "OnlyG1")
	assert.Contains(t, titles, "OnlyG2")
}

func TestRemoveReturnsDeletedMovie(t *testing.T) {
	id := primitive.NewObjectID()
	store := &fakeMovieStore{movies: []repo.Movie{
		{ID: id, Title: "A", Slug: "a"},
	}}
	svc := newTestService(store, &fakeNotifier{})
	ctx := context.Background()

	movie, err := svc.Remove(ctx, id.Hex())
	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, "A", movie.Title)

	again, err := svc.Remove(ctx, id.Hex())
	require.NoError(t, err)
	assert.Nil(t, again)
}
