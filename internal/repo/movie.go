package repo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const moviesCollection = "movies"

type Movie struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title          string               `bson:"title" json:"title"`
	Slug           string               `bson:"slug,omitempty" json:"slug"`
	Poster         string               `bson:"poster" json:"poster"`
	BigPoster      string               `bson:"big_poster" json:"big_poster"`
	VideoURL       string               `bson:"video_url" json:"video_url"`
	GenreIDs       []primitive.ObjectID `bson:"genres" json:"genre_ids,omitempty"`
	ActorIDs       []primitive.ObjectID `bson:"actors" json:"actor_ids,omitempty"`
	Genres         []Genre              `bson:"-" json:"genres,omitempty"`
	Actors         []Actor              `bson:"-" json:"actors,omitempty"`
	CountOpened    int64                `bson:"count_opened" json:"count_opened"`
	Rating         float64              `bson:"rating" json:"rating"`
	IsSendTelegram bool                 `bson:"is_send_telegram" json:"is_send_telegram"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// MovieContent is the set of fields an update call may touch. Bookkeeping
// fields (count_opened, rating, created_at) are never written through it.
type MovieContent struct {
	Title          string               `json:"title"`
	Slug           string               `json:"slug"`
	Poster         string               `json:"poster"`
	BigPoster      string               `json:"big_poster"`
	VideoURL       string               `json:"video_url"`
	GenreIDs       []primitive.ObjectID `json:"genres"`
	ActorIDs       []primitive.ObjectID `json:"actors"`
	IsSendTelegram bool                 `json:"is_send_telegram"`
}

type MovieRepo struct {
	coll   *mongo.Collection
	genres *mongo.Collection
	actors *mongo.Collection
}

func NewMovieRepo(db *mongo.Database) *MovieRepo {
	coll := db.Collection(moviesCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "count_opened", Value: -1}}},
		{Keys: bson.D{{Key: "genres", Value: 1}}},
		{Keys: bson.D{{Key: "actors", Value: 1}}},
	}
	coll.Indexes().CreateMany(ctx, indexes)

	return &MovieRepo{
		coll:   coll,
		genres: db.Collection(genresCollection),
		actors: db.Collection(actorsCollection),
	}
}

// FindAll returns the catalog, newest first, with genres and actors
// populated. A non-empty searchTerm narrows it to a case-insensitive
// substring match on the title.
func (r *MovieRepo) FindAll(ctx context.Context, searchTerm string) ([]Movie, error) {
	filter := bson.M{}
	if searchTerm != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(searchTerm), "$options": "i"}
	}

	opts := options.Find().
		SetProjection(bson.M{"updated_at": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var movies []Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, err
	}

	if err := r.populate(ctx, movies, true); err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *MovieRepo) FindBySlug(ctx context.Context, slug string) (*Movie, error) {
	var movie Movie
	err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&movie)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	movies := []Movie{movie}
	if err := r.populate(ctx, movies, true); err != nil {
		return nil, err
	}
	return &movies[0], nil
}

func (r *MovieRepo) FindByActor(ctx context.Context, actorID primitive.ObjectID) ([]Movie, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"actors": actorID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var movies []Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// FindByGenres matches movies referencing any of the given genres.
func (r *MovieRepo) FindByGenres(ctx context.Context, genreIDs []primitive.ObjectID) ([]Movie, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"genres": bson.M{"$in": genreIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var movies []Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// IncrementCountOpened bumps the view counter for the movie with the given
// slug. A missing slug is a no-op.
func (r *MovieRepo) IncrementCountOpened(ctx context.Context, slug string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"slug": slug}, bson.M{"$inc": bson.M{"count_opened": 1}})
	return err
}

func (r *MovieRepo) FindByID(ctx context.Context, id string) (*Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var movie Movie
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&movie)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *MovieRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var movies []Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, err
	}

	if err := r.populate(ctx, movies, true); err != nil {
		return nil, err
	}
	return movies, nil
}

// CreateEmpty inserts a blank movie and returns its id. Content arrives
// through a follow-up ApplyUpdate.
func (r *MovieRepo) CreateEmpty(ctx context.Context) (primitive.ObjectID, error) {
	now := time.Now()
	movie := Movie{
		GenreIDs:  []primitive.ObjectID{},
		ActorIDs:  []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := r.coll.InsertOne(ctx, movie)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// ApplyUpdate replaces the content fields of the movie with the given id and
// returns the post-update document, or (nil, nil) when the id is unknown.
func (r *MovieRepo) ApplyUpdate(ctx context.Context, id string, content *MovieContent) (*Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	genres := content.GenreIDs
	if genres == nil {
		genres = []primitive.ObjectID{}
	}
	actors := content.ActorIDs
	if actors == nil {
		actors = []primitive.ObjectID{}
	}

	update := bson.M{"$set": bson.M{
		"title":            content.Title,
		"slug":             content.Slug,
		"poster":           content.Poster,
		"big_poster":       content.BigPoster,
		"video_url":        content.VideoURL,
		"genres":           genres,
		"actors":           actors,
		"is_send_telegram": content.IsSendTelegram,
		"updated_at":       time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var movie Movie
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&movie)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// DeleteByID removes the movie and returns the deleted document for caller
// inspection, or (nil, nil) when the id is unknown.
func (r *MovieRepo) DeleteByID(ctx context.Context, id string) (*Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var movie Movie
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&movie)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// MostPopular returns viewed movies ordered by view count, genres populated.
func (r *MovieRepo) MostPopular(ctx context.Context) ([]Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "count_opened", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{"count_opened": bson.M{"$gt": 0}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var movies []Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, err
	}

	if err := r.populate(ctx, movies, false); err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *MovieRepo) SetRating(ctx context.Context, id string, rating float64) (*Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"rating": rating, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var movie Movie
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&movie)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *MovieRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// populate materializes genre (and optionally actor) references in place.
func (r *MovieRepo) populate(ctx context.Context, movies []Movie, withActors bool) error {
	if len(movies) == 0 {
		return nil
	}

	genreSet := map[primitive.ObjectID]struct{}{}
	actorSet := map[primitive.ObjectID]struct{}{}
	for _, m := range movies {
		for _, id := range m.GenreIDs {
			genreSet[id] = struct{}{}
		}
		if withActors {
			for _, id := range m.ActorIDs {
				actorSet[id] = struct{}{}
			}
		}
	}

	genresByID := map[primitive.ObjectID]Genre{}
	if len(genreSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(genreSet))
		for id := range genreSet {
			ids = append(ids, id)
		}

		cursor, err := r.genres.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return err
		}
		var genres []Genre
		if err := cursor.All(ctx, &genres); err != nil {
			return err
		}
		for _, g := range genres {
			genresByID[g.ID] = g
		}
	}

	actorsByID := map[primitive.ObjectID]Actor{}
	if len(actorSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(actorSet))
		for id := range actorSet {
			ids = append(ids, id)
		}

		cursor, err := r.actors.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return err
		}
		var actors []Actor
		if err := cursor.All(ctx, &actors); err != nil {
			return err
		}
		for _, a := range actors {
			actorsByID[a.ID] = a
		}
	}

	for i := range movies {
		for _, id := range movies[i].GenreIDs {
			if g, ok := genresByID[id]; ok {
				movies[i].Genres = append(movies[i].Genres, g)
			}
		}
		if withActors {
			for _, id := range movies[i].ActorIDs {
				if a, ok := actorsByID[id]; ok {
					movies[i].Actors = append(movies[i].Actors, a)
				}
			}
		}
	}
	return nil
}
