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

const genresCollection = "genres"

type Genre struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug,omitempty" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Icon        string             `bson:"icon" json:"icon"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type GenreContent struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type GenreRepo struct {
	coll *mongo.Collection
}

func NewGenreRepo(db *mongo.Database) *GenreRepo {
	coll := db.Collection(genresCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	coll.Indexes().CreateMany(ctx, indexes)

	return &GenreRepo{coll: coll}
}

func (r *GenreRepo) FindAll(ctx context.Context, searchTerm string) ([]Genre, error) {
	filter := bson.M{}
	if searchTerm != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(searchTerm), "$options": "i"}
		filter["$or"] = []bson.M{{"name": re}, {"slug": re}, {"description": re}}
	}

	opts := options.Find().
		SetProjection(bson.M{"updated_at": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var genres []Genre
	if err := cursor.All(ctx, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *GenreRepo) FindBySlug(ctx context.Context, slug string) (*Genre, error) {
	var genre Genre
	err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&genre)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GenreRepo) FindByID(ctx context.Context, id string) (*Genre, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var genre Genre
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&genre)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GenreRepo) CreateEmpty(ctx context.Context) (primitive.ObjectID, error) {
	now := time.Now()
	result, err := r.coll.InsertOne(ctx, Genre{CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *GenreRepo) ApplyUpdate(ctx context.Context, id string, content *GenreContent) (*Genre, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":        content.Name,
		"slug":        content.Slug,
		"description": content.Description,
		"icon":        content.Icon,
		"updated_at":  time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var genre Genre
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&genre)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GenreRepo) DeleteByID(ctx context.Context, id string) (*Genre, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var genre Genre
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&genre)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}
