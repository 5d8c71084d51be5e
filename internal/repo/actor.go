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

const actorsCollection = "actors"

type Actor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug,omitempty" json:"slug"`
	Photo     string             `bson:"photo" json:"photo"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type ActorContent struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Photo string `json:"photo"`
}

type ActorRepo struct {
	coll *mongo.Collection
}

func NewActorRepo(db *mongo.Database) *ActorRepo {
	coll := db.Collection(actorsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	coll.Indexes().CreateMany(ctx, indexes)

	return &ActorRepo{coll: coll}
}

func (r *ActorRepo) FindAll(ctx context.Context, searchTerm string) ([]Actor, error) {
	filter := bson.M{}
	if searchTerm != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(searchTerm), "$options": "i"}
		filter["$or"] = []bson.M{{"name": re}, {"slug": re}}
	}

	opts := options.Find().
		SetProjection(bson.M{"updated_at": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var actors []Actor
	if err := cursor.All(ctx, &actors); err != nil {
		return nil, err
	}
	return actors, nil
}

func (r *ActorRepo) FindBySlug(ctx context.Context, slug string) (*Actor, error) {
	var actor Actor
	err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&actor)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *ActorRepo) FindByID(ctx context.Context, id string) (*Actor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var actor Actor
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&actor)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *ActorRepo) CreateEmpty(ctx context.Context) (primitive.ObjectID, error) {
	now := time.Now()
	result, err := r.coll.InsertOne(ctx, Actor{CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *ActorRepo) ApplyUpdate(ctx context.Context, id string, content *ActorContent) (*Actor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":       content.Name,
		"slug":       content.Slug,
		"photo":      content.Photo,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var actor Actor
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&actor)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *ActorRepo) DeleteByID(ctx context.Context, id string) (*Actor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var actor Actor
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&actor)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &actor, nil
}
