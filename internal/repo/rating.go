package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ratingsCollection = "ratings"

type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	MovieID   primitive.ObjectID `bson:"movie_id" json:"movie_id"`
	Value     float64            `bson:"value" json:"value"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type RatingRepo struct {
	coll *mongo.Collection
}

func NewRatingRepo(db *mongo.Database) *RatingRepo {
	coll := db.Collection(ratingsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "movie_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "movie_id", Value: 1}}},
	}
	coll.Indexes().CreateMany(ctx, indexes)

	return &RatingRepo{coll: coll}
}

// Upsert stores the user's rating for a movie, one document per pair.
func (r *RatingRepo) Upsert(ctx context.Context, userID, movieID primitive.ObjectID, value float64) error {
	update := bson.M{
		"$set":         bson.M{"value": value, "updated_at": time.Now()},
		"$setOnInsert": bson.M{"created_at": time.Now()},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.coll.UpdateOne(ctx, bson.M{"user_id": userID, "movie_id": movieID}, update, opts)
	return err
}

// ValueByUserMovie returns the user's own rating, 0 when none exists.
func (r *RatingRepo) ValueByUserMovie(ctx context.Context, userID, movieID primitive.ObjectID) (float64, error) {
	var rating Rating
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "movie_id": movieID}).Decode(&rating)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rating.Value, nil
}

// AverageForMovie computes the mean of all ratings for a movie, 0 when the
// movie has none.
func (r *RatingRepo) AverageForMovie(ctx context.Context, movieID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"movie_id": movieID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "average": bson.M{"$avg": "$value"}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Average, nil
}
