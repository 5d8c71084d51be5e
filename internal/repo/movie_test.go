package repo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The slug unique index is sparse. Sparse indexes skip documents where the
// field is missing but still index empty strings, so blank documents created
// ahead of their first content update must omit the slug field entirely or
// the second blank insert hits the unique constraint.
func TestBlankDocumentsOmitSlug(t *testing.T) {
	tests := []struct {
		name string
		doc  interface{}
	}{
		{"movie", Movie{GenreIDs: []primitive.ObjectID{}, ActorIDs: []primitive.ObjectID{}}},
		{"genre", Genre{}},
		{"actor", Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.doc)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var doc bson.M
			if err := bson.Unmarshal(raw, &doc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if v, ok := doc["slug"]; ok {
				t.Fatalf("blank %s carries slug field %q", tt.name, v)
			}
		})
	}
}

func TestPopulatedMovieKeepsSlug(t *testing.T) {
	raw, err := bson.Marshal(Movie{Title: "Inception", Slug: "inception"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["slug"] != "inception" {
		t.Fatalf("slug = %v, want inception", doc["slug"])
	}
}
