// internal/domain/models/story.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story is a titled media pitch owned by one director.
//
// Stories are never edited after upload; they are created together with
// their media file and deleted together with it.
type Story struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	MediaType   string             `bson:"media_type" json:"mediaType"` // video | audio | pdf
	MediaURL    string             `bson:"media_url" json:"mediaUrl"`   // e.g. /uploads/<uuid>.mp4
	Genres      []string           `bson:"genres" json:"genres"`        // ordered, duplicates allowed
	DirectorID  primitive.ObjectID `bson:"director_id" json:"directorId"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// StoryView is a Story with its director's public fields joined in.
// Director is nil when the referenced user no longer exists.
type StoryView struct {
	Story    `bson:",inline"`
	Director *DirectorInfo `bson:"director,omitempty" json:"director"`
}
