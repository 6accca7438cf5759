package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CondolenceEntry represents a condolence-book entry stored in MongoDB
type CondolenceEntry struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MemorialID uint               `json:"memorial_id" bson:"memorial_id"`
	AuthorID   uint               `json:"author_id" bson:"author_id"`
	AuthorName string             `json:"author_name" bson:"author_name"`
	Message    string             `json:"message" bson:"message"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// CreateCondolenceRequest defines the request body for writing a condolence entry
type CreateCondolenceRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}
