package repository

import (
	"time"

	"github.com/pclogr/pclogr/internal/model"
)

type BuildEntity struct {
	ID        string            `bson:"_id"`
	UUID      string            `bson:"uuid"`
	UserID    string            `bson:"user_id"`
	Name      string            `bson:"name"`
	Notes     string            `bson:"notes,omitempty"`
	Lines     []BuildLineEntity `bson:"lines"`
	Total     string            `bson:"total"`
	CreatedAt *time.Time        `bson:"created_at,omitempty"`
	UpdatedAt *time.Time        `bson:"updated_at,omitempty"`
}

type BuildLineEntity struct {
	PartID    string         `bson:"part_id"`
	Name      string         `bson:"name"`
	Category  model.Category `bson:"category"`
	UnitPrice string         `bson:"unit_price"`
	Quantity  int64          `bson:"quantity"`
}
