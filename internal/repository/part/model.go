package repository

import (
	"time"

	"github.com/pclogr/pclogr/internal/model"
)

type PartEntity struct {
	ID                  string           `bson:"_id"`
	UUID                string           `bson:"uuid"`
	UserID              string           `bson:"user_id"`
	Name                string           `bson:"name"`
	Category            model.Category   `bson:"category"`
	UnitPrice           string           `bson:"unit_price"`
	Quantity            int64            `bson:"quantity"`
	Vendor              string           `bson:"vendor,omitempty"`
	PurchaseDate        *time.Time       `bson:"purchase_date,omitempty"`
	Status              model.PartStatus `bson:"status"`
	LinkedBuildID       string           `bson:"linked_build_id,omitempty"`
	SourcePartID        string           `bson:"source_part_id,omitempty"`
	RestoredFromBuildID string           `bson:"restored_from_build_id,omitempty"`
	CreatedAt           *time.Time       `bson:"created_at,omitempty"`
	UpdatedAt           *time.Time       `bson:"updated_at,omitempty"`
}
