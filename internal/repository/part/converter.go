package repository

import (
	"github.com/shopspring/decimal"

	"github.com/pclogr/pclogr/internal/model"
)

func EntityToModel(uid model.UserID, e *PartEntity) *model.Part {
	if e == nil {
		return nil
	}

	price, err := decimal.NewFromString(e.UnitPrice)
	if err != nil {
		// Corrupt price data reads as zero, never as a load failure.
		price = decimal.Zero
	}

	return &model.Part{
		ID:                  e.ID,
		UUID:                e.UUID,
		Name:                e.Name,
		Category:            e.Category,
		UnitPrice:           price,
		Quantity:            e.Quantity,
		Vendor:              e.Vendor,
		PurchaseDate:        e.PurchaseDate,
		Status:              e.Status,
		LinkedBuildID:       e.LinkedBuildID,
		SourcePartID:        e.SourcePartID,
		RestoredFromBuildID: e.RestoredFromBuildID,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func EntityFromModel(uid model.UserID, p *model.Part) *PartEntity {
	if p == nil {
		return nil
	}

	return &PartEntity{
		ID:                  p.ID,
		UUID:                p.UUID,
		UserID:              string(uid),
		Name:                p.Name,
		Category:            p.Category,
		UnitPrice:           p.UnitPrice.String(),
		Quantity:            p.Quantity,
		Vendor:              p.Vendor,
		PurchaseDate:        p.PurchaseDate,
		Status:              p.Status,
		LinkedBuildID:       p.LinkedBuildID,
		SourcePartID:        p.SourcePartID,
		RestoredFromBuildID: p.RestoredFromBuildID,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
