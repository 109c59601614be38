package repository

import (
	"github.com/shopspring/decimal"

	"github.com/pclogr/pclogr/internal/model"
)

func EntityToModel(e *BuildEntity) *model.Build {
	if e == nil {
		return nil
	}

	total, err := decimal.NewFromString(e.Total)
	if err != nil {
		total = decimal.Zero
	}

	lines := make([]model.BuildLine, 0, len(e.Lines))
	for _, ln := range e.Lines {
		price, perr := decimal.NewFromString(ln.UnitPrice)
		if perr != nil {
			price = decimal.Zero
		}
		lines = append(lines, model.BuildLine{
			PartID:    ln.PartID,
			Name:      ln.Name,
			Category:  ln.Category,
			UnitPrice: price,
			Quantity:  ln.Quantity,
		})
	}

	return &model.Build{
		ID:        e.ID,
		UUID:      e.UUID,
		Name:      e.Name,
		Notes:     e.Notes,
		Lines:     lines,
		Total:     total,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func EntityFromModel(uid model.UserID, b *model.Build) *BuildEntity {
	if b == nil {
		return nil
	}

	lines := make([]BuildLineEntity, 0, len(b.Lines))
	for _, ln := range b.Lines {
		lines = append(lines, BuildLineEntity{
			PartID:    ln.PartID,
			Name:      ln.Name,
			Category:  ln.Category,
			UnitPrice: ln.UnitPrice.String(),
			Quantity:  ln.Quantity,
		})
	}

	return &BuildEntity{
		ID:        b.ID,
		UUID:      b.UUID,
		UserID:    string(uid),
		Name:      b.Name,
		Notes:     b.Notes,
		Lines:     lines,
		Total:     b.Total.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
