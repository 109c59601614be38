package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryCPU         Category = "CPU"
	CategoryCooler      Category = "Cooler"
	CategoryMotherboard Category = "Motherboard"
	CategoryRAM         Category = "RAM"
	CategoryStorage     Category = "Storage"
	CategoryGPU         Category = "GPU"
	CategoryCase        Category = "Case"
	CategoryPSU         Category = "PSU"
	CategoryOther       Category = "Other"
)

var categories = []Category{
	CategoryCPU,
	CategoryCooler,
	CategoryMotherboard,
	CategoryRAM,
	CategoryStorage,
	CategoryGPU,
	CategoryCase,
	CategoryPSU,
	CategoryOther,
}

// ParseCategory maps free text onto the known category set.
// Anything outside the set falls back to Other.
func ParseCategory(s string) Category {
	in := strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(in, string(c)) {
			return c
		}
	}
	if strings.EqualFold(in, "Graphics Card") {
		return CategoryGPU
	}
	return CategoryOther
}

// Rank in the fixed build-line ordering. Unrecognized categories sort last.
var categoryRank = map[Category]int{
	CategoryCPU:         0,
	CategoryCooler:      1,
	CategoryMotherboard: 2,
	CategoryRAM:         3,
	CategoryStorage:     4,
	CategoryGPU:         5,
	CategoryCase:        6,
	CategoryPSU:         7,
}

func (c Category) SortRank() int {
	if r, ok := categoryRank[c]; ok {
		return r
	}
	return len(categoryRank)
}

type PartStatus string

const (
	StatusInInventory    PartStatus = "in_inventory"
	StatusInBuild        PartStatus = "in_build"
	StatusNotInInventory PartStatus = "not_in_inventory"
)

type Part struct {
	// Server-issued document id, stable while the document exists.
	ID string
	// Client-generated UUID, stable across local→remote migration.
	UUID string
	// Human-readable part name.
	Name string
	// Component category; free text falls back to Other.
	Category Category
	// Unit price, non-negative.
	UnitPrice decimal.Decimal
	// Quantity on hand, non-negative.
	Quantity int64
	// Vendor the part was purchased from, optional.
	Vendor string
	// Purchase date, optional, normalized to a UTC calendar date.
	PurchaseDate *time.Time
	Status       PartStatus
	// LinkedBuildID is set only on build-spawned records and names the
	// build that consumed this quantity.
	LinkedBuildID string
	// SourcePartID is set only on build-spawned records and names the
	// originating inventory part.
	SourcePartID string
	// RestoredFromBuildID marks parts re-created during reconciliation
	// when no original could be located.
	RestoredFromBuildID string
	CreatedAt           *time.Time
	UpdatedAt           *time.Time
}

// CoercePrice parses a user-supplied price. Unparseable or negative
// input coerces to zero.
func CoercePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// CoerceQuantity clamps a user-supplied quantity. Non-positive input
// coerces to one, matching direct-entry defaults.
func CoerceQuantity(q int64) int64 {
	if q <= 0 {
		return 1
	}
	return q
}

// NormalizePurchaseDate parses an optional YYYY-MM-DD date.
// Empty or unparseable input normalizes to nil.
func NormalizePurchaseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// PartUpdate is a partial update: nil fields are left untouched.
type PartUpdate struct {
	Name         *string
	Category     *Category
	UnitPrice    *decimal.Decimal
	Quantity     *int64
	Vendor       *string
	PurchaseDate *time.Time
	Status       *PartStatus
}

type ListFilter struct {
	// Category filters by part category; empty or "all" keeps everything.
	Category string
	// SortBy is one of "name", "price", "purchaseDate", "createdAt".
	SortBy string
}
