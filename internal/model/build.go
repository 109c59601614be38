package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BuildLine is a denormalized snapshot of an allocation, not a live
// reference: name and price do not track the source part afterwards.
type BuildLine struct {
	PartID    string
	Name      string
	Category  Category
	UnitPrice decimal.Decimal
	Quantity  int64
}

type Build struct {
	// Server-issued document id.
	ID string
	// Client-generated UUID.
	UUID string
	// Build name, required.
	Name string
	// Free-form notes, optional.
	Notes string
	// Allocation lines in the fixed category order.
	Lines []BuildLine
	// Total as of the last save: Σ line.UnitPrice × line.Quantity.
	// Not recomputed on read.
	Total     decimal.Decimal
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// SortLines orders lines by the fixed category ranking, stable within
// a category.
func SortLines(lines []BuildLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Category.SortRank() < lines[j].Category.SortRank()
	})
}

// LinesTotal sums unit price × quantity over lines.
func LinesTotal(lines []BuildLine) decimal.Decimal {
	total := decimal.Zero
	for _, ln := range lines {
		total = total.Add(ln.UnitPrice.Mul(decimal.NewFromInt(ln.Quantity)))
	}
	return total
}

// UserID scopes every remote collection. Engine operations take it as
// an explicit parameter; an empty value means no identity is active.
type UserID string

func (u UserID) Active() bool { return u != "" }
