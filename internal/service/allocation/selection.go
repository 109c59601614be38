package service

import (
	"github.com/shopspring/decimal"

	"github.com/pclogr/pclogr/internal/model"
)

// Selection is the staged, in-memory part list for one in-progress
// build. It is per UI session and never shared between goroutines.
type Selection struct {
	lines []model.BuildLine
}

func NewSelection() *Selection { return &Selection{} }

// Available is the live inventory quantity of partID minus everything
// already staged for that part on this selection. Unknown parts have
// zero availability; the result is never negative.
func (s *Selection) Available(partID string, live []*model.Part) int64 {
	return s.available(partID, live, false)
}

// availableExcludingLine ignores partID's own staged line, which is
// the bound a quantity edit on that line must respect.
func (s *Selection) availableExcludingLine(partID string, live []*model.Part) int64 {
	return s.available(partID, live, true)
}

func (s *Selection) available(partID string, live []*model.Part, excludeOwnLine bool) int64 {
	var stock int64
	found := false
	for _, p := range live {
		if p.ID == partID {
			stock = p.Quantity
			found = true
			break
		}
	}
	if !found {
		return 0
	}

	for _, ln := range s.lines {
		if ln.PartID == partID && !excludeOwnLine {
			stock -= ln.Quantity
		}
	}
	if stock < 0 {
		return 0
	}

	return stock
}

// Add stages one more unit of the part: +1 on an existing line, or a
// new line at quantity 1. Exhausted availability is an advisory
// failure the UI reports, not a hard error state.
func (s *Selection) Add(p *model.Part, live []*model.Part) error {
	if p == nil {
		return model.ErrPartNotFound
	}
	if s.Available(p.ID, live) <= 0 {
		return model.ErrInsufficientStock
	}

	for i := range s.lines {
		if s.lines[i].PartID == p.ID {
			s.lines[i].Quantity++
			return nil
		}
	}

	s.lines = append(s.lines, model.BuildLine{
		PartID:    p.ID,
		Name:      p.Name,
		Category:  p.Category,
		UnitPrice: p.UnitPrice,
		Quantity:  1,
	})

	return nil
}

// SetQuantity clamps the requested quantity into
// [0, available-excluding-this-line] and applies it. It returns the
// applied quantity and whether the raw request was clamped.
func (s *Selection) SetQuantity(partID string, requested int64, live []*model.Part) (int64, bool) {
	max := s.availableExcludingLine(partID, live)

	applied := requested
	clamped := false
	if applied < 0 {
		applied = 0
		clamped = true
	}
	if applied > max {
		applied = max
		clamped = true
	}

	for i := range s.lines {
		if s.lines[i].PartID == partID {
			s.lines[i].Quantity = applied
			return applied, clamped
		}
	}

	return 0, true
}

func (s *Selection) Remove(partID string) {
	kept := s.lines[:0]
	for _, ln := range s.lines {
		if ln.PartID != partID {
			kept = append(kept, ln)
		}
	}
	s.lines = kept
}

// Lines returns a copy of the staged lines in the fixed category
// order, so the staged view agrees with what commit will persist.
func (s *Selection) Lines() []model.BuildLine {
	out := make([]model.BuildLine, len(s.lines))
	copy(out, s.lines)
	model.SortLines(out)
	return out
}

func (s *Selection) Total() decimal.Decimal {
	return model.LinesTotal(s.lines)
}

func (s *Selection) Empty() bool {
	for _, ln := range s.lines {
		if ln.Quantity > 0 {
			return false
		}
	}
	return true
}
