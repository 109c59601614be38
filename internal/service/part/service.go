package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pclogr/pclogr/internal/model"
	"github.com/pclogr/pclogr/internal/platform/logger"
)

type PartRepository interface {
	ListByUser(ctx context.Context, uid model.UserID) ([]*model.Part, error)
	UpdateFields(ctx context.Context, uid model.UserID, id string, upd model.PartUpdate) error
	Delete(ctx context.Context, uid model.UserID, id string) error
}

// Saver is the sync engine's save-with-fallback: remote when an
// identity is active, local buffer otherwise.
type Saver interface {
	SaveWithFallback(ctx context.Context, uid model.UserID, p *model.Part) (*model.Part, error)
}

// PartInput is raw user entry before coercion.
type PartInput struct {
	Name         string
	Category     string
	Price        string
	Quantity     int64
	Vendor       string
	PurchaseDate string
}

type service struct {
	repo          PartRepository
	saver         Saver
	readDBTimeout time.Duration
}

func NewPartService(repo PartRepository, saver Saver, readDBTimeout time.Duration) *service {
	return &service{repo: repo, saver: saver, readDBTimeout: readDBTimeout}
}

// Add validates and coerces a direct entry, then saves it remotely or
// into the local buffer depending on the active identity.
func (s *service) Add(ctx context.Context, uid model.UserID, in PartInput) (*model.Part, error) {
	const op = "part.service.Add"

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w: name is required", op, model.ErrValidation)
	}

	p := &model.Part{
		Name:         name,
		Category:     model.ParseCategory(in.Category),
		UnitPrice:    model.CoercePrice(in.Price),
		Quantity:     model.CoerceQuantity(in.Quantity),
		Vendor:       strings.TrimSpace(in.Vendor),
		PurchaseDate: model.NormalizePurchaseDate(in.PurchaseDate),
		Status:       model.StatusInInventory,
	}

	saved, err := s.saver.SaveWithFallback(ctx, uid, p)
	if err != nil {
		logger.Error(ctx, "save part", logger.String("name", name), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func (s *service) Update(ctx context.Context, uid model.UserID, id string, upd model.PartUpdate) error {
	const op = "part.service.Update"

	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%s: %w: part id is required", op, model.ErrValidation)
	}

	if err := s.repo.UpdateFields(ctx, uid, id, upd); err != nil {
		logger.Error(ctx, "update part", logger.String("part_id", id), logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *service) Delete(ctx context.Context, uid model.UserID, id string) error {
	const op = "part.service.Delete"

	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%s: %w: part id is required", op, model.ErrValidation)
	}

	if err := s.repo.Delete(ctx, uid, id); err != nil {
		logger.Error(ctx, "delete part", logger.String("part_id", id), logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// List reads the identity's parts and applies the view filter and
// sort client-side, the way the inventory page presents them.
func (s *service) List(ctx context.Context, uid model.UserID, f model.ListFilter) ([]*model.Part, error) {
	const op = "part.service.List"

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	parts, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		logger.Error(ctx, "list parts", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return filterAndSort(parts, f), nil
}

func filterAndSort(parts []*model.Part, f model.ListFilter) []*model.Part {
	out := make([]*model.Part, 0, len(parts))
	for _, p := range parts {
		if f.Category != "" && !strings.EqualFold(f.Category, "all") &&
			!strings.EqualFold(string(p.Category), f.Category) {
			continue
		}
		out = append(out, p)
	}

	switch f.SortBy {
	case "name":
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case "price":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UnitPrice.LessThan(out[j].UnitPrice)
		})
	case "purchaseDate":
		sort.SliceStable(out, func(i, j int) bool {
			return timeDesc(out[i].PurchaseDate, out[j].PurchaseDate)
		})
	case "createdAt":
		sort.SliceStable(out, func(i, j int) bool {
			return timeDesc(out[i].CreatedAt, out[j].CreatedAt)
		})
	default:
		// The repository already delivers newest-first.
	}

	return out
}

// timeDesc orders newest first; missing timestamps sort last.
func timeDesc(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
