package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pclogr/pclogr/internal/identity"
	"github.com/pclogr/pclogr/internal/model"
	"github.com/pclogr/pclogr/internal/platform/logger"
)

type LocalBuffer interface {
	Load() ([]*model.Part, error)
	Prepend(p *model.Part) error
	Clear() error
}

type PartRepository interface {
	ListByUser(ctx context.Context, uid model.UserID) ([]*model.Part, error)
	Create(ctx context.Context, uid model.UserID, p *model.Part) (string, error)
	CreateBatch(ctx context.Context, uid model.UserID, parts []*model.Part) error
}

type service struct {
	buffer   LocalBuffer
	parts    PartRepository
	provider identity.Provider

	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewSyncService(
	buffer LocalBuffer,
	parts PartRepository,
	provider identity.Provider,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		buffer:         buffer,
		parts:          parts,
		provider:       provider,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

// Merge moves every buffered part into the identity's remote
// collection, deduplicating by client UUID. The whole staged set is
// applied as one batch: any failure leaves the buffer intact for the
// next identity establishment, and the UUID check makes that retry
// idempotent. Success clears the buffer unconditionally.
func (s *service) Merge(ctx context.Context, uid model.UserID) error {
	const op = "sync.service.Merge"
	log := logger.With(logger.String("user_id", string(uid)))

	local, err := s.buffer.Load()
	if err != nil {
		log.Error(ctx, "load local buffer", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(local) == 0 {
		return nil
	}

	rctx, rcancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rcancel()

	remote, err := s.parts.ListByUser(rctx, uid)
	if err != nil {
		log.Error(ctx, "read remote collection", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	remoteUUIDs := make(map[string]struct{}, len(remote))
	for _, p := range remote {
		if p.UUID != "" {
			remoteUUIDs[p.UUID] = struct{}{}
		}
	}

	staged := make([]*model.Part, 0, len(local))
	for _, p := range local {
		if p.UUID != "" {
			if _, dup := remoteUUIDs[p.UUID]; dup {
				continue
			}
		}
		staged = append(staged, normalizeForUpload(p))
	}

	if len(staged) > 0 {
		wctx, wcancel := context.WithTimeout(ctx, s.writeDBTimeout)
		defer wcancel()

		if err := s.parts.CreateBatch(wctx, uid, staged); err != nil {
			log.Error(ctx, "apply staged batch", logger.ErrorF(err))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.buffer.Clear(); err != nil {
		// The next merge re-runs and dedupes by UUID; not fatal.
		log.Warn(ctx, "clear local buffer", logger.ErrorF(err))
	}

	log.Info(ctx, "local buffer merged",
		logger.Int("buffered", len(local)),
		logger.Int("uploaded", len(staged)),
	)

	return nil
}

// normalizeForUpload re-coerces the numeric fields and normalizes the
// purchase date before a buffered record goes remote. The server id
// and timestamps are assigned by the repository on insert.
func normalizeForUpload(p *model.Part) *model.Part {
	out := *p
	out.ID = ""
	if out.Quantity <= 0 {
		out.Quantity = 1
	}
	if out.UnitPrice.IsNegative() {
		out.UnitPrice = decimal.Zero
	}
	if out.PurchaseDate != nil {
		d := out.PurchaseDate.UTC().Truncate(24 * time.Hour)
		out.PurchaseDate = &d
	}
	if out.Status == "" {
		out.Status = model.StatusInInventory
	}
	out.CreatedAt = nil
	out.UpdatedAt = nil
	return &out
}

// SaveWithFallback persists a part remotely when an identity is
// active, and buffers it locally when none is or when the remote
// create fails. Buffered parts get a client UUID so the later merge
// can deduplicate them.
func (s *service) SaveWithFallback(ctx context.Context, uid model.UserID, p *model.Part) (*model.Part, error) {
	const op = "sync.service.SaveWithFallback"
	log := logger.With(
		logger.String("user_id", string(uid)),
		logger.String("part_name", p.Name),
	)

	if uid.Active() {
		wctx, wcancel := context.WithTimeout(ctx, s.writeDBTimeout)
		defer wcancel()

		id, err := s.parts.Create(wctx, uid, p)
		if err == nil {
			p.ID = id
			return p, nil
		}
		log.Warn(ctx, "remote create failed, buffering locally", logger.ErrorF(err))
	}

	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}
	if err := s.buffer.Prepend(p); err != nil {
		log.Error(ctx, "buffer part locally", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// Run watches the identity provider and merges the local buffer on
// every none→present transition. Blocks until ctx is done.
func (s *service) Run(ctx context.Context) error {
	mergeFor := func(uid model.UserID) {
		if !uid.Active() {
			return
		}
		if err := s.Merge(ctx, uid); err != nil {
			logger.Error(ctx, "merge on identity establishment",
				logger.String("user_id", string(uid)),
				logger.ErrorF(err),
			)
		}
	}

	unsubscribe := s.provider.Subscribe(mergeFor)
	defer unsubscribe()

	if uid, ok := s.provider.Current(); ok {
		mergeFor(uid)
	}

	<-ctx.Done()
	return nil
}
