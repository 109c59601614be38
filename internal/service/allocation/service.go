package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pclogr/pclogr/internal/model"
	"github.com/pclogr/pclogr/internal/platform/logger"
)

type PartRepository interface {
	ListByUser(ctx context.Context, uid model.UserID) ([]*model.Part, error)
	Create(ctx context.Context, uid model.UserID, p *model.Part) (string, error)
	UpdateFields(ctx context.Context, uid model.UserID, id string, upd model.PartUpdate) error
	Delete(ctx context.Context, uid model.UserID, id string) error
}

type BuildRepository interface {
	Create(ctx context.Context, uid model.UserID, b *model.Build) (string, error)
}

type service struct {
	parts  PartRepository
	builds BuildRepository

	readDBTimeout      time.Duration
	writeDBTimeout     time.Duration
	buildCreateTimeout time.Duration
}

func NewAllocationService(
	parts PartRepository,
	builds BuildRepository,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
	buildCreateTimeout time.Duration,
) *service {
	return &service{
		parts:              parts,
		builds:             builds,
		readDBTimeout:      readDBTimeout,
		writeDBTimeout:     writeDBTimeout,
		buildCreateTimeout: buildCreateTimeout,
	}
}

// Commit turns a staged selection into a persisted build, moving the
// requested quantity out of inventory. Every line is re-validated
// against a fresh read immediately before the build is written; any
// violation aborts the whole commit with no partial write. Per-line
// inventory bookkeeping after that point is logged on failure and
// never rolls the build back.
func (s *service) Commit(
	ctx context.Context,
	uid model.UserID,
	sel *Selection,
	name, notes string,
) (*model.Build, error) {
	const op = "allocation.service.Commit"
	log := logger.With(
		logger.String("user_id", string(uid)),
		logger.String("build_name", name),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w: build name is required", op, model.ErrValidation)
	}
	if sel == nil || sel.Empty() {
		return nil, fmt.Errorf("%s: %w: at least one part is required", op, model.ErrValidation)
	}

	lines := make([]model.BuildLine, 0, len(sel.Lines()))
	for _, ln := range sel.Lines() {
		if ln.Quantity > 0 {
			lines = append(lines, ln)
		}
	}

	// Final re-validation against live quantities. The staged snapshot
	// may be stale against concurrent external changes.
	rctx, rcancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rcancel()

	liveParts, err := s.parts.ListByUser(rctx, uid)
	if err != nil {
		log.Error(ctx, "live inventory re-read", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	liveByID := lo.KeyBy(liveParts, func(p *model.Part) string { return p.ID })

	for _, ln := range lines {
		live, ok := liveByID[ln.PartID]
		if !ok {
			return nil, fmt.Errorf("%s: %w: part %q no longer exists", op, model.ErrInsufficientStock, ln.Name)
		}
		if ln.Quantity > live.Quantity {
			return nil, fmt.Errorf("%s: %w: %q requested %d, have %d",
				op, model.ErrInsufficientStock, ln.Name, ln.Quantity, live.Quantity)
		}
	}

	build := &model.Build{
		UUID:  uuid.NewString(),
		Name:  name,
		Notes: notes,
		Lines: lines,
		Total: model.LinesTotal(lines),
	}

	buildID, err := s.createBuildWithDeadline(ctx, uid, build)
	if err != nil {
		log.Error(ctx, "create build document", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	build.ID = buildID

	for _, ln := range lines {
		s.allocateLine(ctx, uid, buildID, ln, liveByID[ln.PartID], log)
	}

	return build, nil
}

// createBuildWithDeadline bounds the initiating write by a fixed
// deadline. On expiry the write is NOT cancelled; it may still land
// after the caller has been told it failed, so the timeout is
// ambiguous, not a guaranteed abort.
func (s *service) createBuildWithDeadline(
	ctx context.Context,
	uid model.UserID,
	build *model.Build,
) (string, error) {
	type result struct {
		id  string
		err error
	}
	resCh := make(chan result, 1)

	go func() {
		id, err := s.builds.Create(context.WithoutCancel(ctx), uid, build)
		resCh <- result{id: id, err: err}
	}()

	timer := time.NewTimer(s.buildCreateTimeout)
	defer timer.Stop()

	select {
	case res := <-resCh:
		return res.id, res.err
	case <-timer.C:
		return "", model.ErrCommitTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// allocateLine moves one committed line's quantity out of its source
// part: decrement in place when a remainder stays in inventory, delete
// the source when fully consumed, then always spawn the in_build
// record carrying the lineage. Failures here leave the already-written
// build in place; they are logged and recovered manually.
func (s *service) allocateLine(
	ctx context.Context,
	uid model.UserID,
	buildID string,
	ln model.BuildLine,
	live *model.Part,
	log *logger.Logger,
) {
	remaining := live.Quantity - ln.Quantity

	wctx, wcancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wcancel()

	if remaining > 0 {
		err := s.parts.UpdateFields(wctx, uid, ln.PartID, model.PartUpdate{
			Quantity: lo.ToPtr(remaining),
		})
		if err != nil {
			log.Error(ctx, "decrement source part",
				logger.String("part_id", ln.PartID),
				logger.ErrorF(err),
			)
		}
	} else {
		if err := s.parts.Delete(wctx, uid, ln.PartID); err != nil {
			log.Error(ctx, "delete exhausted source part",
				logger.String("part_id", ln.PartID),
				logger.ErrorF(err),
			)
		}
	}

	spawned := &model.Part{
		UUID:          uuid.NewString(),
		Name:          ln.Name,
		Category:      ln.Category,
		UnitPrice:     ln.UnitPrice,
		Quantity:      ln.Quantity,
		Vendor:        live.Vendor,
		PurchaseDate:  live.PurchaseDate,
		Status:        model.StatusInBuild,
		LinkedBuildID: buildID,
		SourcePartID:  ln.PartID,
	}
	if _, err := s.parts.Create(wctx, uid, spawned); err != nil {
		log.Error(ctx, "spawn in-build part",
			logger.String("part_id", ln.PartID),
			logger.String("build_id", buildID),
			logger.ErrorF(err),
		)
	}
}

// IsAmbiguousTimeout reports whether the error means the build write
// may have landed despite the reported failure.
func IsAmbiguousTimeout(err error) bool {
	return errors.Is(err, model.ErrCommitTimeout)
}
