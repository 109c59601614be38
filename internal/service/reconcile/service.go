package service

import (
	"context"
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
	BuildByID(ctx context.Context, uid model.UserID, id string) (*model.Build, error)
	UpdateFields(ctx context.Context, uid model.UserID, b *model.Build) error
	Delete(ctx context.Context, uid model.UserID, id string) error
}

type service struct {
	parts  PartRepository
	builds BuildRepository

	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewReconcileService(
	parts PartRepository,
	builds BuildRepository,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		parts:          parts,
		builds:         builds,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

// Delete reverses a build's allocation and removes the build document.
// returnToInventory chooses between merging the build's quantity back
// into inventory and discarding it. The build document is deleted
// last, but deletion is attempted even when part-side bookkeeping
// fails along the way: those failures are logged, not retried.
func (s *service) Delete(ctx context.Context, uid model.UserID, buildID string, returnToInventory bool) error {
	const op = "reconcile.service.Delete"
	log := logger.With(
		logger.String("user_id", string(uid)),
		logger.String("build_id", buildID),
		logger.Bool("return_to_inventory", returnToInventory),
	)

	rctx, rcancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rcancel()

	build, err := s.builds.BuildByID(rctx, uid, buildID)
	if err != nil {
		log.Error(ctx, "read build", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	// One bulk snapshot; all matching below is client-side.
	snapshot, err := s.parts.ListByUser(rctx, uid)
	if err != nil {
		log.Error(ctx, "snapshot parts", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if returnToInventory {
		// The build's recorded lines drive the return, not live part
		// state: they are the requested amounts being credited back.
		// The snapshot threads through so a part restored for one line
		// can absorb quantity from the next.
		for _, ln := range build.Lines {
			snapshot = s.returnLine(ctx, uid, buildID, ln, snapshot, log)
		}
	} else {
		for _, p := range snapshot {
			if p.LinkedBuildID != buildID {
				continue
			}
			if derr := s.deletePart(ctx, uid, p.ID); derr != nil {
				log.Error(ctx, "discard in-build part",
					logger.String("part_id", p.ID),
					logger.ErrorF(derr),
				)
			}
		}
	}

	wctx, wcancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wcancel()

	if err := s.builds.Delete(wctx, uid, buildID); err != nil {
		log.Error(ctx, "delete build document", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// returnLine credits one recorded allocation line back to inventory.
// Candidate in-build parts are located by sourcePartId, then by
// (build, name), then by (build, category). The fallback chain is
// order-sensitive and intentionally fuzzy under duplicate names; it is
// the strongest identity the split records carry.
func (s *service) returnLine(
	ctx context.Context,
	uid model.UserID,
	buildID string,
	ln model.BuildLine,
	snapshot []*model.Part,
	log *logger.Logger,
) []*model.Part {
	candidates := lo.Filter(snapshot, func(p *model.Part, _ int) bool {
		return p.LinkedBuildID == buildID && p.SourcePartID == ln.PartID
	})
	if len(candidates) == 0 {
		candidates = lo.Filter(snapshot, func(p *model.Part, _ int) bool {
			return p.LinkedBuildID == buildID && p.Name == ln.Name
		})
	}
	if len(candidates) == 0 {
		candidates = lo.Filter(snapshot, func(p *model.Part, _ int) bool {
			return p.LinkedBuildID == buildID && p.Category == ln.Category
		})
	}

	if len(candidates) == 0 {
		// No in-build record survived. Credit the original part
		// directly, or recreate it when even that is gone.
		for _, p := range snapshot {
			if p.ID == ln.PartID {
				s.creditPart(ctx, uid, p, ln.Quantity, log)
				return snapshot
			}
		}
		if restored := s.createRestoredPart(ctx, uid, buildID, ln, ln.Quantity, log); restored != nil {
			snapshot = append(snapshot, restored)
		}
		return snapshot
	}

	remaining := ln.Quantity
	for _, cand := range candidates {
		if remaining <= 0 {
			break
		}
		take := cand.Quantity
		if take > remaining {
			take = remaining
		}

		target := s.findReturnTarget(cand, ln, snapshot)
		if target != nil {
			s.creditPart(ctx, uid, target, take, log)
		} else if restored := s.createRestoredPart(ctx, uid, buildID, ln, take, log); restored != nil {
			snapshot = append(snapshot, restored)
		}

		s.drainInBuildPart(ctx, uid, cand, take, log)
		remaining -= take
	}

	// Unmet need after exhausting every match is credited as a fresh
	// inventory record of the requested amount.
	if remaining > 0 {
		if restored := s.createRestoredPart(ctx, uid, buildID, ln, remaining, log); restored != nil {
			snapshot = append(snapshot, restored)
		}
	}

	return snapshot
}

// findReturnTarget picks the inventory part the returned quantity
// merges into: by the candidate's source id first, then by name and
// category among parts not committed to a build.
func (s *service) findReturnTarget(cand *model.Part, ln model.BuildLine, snapshot []*model.Part) *model.Part {
	if cand.SourcePartID != "" {
		for _, p := range snapshot {
			if p.ID == cand.SourcePartID {
				return p
			}
		}
	}
	for _, p := range snapshot {
		if p.Status != model.StatusInBuild && p.Name == ln.Name && p.Category == ln.Category {
			return p
		}
	}
	return nil
}

func (s *service) creditPart(ctx context.Context, uid model.UserID, p *model.Part, qty int64, log *logger.Logger) {
	p.Quantity += qty

	wctx, wcancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wcancel()

	err := s.parts.UpdateFields(wctx, uid, p.ID, model.PartUpdate{
		Quantity: lo.ToPtr(p.Quantity),
	})
	if err != nil {
		log.Error(ctx, "credit inventory part",
			logger.String("part_id", p.ID),
			logger.Int64("credited_qty", qty),
			logger.ErrorF(err),
		)
	}
}

// createRestoredPart creates a fresh in_inventory record when nothing
// existing can absorb the returned quantity. Returns the created part
// so the caller can extend its working snapshot, or nil on failure.
func (s *service) createRestoredPart(
	ctx context.Context,
	uid model.UserID,
	buildID string,
	ln model.BuildLine,
	qty int64,
	log *logger.Logger,
) *model.Part {
	restored := &model.Part{
		UUID:                uuid.NewString(),
		Name:                ln.Name,
		Category:            ln.Category,
		UnitPrice:           ln.UnitPrice,
		Quantity:            qty,
		Status:              model.StatusInInventory,
		RestoredFromBuildID: buildID,
	}

	wctx, wcancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wcancel()

	id, err := s.parts.Create(wctx, uid, restored)
	if err != nil {
		log.Error(ctx, "create restored part",
			logger.String("name", ln.Name),
			logger.Int64("qty", qty),
			logger.ErrorF(err),
		)
		return nil
	}
	restored.ID = id

	return restored
}

func (s *service) drainInBuildPart(ctx context.Context, uid model.UserID, cand *model.Part, take int64, log *logger.Logger) {
	cand.Quantity -= take

	wctx, wcancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wcancel()

	if cand.Quantity <= 0 {
		if err := s.parts.Delete(wctx, uid, cand.ID); err != nil {
			log.Error(ctx, "delete drained in-build part",
				logger.String("part_id", cand.ID),
				logger.ErrorF(err),
			)
		}
		return
	}

	err := s.parts.UpdateFields(wctx, uid, cand.ID, model.PartUpdate{
		Quantity: lo.ToPtr(cand.Quantity),
	})
	if err != nil {
		log.Error(ctx, "decrement in-build part",
			logger.String("part_id", cand.ID),
			logger.ErrorF(err),
		)
	}
}

func (s *service) deletePart(ctx context.Context, uid model.UserID, id string) error {
	wctx, wcancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wcancel()
	return s.parts.Delete(wctx, uid, id)
}

// Edit rewrites a build's name, notes and lines, re-sorting by the
// fixed category order and recomputing the total. It does NOT re-run
// allocation: quantity increases are not re-checked against inventory
// and decreases release nothing. Known gap, kept on purpose.
func (s *service) Edit(
	ctx context.Context,
	uid model.UserID,
	buildID string,
	name, notes string,
	newLines []model.BuildLine,
) (*model.Build, error) {
	const op = "reconcile.service.Edit"
	log := logger.With(
		logger.String("user_id", string(uid)),
		logger.String("build_id", buildID),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w: build name is required", op, model.ErrValidation)
	}

	rctx, rcancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rcancel()

	build, err := s.builds.BuildByID(rctx, uid, buildID)
	if err != nil {
		log.Error(ctx, "read build", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines := make([]model.BuildLine, len(newLines))
	copy(lines, newLines)
	model.SortLines(lines)

	build.Name = name
	build.Notes = notes
	build.Lines = lines
	build.Total = model.LinesTotal(lines)

	wctx, wcancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wcancel()

	if err := s.builds.UpdateFields(wctx, uid, build); err != nil {
		log.Error(ctx, "update build", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return build, nil
}
