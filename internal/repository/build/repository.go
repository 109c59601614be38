package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pclogr/pclogr/internal/model"
	"github.com/pclogr/pclogr/internal/platform/logger"
)

type repository struct {
	coll *mongo.Collection
}

func NewBuildRepository(collection *mongo.Collection) *repository {
	return &repository{coll: collection}
}

func (r *repository) Create(ctx context.Context, uid model.UserID, b *model.Build) (string, error) {
	const op = "repository.build.Create"

	ent := EntityFromModel(uid, b)
	if ent.ID == "" {
		ent.ID = uuid.NewString()
	}
	now := time.Now()
	ent.CreatedAt = lo.ToPtr(now)
	ent.UpdatedAt = lo.ToPtr(now)

	if _, err := r.coll.InsertOne(ctx, ent); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return ent.ID, nil
}

func (r *repository) BuildByID(ctx context.Context, uid model.UserID, id string) (*model.Build, error) {
	const op = "repository.build.BuildByID"

	var ent BuildEntity
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "user_id": string(uid)}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrBuildNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return EntityToModel(&ent), nil
}

func (r *repository) ListByUser(ctx context.Context, uid model.UserID) ([]*model.Build, error) {
	const op = "repository.build.ListByUser"

	cur, err := r.coll.Find(ctx,
		bson.M{"user_id": string(uid)},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			logger.Warn(ctx, "build cursor close", logger.ErrorF(cerr))
		}
	}()

	out := make([]*model.Build, 0)
	for cur.Next(ctx) {
		var ent BuildEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, fmt.Errorf("%s decode: %w", op, err)
		}
		out = append(out, EntityToModel(&ent))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s cursor: %w", op, err)
	}

	return out, nil
}

// UpdateFields rewrites the mutable build fields: name, notes, lines
// and total travel together so the stored total always matches the
// stored lines. updated_at is always bumped.
func (r *repository) UpdateFields(ctx context.Context, uid model.UserID, b *model.Build) error {
	const op = "repository.build.UpdateFields"

	ent := EntityFromModel(uid, b)
	set := bson.M{
		"name":       ent.Name,
		"notes":      ent.Notes,
		"lines":      ent.Lines,
		"total":      ent.Total,
		"updated_at": time.Now(),
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": b.ID, "user_id": string(uid)},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return model.ErrBuildNotFound
	}

	return nil
}

// Watch mirrors the part repository's subscription: unfiltered change
// stream, full ordered re-read per event, callbacks on one goroutine.
func (r *repository) Watch(
	ctx context.Context,
	uid model.UserID,
	onChange func([]*model.Build),
	onError func(error),
) (func(), error) {
	const op = "repository.build.Watch"

	stream, err := r.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wctx, cancel := context.WithCancel(ctx)
	go func() {
		defer func() {
			if cerr := stream.Close(context.Background()); cerr != nil {
				logger.Warn(wctx, "build change stream close", logger.ErrorF(cerr))
			}
		}()

		if items, lerr := r.ListByUser(wctx, uid); lerr == nil {
			onChange(items)
		} else if wctx.Err() == nil {
			onError(lerr)
		}

		for stream.Next(wctx) {
			items, lerr := r.ListByUser(wctx, uid)
			if lerr != nil {
				if wctx.Err() == nil {
					onError(lerr)
				}
				continue
			}
			onChange(items)
		}
		if serr := stream.Err(); serr != nil && wctx.Err() == nil {
			onError(fmt.Errorf("%s: %w", op, serr))
		}
	}()

	return cancel, nil
}

func (r *repository) Delete(ctx context.Context, uid model.UserID, id string) error {
	const op = "repository.build.Delete"

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": string(uid)})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return model.ErrBuildNotFound
	}

	return nil
}
