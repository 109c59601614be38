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

func NewPartRepository(collection *mongo.Collection) *repository {
	return &repository{coll: collection}
}

func (r *repository) Create(ctx context.Context, uid model.UserID, p *model.Part) (string, error) {
	const op = "repository.part.Create"

	ent := EntityFromModel(uid, p)
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

func (r *repository) CreateBatch(ctx context.Context, uid model.UserID, parts []*model.Part) error {
	const op = "repository.part.CreateBatch"

	now := time.Now()
	docs := make([]any, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		ent := EntityFromModel(uid, p)
		if ent.ID == "" {
			ent.ID = uuid.NewString()
		}
		ent.CreatedAt = lo.ToPtr(now)
		ent.UpdatedAt = lo.ToPtr(now)
		docs = append(docs, ent)
	}
	if len(docs) == 0 {
		return nil
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) PartByID(ctx context.Context, uid model.UserID, id string) (*model.Part, error) {
	const op = "repository.part.PartByID"

	var ent PartEntity
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "user_id": string(uid)}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrPartNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return EntityToModel(uid, &ent), nil
}

// ListByUser returns every part for the identity, newest first: the
// store's default ordering key is the creation timestamp, descending.
func (r *repository) ListByUser(ctx context.Context, uid model.UserID) ([]*model.Part, error) {
	const op = "repository.part.ListByUser"

	cur, err := r.coll.Find(ctx,
		bson.M{"user_id": string(uid)},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			logger.Warn(ctx, "part cursor close", logger.ErrorF(cerr))
		}
	}()

	out := make([]*model.Part, 0)
	for cur.Next(ctx) {
		var ent PartEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, fmt.Errorf("%s decode: %w", op, err)
		}
		out = append(out, EntityToModel(uid, &ent))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s cursor: %w", op, err)
	}

	return out, nil
}

// UpdateFields applies a partial update. updated_at is always bumped.
func (r *repository) UpdateFields(ctx context.Context, uid model.UserID, id string, upd model.PartUpdate) error {
	const op = "repository.part.UpdateFields"

	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.UnitPrice != nil {
		set["unit_price"] = upd.UnitPrice.String()
	}
	if upd.Quantity != nil {
		set["quantity"] = *upd.Quantity
	}
	if upd.Vendor != nil {
		set["vendor"] = *upd.Vendor
	}
	if upd.PurchaseDate != nil {
		set["purchase_date"] = *upd.PurchaseDate
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": string(uid)},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return model.ErrPartNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, uid model.UserID, id string) error {
	const op = "repository.part.Delete"

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": string(uid)})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return model.ErrPartNotFound
	}

	return nil
}

// Watch opens a change stream and delivers a fresh ordered snapshot to
// onChange after every collection event. Delete events carry no full
// document, so the stream is unfiltered and each event triggers a
// re-read scoped to the identity. Callbacks run on one goroutine.
func (r *repository) Watch(
	ctx context.Context,
	uid model.UserID,
	onChange func([]*model.Part),
	onError func(error),
) (func(), error) {
	const op = "repository.part.Watch"

	stream, err := r.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wctx, cancel := context.WithCancel(ctx)
	go func() {
		defer func() {
			if cerr := stream.Close(context.Background()); cerr != nil {
				logger.Warn(wctx, "part change stream close", logger.ErrorF(cerr))
			}
		}()

		// Initial snapshot, mirroring a subscription's first delivery.
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
