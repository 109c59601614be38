package app

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/pclogr/pclogr/internal/config"
	"github.com/pclogr/pclogr/internal/identity"
	"github.com/pclogr/pclogr/internal/localstore"
	"github.com/pclogr/pclogr/internal/model"
	buildrepo "github.com/pclogr/pclogr/internal/repository/build"
	partrepo "github.com/pclogr/pclogr/internal/repository/part"
	allocsvc "github.com/pclogr/pclogr/internal/service/allocation"
	partsvc "github.com/pclogr/pclogr/internal/service/part"
	reconcilesvc "github.com/pclogr/pclogr/internal/service/reconcile"
	syncsvc "github.com/pclogr/pclogr/internal/service/sync"
	"github.com/pclogr/pclogr/internal/platform/closer"
)

type PartRepository interface {
	allocsvc.PartRepository
	syncsvc.PartRepository
	partsvc.PartRepository
	PartByID(ctx context.Context, uid model.UserID, id string) (*model.Part, error)
	Watch(ctx context.Context, uid model.UserID, onChange func([]*model.Part), onError func(error)) (func(), error)
}

type BuildRepository interface {
	reconcilesvc.BuildRepository
	allocsvc.BuildRepository
	ListByUser(ctx context.Context, uid model.UserID) ([]*model.Build, error)
	Watch(ctx context.Context, uid model.UserID, onChange func([]*model.Build), onError func(error)) (func(), error)
}

type PartService interface {
	Add(ctx context.Context, uid model.UserID, in partsvc.PartInput) (*model.Part, error)
	Update(ctx context.Context, uid model.UserID, id string, upd model.PartUpdate) error
	Delete(ctx context.Context, uid model.UserID, id string) error
	List(ctx context.Context, uid model.UserID, f model.ListFilter) ([]*model.Part, error)
}

type AllocationService interface {
	Commit(ctx context.Context, uid model.UserID, sel *allocsvc.Selection, name, notes string) (*model.Build, error)
}

type ReconcileService interface {
	Delete(ctx context.Context, uid model.UserID, buildID string, returnToInventory bool) error
	Edit(ctx context.Context, uid model.UserID, buildID, name, notes string, newLines []model.BuildLine) (*model.Build, error)
}

type SyncService interface {
	Merge(ctx context.Context, uid model.UserID) error
	SaveWithFallback(ctx context.Context, uid model.UserID, p *model.Part) (*model.Part, error)
	Run(ctx context.Context) error
}

type di struct {
	mongo      *mongo.Client
	partsColl  *mongo.Collection
	buildsColl *mongo.Collection

	buffer   *localstore.Store
	notifier *identity.Notifier

	partRepository  PartRepository
	buildRepository BuildRepository

	partService       PartService
	allocationService AllocationService
	reconcileService  ReconcileService
	syncService       SyncService
}

func NewDI() *di { return &di{} }

func (d *di) MongoDB(ctx context.Context) *mongo.Client {
	if d.mongo == nil {
		cfg := config.C()

		mongoClient, err := mongo.Connect(
			options.Client().ApplyURI(cfg.Mongo.DSN()),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create mongodb client: %v\n", err))
		}
		closer.AddNamed("Mongo Client",
			func(ctx context.Context) error {
				return mongoClient.Disconnect(ctx)
			})

		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			panic(fmt.Sprintf("failed to ping database: %v\n", err))
		}

		d.mongo = mongoClient
	}

	return d.mongo
}

func (d *di) PartsCollection(ctx context.Context) *mongo.Collection {
	if d.partsColl == nil {
		d.partsColl = d.MongoDB(ctx).
			Database(config.C().Mongo.DatabaseName()).
			Collection(config.C().Mongo.PartsCollection())

		if err := ensurePartIndexes(ctx, d.partsColl); err != nil {
			panic(fmt.Sprintf("failed to ensure part indexes: %v\n", err))
		}
	}

	return d.partsColl
}

func (d *di) BuildsCollection(ctx context.Context) *mongo.Collection {
	if d.buildsColl == nil {
		d.buildsColl = d.MongoDB(ctx).
			Database(config.C().Mongo.DatabaseName()).
			Collection(config.C().Mongo.BuildsCollection())

		if err := ensureBuildIndexes(ctx, d.buildsColl); err != nil {
			panic(fmt.Sprintf("failed to ensure build indexes: %v\n", err))
		}
	}

	return d.buildsColl
}

func (d *di) LocalBuffer(_ context.Context) *localstore.Store {
	if d.buffer == nil {
		store, err := localstore.Open(config.C().App.LocalBufferPath())
		if err != nil {
			panic(fmt.Sprintf("failed to open local buffer: %v\n", err))
		}
		closer.AddNamed("Local Buffer",
			func(ctx context.Context) error {
				return store.Close()
			})
		d.buffer = store
	}

	return d.buffer
}

func (d *di) IdentityProvider(_ context.Context) *identity.Notifier {
	if d.notifier == nil {
		d.notifier = identity.NewNotifier()
	}

	return d.notifier
}

func (d *di) PartRepository(ctx context.Context) PartRepository {
	if d.partRepository == nil {
		d.partRepository = partrepo.NewPartRepository(d.PartsCollection(ctx))
	}

	return d.partRepository
}

func (d *di) BuildRepository(ctx context.Context) BuildRepository {
	if d.buildRepository == nil {
		d.buildRepository = buildrepo.NewBuildRepository(d.BuildsCollection(ctx))
	}

	return d.buildRepository
}

func (d *di) SyncService(ctx context.Context) SyncService {
	if d.syncService == nil {
		cfg := config.C()
		d.syncService = syncsvc.NewSyncService(
			d.LocalBuffer(ctx),
			d.PartRepository(ctx),
			d.IdentityProvider(ctx),
			cfg.App.DBReadTimeout(),
			cfg.App.DBWriteTimeout(),
		)
	}

	return d.syncService
}

func (d *di) PartService(ctx context.Context) PartService {
	if d.partService == nil {
		d.partService = partsvc.NewPartService(
			d.PartRepository(ctx),
			d.SyncService(ctx),
			config.C().App.DBReadTimeout(),
		)
	}

	return d.partService
}

func (d *di) AllocationService(ctx context.Context) AllocationService {
	if d.allocationService == nil {
		cfg := config.C()
		d.allocationService = allocsvc.NewAllocationService(
			d.PartRepository(ctx),
			d.BuildRepository(ctx),
			cfg.App.DBReadTimeout(),
			cfg.App.DBWriteTimeout(),
			cfg.App.BuildCreateTimeout(),
		)
	}

	return d.allocationService
}

func (d *di) ReconcileService(ctx context.Context) ReconcileService {
	if d.reconcileService == nil {
		cfg := config.C()
		d.reconcileService = reconcilesvc.NewReconcileService(
			d.PartRepository(ctx),
			d.BuildRepository(ctx),
			cfg.App.DBReadTimeout(),
			cfg.App.DBWriteTimeout(),
		)
	}

	return d.reconcileService
}

func ensurePartIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "uuid", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "linked_build_id", Value: 1}}},
	}, options.CreateIndexes())

	return err
}

func ensureBuildIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}, options.CreateIndexes())

	return err
}
