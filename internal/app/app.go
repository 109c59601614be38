package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pclogr/pclogr/internal/config"
	"github.com/pclogr/pclogr/internal/model"
	"github.com/pclogr/pclogr/internal/platform/closer"
	"github.com/pclogr/pclogr/internal/platform/logger"
)

type app struct {
	di *di
}

func New(ctx context.Context) (*app, error) {
	a := &app{}

	if err := a.init(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) Run(ctx context.Context) error { return a.run(ctx) }

func (a *app) init(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initLogger,
		a.initCloser,
		a.initDI,
	}

	for _, initFn := range inits {
		if err := initFn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) initConfig(_ context.Context) error {
	return config.Load()
}

func (a *app) initLogger(_ context.Context) error {
	return logger.Init(
		config.C().Logger.Level(),
		config.C().Logger.AsJSON(),
	)
}

func (a *app) initCloser(_ context.Context) error {
	closer.SetLogger(logger.L())
	return nil
}

func (a *app) initDI(_ context.Context) error {
	a.di = NewDI()
	return nil
}

// run keeps the sync engine watching for identity establishment and,
// once an identity is configured, holds live subscriptions on both
// collections so every store change lands in the log in creation
// order. That is the same seam a UI would re-render from.
func (a *app) run(ctx context.Context) error {
	defer a.gracefulShutdown()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info(egCtx, "🚀 sync engine watching for identity")
		return a.di.SyncService(egCtx).Run(egCtx)
	})

	if uid := model.UserID(config.C().App.UserID()); uid.Active() {
		eg.Go(func() error {
			return a.watch(egCtx, uid)
		})

		// Establishing the configured identity triggers the merge.
		a.di.IdentityProvider(egCtx).Set(uid)
	}

	return eg.Wait()
}

func (a *app) watch(ctx context.Context, uid model.UserID) error {
	stopParts, err := a.di.PartRepository(ctx).Watch(ctx, uid,
		func(parts []*model.Part) {
			logger.Info(ctx, "parts snapshot",
				logger.String("user_id", string(uid)),
				logger.Int("count", len(parts)),
			)
		},
		func(err error) {
			logger.Error(ctx, "parts subscription", logger.ErrorF(err))
		},
	)
	if err != nil {
		return err
	}
	defer stopParts()

	stopBuilds, err := a.di.BuildRepository(ctx).Watch(ctx, uid,
		func(builds []*model.Build) {
			logger.Info(ctx, "builds snapshot",
				logger.String("user_id", string(uid)),
				logger.Int("count", len(builds)),
			)
		},
		func(err error) {
			logger.Error(ctx, "builds subscription", logger.ErrorF(err))
		},
	)
	if err != nil {
		return err
	}
	defer stopBuilds()

	<-ctx.Done()
	return nil
}

func (a *app) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closer.CloseAll(ctx)
	logger.Info(ctx, "✅ Shutdown complete")
	logger.Sync()
}
