package commands

import (
	"context"
	"errors"

	"github.com/clinops/trialpulse/internal/loader"
	"github.com/clinops/trialpulse/internal/metrics"
	"github.com/clinops/trialpulse/internal/profile"
	"github.com/clinops/trialpulse/internal/realtime"
	"github.com/clinops/trialpulse/internal/resolve"
	"github.com/clinops/trialpulse/internal/scheduler"
	"github.com/clinops/trialpulse/internal/scheduler/jobs"
	"github.com/clinops/trialpulse/internal/snapshot"
	"github.com/clinops/trialpulse/internal/source"
	"github.com/clinops/trialpulse/internal/studyindex"
	"github.com/clinops/trialpulse/internal/watch"
	"github.com/clinops/trialpulse/pkg/config"
	"github.com/clinops/trialpulse/pkg/database"
	"github.com/clinops/trialpulse/pkg/logger"
	"github.com/clinops/trialpulse/pkg/redis"
)

const cachePrefix = "trialpulse"

// app is the wired dependency graph shared by the commands
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	metrics   *metrics.Metrics
	source    source.Source
	index     *studyindex.Cache
	loader    *loader.Loader
	snapshots *snapshot.Repository

	closers []func()
}

// newApp connects the dataset source and the optional redis cache and
// snapshot database. Optional backends that fail to connect are logged
// and skipped.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}
	if cfg.MetricsEnabled {
		a.metrics = metrics.New()
	}

	src, err := source.New(ctx, cfg.Dataset, log)
	if err != nil {
		return nil, err
	}
	a.source = src
	a.index = studyindex.New(src, log)

	var prof *profile.Profile
	if cfg.Dataset.Profile != "" {
		prof, err = profile.Load(cfg.Dataset.Profile)
		if err != nil {
			return nil, err
		}
		log.WithFields(map[string]interface{}{
			"profile": cfg.Dataset.Profile,
			"hash":    prof.Hash(),
		}).Info("Dataset profile loaded")
	}

	deps := loader.Deps{
		Index:    a.index,
		Source:   src,
		Resolver: resolve.New(cfg.Dataset.Overrides),
		Profile:  prof,
		Metrics:  a.metrics,
	}

	if cfg.Redis.Enabled {
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, study cache disabled")
		} else {
			a.closers = append(a.closers, func() { _ = client.Close() })
			deps.Cache = redis.NewCache(client, cachePrefix, cfg.Redis.TTL)
			log.Info("Connected to Redis")
		}
	}

	db, err := database.New(ctx, cfg.Database)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		log.Debug("No database configured, snapshot history disabled")
	case err != nil:
		log.WithError(err).Warn("Database unavailable, snapshot history disabled")
	default:
		a.closers = append(a.closers, db.Close)
		repo := snapshot.NewRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.WithError(err).Warn("Snapshot schema unavailable, snapshot history disabled")
			break
		}
		a.snapshots = repo
		deps.Snapshots = repo
		log.Info("Connected to database")
	}

	a.loader = loader.New(deps, log)
	return a, nil
}

// startWatcher invalidates the study index when a local dataset changes
func (a *app) startWatcher(ctx context.Context) {
	if !a.cfg.Dataset.Watch || a.cfg.Dataset.Driver != "fs" {
		return
	}

	w, err := watch.New(a.cfg.Dataset.Root, a.log)
	if err != nil {
		a.log.WithError(err).Warn("Dataset watcher disabled")
		return
	}
	w.OnChange(a.index.Invalidate)
	a.closers = append(a.closers, func() { _ = w.Close() })

	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.WithError(err).Warn("Dataset watcher stopped")
		}
	}()
}

// newScheduler registers the background jobs. session may be nil when no
// dashboard is served from this process.
func (a *app) newScheduler(session jobs.SessionRefresher, pub realtime.Publisher) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	if a.cfg.Scheduler.IndexRefresh != "" {
		job := jobs.NewIndexRefreshJob(a.index, pub, a.metrics, a.cfg.Scheduler.IndexRefresh, a.log)
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}

	if session != nil && a.cfg.Scheduler.SessionRefresh != "" {
		job := jobs.NewSessionRefreshJob(session, a.cfg.Scheduler.SessionRefresh, a.log)
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

// Close releases connections in reverse order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
