// Package loader turns a study id into normalized StudyData: index lookup,
// file role resolution, concurrent fetch and decode, normalization.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/decode"
	"github.com/clinops/trialpulse/internal/metrics"
	"github.com/clinops/trialpulse/internal/normalize"
	"github.com/clinops/trialpulse/internal/profile"
	"github.com/clinops/trialpulse/internal/resolve"
	"github.com/clinops/trialpulse/internal/snapshot"
	"github.com/clinops/trialpulse/internal/source"
	"github.com/clinops/trialpulse/internal/studyindex"
	"github.com/clinops/trialpulse/pkg/logger"
	"github.com/clinops/trialpulse/pkg/redis"
)

// SnapshotSaver persists load snapshots
type SnapshotSaver interface {
	Save(ctx context.Context, s snapshot.Snapshot) error
}

// Deps are the collaborators of a Loader. Profile, Cache, Snapshots and
// Metrics are optional.
type Deps struct {
	Index     *studyindex.Cache
	Source    source.Source
	Decoders  *decode.Registry
	Resolver  *resolve.Resolver
	Profile   *profile.Profile
	Cache     *redis.Cache
	Snapshots SnapshotSaver
	Metrics   *metrics.Metrics
}

// Loader loads one study at a time per call; it is safe for concurrent use
type Loader struct {
	deps   Deps
	logger *logger.Logger
}

// New creates a Loader
func New(deps Deps, log *logger.Logger) *Loader {
	if deps.Decoders == nil {
		deps.Decoders = decode.NewRegistry()
	}
	if deps.Resolver == nil {
		deps.Resolver = resolve.New(nil)
	}
	return &Loader{deps: deps, logger: log.Module("loader")}
}

// fileResult is what fetching one resolved role produced
type fileResult struct {
	rows []normalize.Row
	err  error
}

// Load builds the StudyData of studyID.
// Unknown ids fail with contracts.ErrStudyNotFound. Missing, ambiguous or
// unreadable files leave their record family empty and are described in the
// load report; only context cancellation aborts the load.
func (l *Loader) Load(ctx context.Context, studyID string) (*contracts.StudyData, error) {
	return l.load(ctx, studyID, true)
}

// Reload is Load without the cache read: the study files are always fetched
// again and the fresh result replaces the cached one.
func (l *Loader) Reload(ctx context.Context, studyID string) (*contracts.StudyData, error) {
	return l.load(ctx, studyID, false)
}

func (l *Loader) load(ctx context.Context, studyID string, useCache bool) (*contracts.StudyData, error) {
	started := time.Now()

	study, err := l.deps.Index.Lookup(ctx, studyID)
	if err != nil {
		l.deps.Metrics.ObserveLoad(metrics.LoadNotFound, 0)
		return nil, err
	}

	log := l.logger.WithField("study_id", study.ID)

	cacheKey := redis.StudyDataKey(study.ID, l.deps.Index.Version())
	if hash := l.deps.Profile.Hash(); hash != "" {
		cacheKey += ":p" + hash[:12]
	}
	if useCache {
		if data, ok := l.cached(ctx, cacheKey, log); ok {
			l.deps.Metrics.ObserveLoad(metrics.LoadCached, time.Since(started))
			return data, nil
		}
	}

	resolutions := l.deps.Profile.ResolverFor(study.ID, l.deps.Resolver).ResolveAll(study.Files)
	results := make([]fileResult, len(resolutions))

	g, gctx := errgroup.WithContext(ctx)
	for i, res := range resolutions {
		l.deps.Metrics.ObserveResolution(string(res.Role), string(res.Outcome))
		if res.Outcome != contracts.OutcomeResolved {
			continue
		}

		g.Go(func() error {
			rows, err := l.readFile(gctx, study.Folder, res.File)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = fileResult{rows: rows, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.deps.Metrics.ObserveLoad(metrics.LoadError, time.Since(started))
		return nil, fmt.Errorf("load %s: %w", study.ID, err)
	}

	n := normalize.New(study.ID)
	data := &contracts.StudyData{
		Sites:            []contracts.Site{},
		Subjects:         []contracts.Subject{},
		Queries:          []contracts.Query{},
		SAERecords:       []contracts.SAERecord{},
		VisitProjections: []contracts.VisitProjection{},
	}
	report := &contracts.LoadReport{
		ID:          uuid.NewString(),
		StudyID:     study.ID,
		StudyName:   study.Name,
		Seed:        n.Seed(),
		StartedAt:   started,
		ProfileHash: l.deps.Profile.Hash(),
		Files:       make([]contracts.FileReport, 0, len(resolutions)),
	}

	for i, res := range resolutions {
		fr := contracts.FileReport{
			Role:       res.Role,
			Outcome:    res.Outcome,
			File:       res.File,
			Candidates: res.Candidates,
			Override:   res.Override,
		}

		switch res.Outcome {
		case contracts.OutcomeResolved:
			if results[i].err != nil {
				fr.Error = results[i].err.Error()
				log.WithError(results[i].err).WithField("file", res.File).Warn("Study file unreadable, loading no records")
			}
			fr.Rows = n.Apply(res.Role, results[i].rows, data)
			l.deps.Metrics.AddRows(string(res.Role), fr.Rows)
		case contracts.OutcomeAmbiguous:
			log.WithFields(map[string]interface{}{
				"role":       res.Role,
				"candidates": res.Candidates,
			}).Warn("Several files match role, loading no records")
		default:
			log.WithField("role", res.Role).Debug("No file for role")
		}

		report.Files = append(report.Files, fr)
	}

	report.Duration = time.Since(started)
	data.Report = report

	l.deps.Metrics.ObserveLoad(metrics.LoadOK, report.Duration)
	log.WithFields(map[string]interface{}{
		"load_id":  report.ID,
		"sites":    len(data.Sites),
		"subjects": len(data.Subjects),
		"queries":  len(data.Queries),
		"saes":     len(data.SAERecords),
		"visits":   len(data.VisitProjections),
		"duration": report.Duration,
	}).Info("Study loaded")

	l.store(ctx, cacheKey, data, log)
	return data, nil
}

// readFile fetches and decodes one file
func (l *Loader) readFile(ctx context.Context, folder, file string) ([]normalize.Row, error) {
	raw, err := l.deps.Source.Open(ctx, folder, file)
	if err != nil {
		return nil, err
	}
	return l.deps.Decoders.Decode(file, raw)
}

func (l *Loader) cached(ctx context.Context, key string, log *logger.Logger) (*contracts.StudyData, bool) {
	if l.deps.Cache == nil {
		return nil, false
	}

	var data contracts.StudyData
	ok, err := l.deps.Cache.Get(ctx, key, &data)
	if err != nil {
		log.WithError(err).Warn("Study cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	if data.Report != nil {
		data.Report.Cached = true
	}
	log.Debug("Study served from cache")
	return &data, true
}

// store writes the result to the cache and the snapshot history.
// Both are best effort.
func (l *Loader) store(ctx context.Context, key string, data *contracts.StudyData, log *logger.Logger) {
	if l.deps.Cache != nil {
		if err := l.deps.Cache.Set(ctx, key, data); err != nil {
			log.WithError(err).Warn("Study cache write failed")
		}
	}

	if l.deps.Snapshots != nil {
		if err := l.deps.Snapshots.Save(ctx, snapshot.FromLoad(data)); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Warn("Failed to save load snapshot")
		}
	}
}
