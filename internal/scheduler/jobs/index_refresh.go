package jobs

import (
	"context"
	"time"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/metrics"
	"github.com/clinops/trialpulse/internal/realtime"
	"github.com/clinops/trialpulse/pkg/logger"
)

// IndexRefresher rereads the study index; *studyindex.Cache implements it
type IndexRefresher interface {
	Refresh(ctx context.Context) ([]contracts.Study, error)
}

// IndexRefreshJob periodically rereads the study index so new study
// folders show up without a restart
type IndexRefreshJob struct {
	index     IndexRefresher
	publisher realtime.Publisher
	metrics   *metrics.Metrics
	schedule  string
	logger    *logger.Logger
}

// NewIndexRefreshJob creates a new index refresh job
func NewIndexRefreshJob(index IndexRefresher, pub realtime.Publisher, m *metrics.Metrics, schedule string, log *logger.Logger) *IndexRefreshJob {
	return &IndexRefreshJob{
		index:     index,
		publisher: pub,
		metrics:   m,
		schedule:  schedule,
		logger:    log.Module("index_refresh"),
	}
}

// Name returns the job name
func (j *IndexRefreshJob) Name() string {
	return "index_refresh"
}

// Schedule returns the cron schedule
func (j *IndexRefreshJob) Schedule() string {
	return j.schedule
}

// Run rereads the index and announces the new study list
func (j *IndexRefreshJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled index refresh")

	studies, err := j.index.Refresh(ctx)
	j.metrics.ObserveIndexReload(err == nil)
	if err != nil {
		return err
	}

	if j.publisher != nil {
		j.publisher.Publish(realtime.Event{
			Type:      realtime.EventIndexReloaded,
			Timestamp: time.Now(),
			Payload:   studies,
		})
	}

	j.logger.WithField("studies", len(studies)).Info("Index refresh completed")
	return nil
}
