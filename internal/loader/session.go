package loader

import (
	"context"
	"sync"
	"time"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/metrics"
	"github.com/clinops/trialpulse/internal/mockdata"
	"github.com/clinops/trialpulse/internal/realtime"
	"github.com/clinops/trialpulse/pkg/logger"
)

// StudyLoader loads a study's data
type StudyLoader interface {
	Load(ctx context.Context, studyID string) (*contracts.StudyData, error)
}

// studyReloader is implemented by loaders that can skip their cache
type studyReloader interface {
	Reload(ctx context.Context, studyID string) (*contracts.StudyData, error)
}

// Session holds the currently selected study.
//
// Every Select gets a new generation and cancels the load in flight. A load
// only installs its result while its generation is still the latest, so a
// slow earlier selection can never overwrite a later one.
type Session struct {
	loader    StudyLoader
	publisher realtime.Publisher
	metrics   *metrics.Metrics
	logger    *logger.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	studyID    string
	current    *contracts.StudyData
}

// NewSession starts on the demo dataset. publisher may be nil.
func NewSession(l StudyLoader, pub realtime.Publisher, m *metrics.Metrics, log *logger.Logger) *Session {
	return &Session{
		loader:    l,
		publisher: pub,
		metrics:   m,
		logger:    log.Module("session"),
		studyID:   mockdata.StudyID,
		current:   mockdata.Study(),
	}
}

// Select loads studyID and makes it current.
// It returns contracts.ErrSuperseded when a newer Select started meanwhile;
// on any error the previously installed data stays current.
func (s *Session) Select(ctx context.Context, studyID string) (*contracts.StudyData, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	log := s.logger.WithFields(map[string]interface{}{"study_id": studyID, "generation": gen})
	log.Debug("Study selected")

	data, err := s.loader.Load(loadCtx, studyID)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.metrics.ObserveLoad(metrics.LoadSuperseded, 0)
		log.Info("Study load superseded by a newer selection")
		return nil, contracts.ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		s.mu.Unlock()
		log.WithError(err).Warn("Study selection failed")
		s.publish(realtime.Event{Type: realtime.EventStudyFailed, StudyID: studyID, Generation: gen, Payload: err.Error()})
		return nil, err
	}

	if data.Report != nil {
		data.Report.Generation = gen
	}
	s.studyID = studyID
	s.current = data
	s.mu.Unlock()

	s.publish(realtime.Event{Type: realtime.EventStudyLoaded, StudyID: studyID, Generation: gen, Payload: data.Report})
	return data, nil
}

// Refresh reloads the installed study in place, bypassing the loader's
// cache when it has one. It never preempts a selection: it returns
// contracts.ErrSuperseded when one is in flight or completes meanwhile.
// The demo dataset has nothing to reload.
func (s *Session) Refresh(ctx context.Context) (*contracts.StudyData, error) {
	s.mu.Lock()
	studyID, gen, current := s.studyID, s.generation, s.current
	busy := s.cancel != nil
	s.mu.Unlock()

	if busy {
		return nil, contracts.ErrSuperseded
	}
	if studyID == mockdata.StudyID {
		return current, nil
	}

	log := s.logger.WithFields(map[string]interface{}{"study_id": studyID, "generation": gen})

	reload := s.loader.Load
	if r, ok := s.loader.(studyReloader); ok {
		reload = r.Reload
	}
	data, err := reload(ctx, studyID)
	if err != nil {
		log.WithError(err).Warn("Study refresh failed")
		return nil, err
	}

	s.mu.Lock()
	if gen != s.generation || s.cancel != nil || studyID != s.studyID {
		s.mu.Unlock()
		log.Debug("Study refresh superseded by a selection")
		return nil, contracts.ErrSuperseded
	}
	if data.Report != nil {
		data.Report.Generation = gen
	}
	s.current = data
	s.mu.Unlock()

	s.publish(realtime.Event{Type: realtime.EventStudyLoaded, StudyID: studyID, Generation: gen, Payload: data.Report})
	return data, nil
}

// Current returns the installed study id and data
func (s *Session) Current() (string, *contracts.StudyData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.studyID, s.current
}

// Generation returns the number of selections made so far
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Session) publish(ev realtime.Event) {
	if s.publisher == nil {
		return
	}
	ev.Timestamp = time.Now()
	s.publisher.Publish(ev)
}
