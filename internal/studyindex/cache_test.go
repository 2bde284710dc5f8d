package studyindex

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/pkg/logger"
)

type stubReader struct {
	mu    sync.Mutex
	body  string
	err   error
	calls int
}

func (r *stubReader) ReadIndex(context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}

func (r *stubReader) set(body string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.body, r.err = body, err
}

const twoStudies = `[
  {"id": "study-1", "name": "STUDY 1", "folder": "Study 1", "files": ["Study 1_EDC_Metrics.xlsx"]},
  {"id": "study-2", "name": "STUDY 2", "folder": "Study 2", "files": []}
]`

func TestCache_LoadsOnce(t *testing.T) {
	reader := &stubReader{body: twoStudies}
	cache := New(reader, logger.Nop())
	ctx := context.Background()

	assert.Equal(t, uint64(0), cache.Version())

	studies := cache.Studies(ctx)
	require.Len(t, studies, 2)
	assert.Equal(t, "Study 1", studies[0].Folder)

	cache.Studies(ctx)
	cache.Studies(ctx)
	assert.Equal(t, 1, reader.calls)
	assert.Equal(t, uint64(1), cache.Version())
}

func TestCache_FailureNotCached(t *testing.T) {
	reader := &stubReader{err: errors.New("connection refused")}
	cache := New(reader, logger.Nop())
	ctx := context.Background()

	assert.Empty(t, cache.Studies(ctx))
	assert.Equal(t, uint64(0), cache.Version())

	reader.set(twoStudies, nil)
	assert.Len(t, cache.Studies(ctx), 2)
	assert.Equal(t, 2, reader.calls)
}

func TestCache_MalformedIndex(t *testing.T) {
	reader := &stubReader{body: `{"not": "a list"}`}
	cache := New(reader, logger.Nop())

	assert.Empty(t, cache.Studies(context.Background()))
	assert.Equal(t, uint64(0), cache.Version())
}

func TestCache_ReloadAndInvalidate(t *testing.T) {
	reader := &stubReader{body: twoStudies}
	cache := New(reader, logger.Nop())
	ctx := context.Background()

	var versions []uint64
	cache.OnReload(func(v uint64) { versions = append(versions, v) })

	require.Len(t, cache.Studies(ctx), 2)

	reader.set(`[{"id": "study-3", "name": "STUDY 3", "folder": "Study 3"}]`, nil)
	assert.Len(t, cache.Studies(ctx), 2, "still cached")

	cache.Invalidate()
	studies := cache.Studies(ctx)
	require.Len(t, studies, 1)
	assert.Equal(t, "study-3", studies[0].ID)

	cache.Reload(ctx)
	assert.Equal(t, uint64(3), cache.Version())
	assert.Equal(t, []uint64{1, 2, 3}, versions)
}

func TestCache_Lookup(t *testing.T) {
	cache := New(&stubReader{body: twoStudies}, logger.Nop())
	ctx := context.Background()

	study, err := cache.Lookup(ctx, "study-2")
	require.NoError(t, err)
	assert.Equal(t, "STUDY 2", study.Name)

	_, err = cache.Lookup(ctx, "study-99")
	assert.ErrorIs(t, err, contracts.ErrStudyNotFound)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := New(&stubReader{body: twoStudies}, logger.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				cache.Invalidate()
			}
			_, _ = cache.Lookup(ctx, "study-1")
		}(i)
	}
	wg.Wait()

	assert.Len(t, cache.Studies(ctx), 2)
}

func TestCache_RefreshKeepsIndexOnError(t *testing.T) {
	reader := &stubReader{body: twoStudies}
	cache := New(reader, logger.Nop())
	ctx := context.Background()

	_, err := cache.Refresh(ctx)
	require.NoError(t, err)

	reader.set("", errors.New("bucket unreachable"))
	_, err = cache.Refresh(ctx)
	require.Error(t, err)

	assert.Len(t, cache.Studies(ctx), 2)
	assert.Equal(t, uint64(1), cache.Version())
}

// gatedReader blocks every read until release is closed
type gatedReader struct {
	stubReader
	started chan struct{}
	release chan struct{}
	delay   time.Duration
}

func (r *gatedReader) ReadIndex(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	body := r.body
	r.mu.Unlock()

	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.release != nil {
		<-r.release
	}
	time.Sleep(r.delay)
	return []byte(body), nil
}

func TestCache_ConcurrentFirstReadsShareFetch(t *testing.T) {
	reader := &gatedReader{stubReader: stubReader{body: twoStudies}, delay: 20 * time.Millisecond}
	cache := New(reader, logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, cache.Studies(context.Background()), 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, reader.calls)
	assert.Equal(t, uint64(1), cache.Version())
}

func TestCache_InvalidateDuringFetch(t *testing.T) {
	reader := &gatedReader{
		stubReader: stubReader{body: twoStudies},
		started:    make(chan struct{}, 2),
		release:    make(chan struct{}),
	}
	cache := New(reader, logger.Nop())
	ctx := context.Background()

	done := make(chan []contracts.Study, 1)
	go func() { done <- cache.Studies(ctx) }()
	<-reader.started

	reader.set(`[]`, nil)
	cache.Invalidate()
	close(reader.release)

	assert.Len(t, <-done, 2, "the caller still gets what was fetched")
	assert.Equal(t, uint64(0), cache.Version())

	assert.Empty(t, cache.Studies(ctx))
	assert.Equal(t, 2, reader.calls)
	assert.Equal(t, uint64(1), cache.Version())
}
