package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())
	assert.Empty(t, h.GetLatestResults(5))

	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: "job", Success: i%4 != 0, Attempts: i})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Equal(t, 20, h.Results[0].Attempts)

	latest := h.GetLatestResults(3)
	assert.Len(t, latest, 3)
	assert.Equal(t, historyLimit+19, latest[2].Attempts)

	assert.Len(t, h.GetFailedResults(), 25)
	assert.InDelta(t, 0.75, h.GetSuccessRate(), 1e-9)
}
