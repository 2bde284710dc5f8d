package realtime

import "time"

// Event types pushed to dashboard clients
const (
	EventStudyLoaded   = "study.loaded"
	EventStudyFailed   = "study.failed"
	EventIndexReloaded = "index.reloaded"
)

// Event is one websocket message
type Event struct {
	Type       string      `json:"type"`
	StudyID    string      `json:"studyId,omitempty"`
	Generation uint64      `json:"generation,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// Publisher receives events; the Hub is the production implementation
type Publisher interface {
	Publish(ev Event)
}
