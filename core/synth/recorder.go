package synth

import (
	"context"
	"fmt"
	"sync"
)

// Recorder is an in-memory Synthesizer that records every request.
// FailFor makes calls for the listed quest ids fail.
type Recorder struct {
	mu       sync.Mutex
	requests []Request
	FailFor  map[int]error
	// Unconfigured makes IsConfigured report false.
	Unconfigured bool
	// OnCall runs before each synthesis, under no lock.
	OnCall func(req Request)
}

// NewRecorder creates a configured recorder.
func NewRecorder() *Recorder {
	return &Recorder{FailFor: make(map[int]error)}
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) IsConfigured() bool { return !r.Unconfigured }

func (r *Recorder) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.OnCall != nil {
		r.OnCall(req)
	}
	r.mu.Lock()
	r.requests = append(r.requests, req)
	failure := r.FailFor[req.QuestID]
	r.mu.Unlock()

	if failure != nil {
		return nil, failure
	}
	return &Audio{Data: []byte(fmt.Sprintf("%d:%s", req.QuestID, req.Variant)), Ext: "mp3"}, nil
}

// Requests returns a copy of the recorded requests.
func (r *Recorder) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.requests...)
}
