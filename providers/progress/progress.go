// Package progress delivers per-agent status lines such as "Error - retry 1/3"
// to whoever is watching a run.
package progress

import (
	"sync"

	"go.uber.org/zap"
)

// Sink receives status updates keyed by agent label.
type Sink interface {
	Update(agent, status string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(agent, status string)

// Update calls f.
func (f SinkFunc) Update(agent, status string) { f(agent, status) }

// Nop discards updates.
var Nop Sink = SinkFunc(func(string, string) {})

// Update is one recorded status line.
type Update struct {
	Agent  string
	Status string
}

// Recorder keeps every update in order. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	updates []Update
}

func (r *Recorder) Update(agent, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, Update{Agent: agent, Status: status})
}

// Updates returns a copy of the recorded updates.
func (r *Recorder) Updates() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Update(nil), r.updates...)
}

// Statuses returns the recorded statuses for agent.
func (r *Recorder) Statuses(agent string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, u := range r.updates {
		if u.Agent == agent {
			out = append(out, u.Status)
		}
	}
	return out
}

// NewLogSink writes updates to logger at info level.
func NewLogSink(logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "progress"))
	return SinkFunc(func(agent, status string) {
		logger.Info("agent status", zap.String("agent", agent), zap.String("status", status))
	})
}

// Multi fans updates out to every sink.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(agent, status string) {
		for _, s := range sinks {
			if s != nil {
				s.Update(agent, status)
			}
		}
	})
}
