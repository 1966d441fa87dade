package metric

import (
	"sync"
	"time"
)

// Attempt represents one strategy attempt metrics
type Attempt struct {
	Strategy  string
	Kind      string `json:",omitempty"`
	Retryable bool   `json:",omitempty"`
	ElapsedMs int
	Elapsed   string
	started   time.Time
}

// NewAttempt returns attempt started now
func NewAttempt(strategy string) *Attempt {
	return &Attempt{Strategy: strategy, started: time.Now()}
}

// Started returns attempt start time
func (a *Attempt) Started() time.Time {
	return a.started
}

// Done sets elapsed time
func (a *Attempt) Done(end time.Time) {
	elapsed := end.Sub(a.started)
	a.ElapsedMs = int(elapsed.Milliseconds())
	a.Elapsed = elapsed.String()
}

// Metrics represents invocation metrics
type Metrics struct {
	Attempts []*Attempt `json:",omitempty"`
	mux      *sync.Mutex
}

// AddAttempt adds attempt
func (m *Metrics) AddAttempt(attempt *Attempt) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.Attempts = append(m.Attempts, attempt)
}

func (m *Metrics) Clone() *Metrics {
	m.mux.Lock()
	defer m.mux.Unlock()
	var result = &Metrics{
		Attempts: make([]*Attempt, 0, len(m.Attempts)),
		mux:      &sync.Mutex{},
	}
	for i := range m.Attempts {
		attempt := *m.Attempts[i]
		result.Attempts = append(result.Attempts, &attempt)
	}
	return result
}

// NewMetrics creates a metrics
func NewMetrics() *Metrics {
	return &Metrics{
		mux: &sync.Mutex{},
	}
}
