package metric

import (
	"strings"
	"time"

	"github.com/viant/gmetric"
	"github.com/viant/gmetric/provider"
)

const location = "github.com/viant/invoke/chain"

// Service exposes per strategy operation counters
type Service struct {
	metrics *gmetric.Service
}

// New creates a metric service, nil metrics produce nop counters
func New(metrics *gmetric.Service) *Service {
	return &Service{metrics: metrics}
}

// Metrics returns underlying gmetric service
func (s *Service) Metrics() *gmetric.Service {
	if s == nil {
		return nil
	}
	return s.metrics
}

// Recorder returns attempt recorder for a strategy, counters are registered once per strategy
func (s *Service) Recorder(strategy string) *Recorder {
	ret := &Recorder{strategy: strategy}
	if s == nil || s.metrics == nil {
		return ret
	}
	name := "invoke." + strings.ReplaceAll(strategy, "/", ".")
	if cnt := s.metrics.LookupOperation(name); cnt != nil {
		ret.counter = cnt
		return ret
	}
	ret.counter = s.metrics.MultiOperationCounter(location, name, strategy+" invocation performance", time.Millisecond, time.Minute, 2, provider.NewBasic())
	return ret
}
