package health

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OverallStatus string

const (
	StatusHealthy   OverallStatus = "HEALTHY"
	StatusDegraded  OverallStatus = "DEGRADED"
	StatusUnhealthy OverallStatus = "UNHEALTHY"
)

// ProbeResult is the normalized outcome of one dependency check.
type ProbeResult struct {
	Name      string        `json:"name"`
	Required  bool          `json:"required"`
	Healthy   bool          `json:"healthy"`
	Latency   time.Duration `json:"-"`
	Detail    string        `json:"detail,omitempty"`
	Slow      bool          `json:"slow,omitempty"`
	CheckedAt time.Time     `json:"checkedAt"`
}

// MarshalJSON renders Latency as fractional milliseconds.
func (r ProbeResult) MarshalJSON() ([]byte, error) {
	type alias ProbeResult
	return json.Marshal(struct {
		alias
		LatencyMs float64 `json:"latencyMs"`
	}{
		alias:     alias(r),
		LatencyMs: float64(r.Latency) / float64(time.Millisecond),
	})
}

// ServiceStatus is the reduction of all probe results for one invocation.
type ServiceStatus struct {
	ID          uuid.UUID     `json:"id"`
	Overall     OverallStatus `json:"overall"`
	Results     []ProbeResult `json:"results"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Passed builds a healthy result for a check that started at start.
func Passed(start time.Time) ProbeResult {
	now := time.Now()
	return ProbeResult{Healthy: true, Latency: now.Sub(start), CheckedAt: now.UTC()}
}

// Failed folds err into an unhealthy result. Timeouts and cancellation are
// reported with the bare "timeout" and "cancelled" details.
func Failed(start time.Time, err error) ProbeResult {
	now := time.Now()
	return ProbeResult{Healthy: false, Latency: now.Sub(start), Detail: Detail(err), CheckedAt: now.UTC()}
}

// Reduce computes the overall verdict. Results must carry their Required flag.
func Reduce(results []ProbeResult) OverallStatus {
	overall := StatusHealthy
	for _, r := range results {
		if !r.Healthy {
			if r.Required {
				return StatusUnhealthy
			}
			overall = StatusDegraded
			continue
		}
		if r.Slow && !r.Required {
			overall = StatusDegraded
		}
	}
	return overall
}
