package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/status-service/internal/core/domain/health"
	tmocks "github.com/avatarctic/status-service/test/mocks"
)

func reporting(overall health.OverallStatus, results ...health.ProbeResult) *tmocks.StatusServiceMock {
	return &tmocks.StatusServiceMock{ReportFn: func(ctx context.Context) *health.ServiceStatus {
		return &health.ServiceStatus{ID: uuid.New(), Overall: overall, Results: results, GeneratedAt: time.Now().UTC()}
	}}
}

func TestRunCheck_Table(t *testing.T) {
	svc := reporting(health.StatusDegraded,
		health.ProbeResult{Name: "primary-db", Required: true, Healthy: true, Latency: 3 * time.Millisecond},
		health.ProbeResult{Name: "cache", Required: false, Healthy: false, Latency: 100 * time.Millisecond, Detail: "timeout"},
	)

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), &out, svc, &checkOptions{}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, []string{"PROBE", "REQUIRED", "HEALTHY", "LATENCY", "DETAIL"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"primary-db", "true", "true", "3ms"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"cache", "false", "false", "100ms", "timeout"}, strings.Fields(lines[2]))
	assert.Equal(t, "OVERALL: DEGRADED", lines[len(lines)-1])
}

func TestRunCheck_ExitStatus(t *testing.T) {
	cases := []struct {
		overall health.OverallStatus
		strict  bool
		wantErr bool
	}{
		{health.StatusHealthy, false, false},
		{health.StatusHealthy, true, false},
		{health.StatusDegraded, false, false},
		{health.StatusDegraded, true, true},
		{health.StatusUnhealthy, false, true},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		err := runCheck(context.Background(), &out, reporting(tc.overall), &checkOptions{strict: tc.strict})
		if tc.wantErr {
			require.Error(t, err, "%s strict=%t", tc.overall, tc.strict)
			assert.Contains(t, err.Error(), string(tc.overall))
		} else {
			assert.NoError(t, err, "%s strict=%t", tc.overall, tc.strict)
		}
	}
}

func TestRunCheck_JSON(t *testing.T) {
	svc := reporting(health.StatusUnhealthy,
		health.ProbeResult{Name: "primary-db", Required: true, Healthy: false, Latency: 1500 * time.Microsecond, Detail: "connection failure: refused"},
	)

	var out bytes.Buffer
	err := runCheck(context.Background(), &out, svc, &checkOptions{jsonOutput: true})
	require.Error(t, err)

	var decoded struct {
		Overall string `json:"overall"`
		Results []struct {
			Name      string  `json:"name"`
			LatencyMs float64 `json:"latencyMs"`
			Detail    string  `json:"detail"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "UNHEALTHY", decoded.Overall)
	require.Len(t, decoded.Results, 1)
	assert.InDelta(t, 1.5, decoded.Results[0].LatencyMs, 1e-9)
	assert.Equal(t, "connection failure: refused", decoded.Results[0].Detail)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "statusctl dev\n", out.String())
}
