package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STATUS_PROBES_FILE", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Status.OverallDeadline)
	assert.Equal(t, 50*time.Millisecond, cfg.Status.GracePeriod)
	require.Len(t, cfg.Status.Probes, 2)
	assert.Equal(t, ProbeConfig{Name: "database", Kind: ProbeKindRelational, Required: true}, cfg.Status.Probes[0])
	assert.Equal(t, ProbeConfig{Name: "cache", Kind: ProbeKindCache, Required: false}, cfg.Status.Probes[1])
	assert.Contains(t, cfg.Database.DSN, "host=localhost port=5432")
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STATUS_PROBES_FILE", "")
	t.Setenv("STATUS_OVERALL_DEADLINE", "750ms")
	t.Setenv("STATUS_GRACE_PERIOD", "10ms")
	t.Setenv("STATUS_SLOW_THRESHOLD", "200ms")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:status.db")
	t.Setenv("DB_PROBE_NAME", "primary-db")
	t.Setenv("REDIS_PROBE_REQUIRED", "true")
	t.Setenv("REDIS_PROBE_TIMEOUT", "300ms")
	t.Setenv("REDIS_CLUSTER_ADDRS", "a:7000, b:7001,,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Status.OverallDeadline)
	assert.Equal(t, 10*time.Millisecond, cfg.Status.GracePeriod)
	assert.Equal(t, 200*time.Millisecond, cfg.Status.SlowThreshold)
	assert.Equal(t, "file:status.db", cfg.Database.DSN)
	assert.Equal(t, "primary-db", cfg.Status.Probes[0].Name)
	assert.True(t, cfg.Status.Probes[1].Required)
	assert.Equal(t, 300*time.Millisecond, cfg.Status.Probes[1].Timeout)
	assert.Equal(t, []string{"a:7000", "b:7001"}, cfg.Redis.ClusterAddrs)
}

func TestLoad_ProbesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
overallDeadlineMs: 1500
graceMs: 25
probes:
  - name: orders-db
    kind: relational
    timeoutMs: 800
  - name: session-cache
    kind: cache
  - name: rate-cache
    kind: cache
    required: true
`), 0o600))
	t.Setenv("STATUS_PROBES_FILE", path)
	t.Setenv("STATUS_OVERALL_DEADLINE", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.Status.OverallDeadline)
	assert.Equal(t, 25*time.Millisecond, cfg.Status.GracePeriod)
	assert.Equal(t, []ProbeConfig{
		{Name: "orders-db", Kind: ProbeKindRelational, Required: true, Timeout: 800 * time.Millisecond},
		{Name: "session-cache", Kind: ProbeKindCache, Required: false},
		{Name: "rate-cache", Kind: ProbeKindCache, Required: true},
	}, cfg.Status.Probes)
	assert.True(t, cfg.Status.NeedsKind(ProbeKindCache))
}

func TestLoad_MissingProbesFile(t *testing.T) {
	t.Setenv("STATUS_PROBES_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading probes file")
}

func TestApplyProbesYAML_KeepsDefaultsWhenEmpty(t *testing.T) {
	s := StatusConfig{OverallDeadline: time.Second, Probes: []ProbeConfig{{Name: "database", Kind: ProbeKindRelational}}}
	require.NoError(t, s.applyProbesYAML([]byte("graceMs: 0\n")))
	assert.Equal(t, time.Second, s.OverallDeadline)
	assert.Equal(t, time.Duration(0), s.GracePeriod)
	assert.Len(t, s.Probes, 1)

	err := s.applyProbesYAML([]byte("probes: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing probes file")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "mysql"},
		Status: StatusConfig{
			OverallDeadline: 0,
			GracePeriod:     -time.Millisecond,
			Probes: []ProbeConfig{
				{Name: "db", Kind: ProbeKindRelational},
				{Name: "db", Kind: ProbeKindCache},
				{Name: " ", Kind: "queue", Timeout: -time.Second},
			},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"overall deadline must be positive",
		"grace period must not be negative",
		`probe "db": duplicate name`,
		"probe[2]: name is required",
		`invalid kind "queue"`,
		"timeout must not be negative",
		`unsupported driver "mysql"`,
		"dsn is empty",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidate_CacheOnlySkipsDatabase(t *testing.T) {
	cfg := &Config{
		Status: StatusConfig{
			OverallDeadline: time.Second,
			Probes:          []ProbeConfig{{Name: "cache", Kind: ProbeKindCache}},
		},
	}
	assert.NoError(t, cfg.Validate())
}
