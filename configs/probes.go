package configs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// probesFile is the on-disk layout of STATUS_PROBES_FILE.
//
//	overallDeadlineMs: 2000
//	graceMs: 50
//	slowThresholdMs: 500
//	probes:
//	  - name: database
//	    kind: relational
//	    required: true
//	    timeoutMs: 1000
//	  - name: cache
//	    kind: cache
type probesFile struct {
	OverallDeadlineMs *int64       `yaml:"overallDeadlineMs"`
	GraceMs           *int64       `yaml:"graceMs"`
	SlowThresholdMs   *int64       `yaml:"slowThresholdMs"`
	Probes            []probeEntry `yaml:"probes"`
}

type probeEntry struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Required  *bool  `yaml:"required"`
	TimeoutMs int64  `yaml:"timeoutMs"`
}

// applyProbesFile overlays the YAML file at path onto s. Fields absent from the
// file keep their environment values; a non-empty probe list replaces the defaults.
func (s *StatusConfig) applyProbesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading probes file: %w", err)
	}
	return s.applyProbesYAML(data)
}

func (s *StatusConfig) applyProbesYAML(data []byte) error {
	var raw probesFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing probes file: %w", err)
	}

	if raw.OverallDeadlineMs != nil {
		s.OverallDeadline = millis(*raw.OverallDeadlineMs)
	}
	if raw.GraceMs != nil {
		s.GracePeriod = millis(*raw.GraceMs)
	}
	if raw.SlowThresholdMs != nil {
		s.SlowThreshold = millis(*raw.SlowThresholdMs)
	}

	if len(raw.Probes) == 0 {
		return nil
	}
	probes := make([]ProbeConfig, 0, len(raw.Probes))
	for _, p := range raw.Probes {
		pc := ProbeConfig{
			Name:    p.Name,
			Kind:    p.Kind,
			Timeout: millis(p.TimeoutMs),
		}
		// relational stores default to required, everything else to optional
		if p.Required != nil {
			pc.Required = *p.Required
		} else {
			pc.Required = p.Kind == ProbeKindRelational
		}
		probes = append(probes, pc)
	}
	s.Probes = probes
	return nil
}

func millis(ms int64) time.Duration { return time.Duration(ms) * time.Millisecond }
