package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"dataquality/domain/issue"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dq.yaml")
	content := `
engine:
  missing_critical_threshold: 75
  sample_seed: 7
store:
  driver: postgres
  dsn: postgres://localhost/dq
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 75.0, cfg.Engine.MissingCritical)
	require.Equal(t, int64(7), cfg.Engine.SampleSeed)
	require.Equal(t, "postgres", cfg.Store.Driver)
	require.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	require.Equal(t, 0.05, cfg.Engine.CardinalityThreshold)
	require.Equal(t, "text", cfg.Report.Format)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  sample_seed: 7\n"), 0o644))
	t.Setenv("DQ_ENGINE_SAMPLE_SEED", "99")
	t.Setenv("DQ_LOGGING_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(99), cfg.Engine.SampleSeed)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"cardinality out of range", "engine:\n  cardinality_threshold: 1.5\n"},
		{"critical below warning", "engine:\n  missing_warning_threshold: 60\n  missing_critical_threshold: 10\n"},
		{"unknown report format", "report:\n  format: pdf\n"},
		{"unknown store driver", "store:\n  driver: mysql\n"},
		{"bad severity override", "engine:\n  severities:\n    numeric_outliers: fatal\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dq.yaml")
			require.NoError(t, os.WriteFile(path, []byte(test.content), 0o644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dq.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestEngineMappings(t *testing.T) {
	engine := Default().Engine
	engine.Severities = map[string]string{"numeric_outliers": "info"}

	pc := engine.ProfileConfig()
	require.Equal(t, engine.CardinalityThreshold, pc.CardinalityThreshold)
	require.Equal(t, engine.OutlierIQRMultiplier, pc.OutlierIQRMultiplier)

	th := engine.Thresholds()
	require.Equal(t, engine.MissingWarning, th.MissingWarning)
	require.Equal(t, issue.SeverityInfo, th.SeverityFor(issue.KindNumericOutliers))
	require.Equal(t, issue.SeverityCritical, th.SeverityFor(issue.KindHighMissing))
}
