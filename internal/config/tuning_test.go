package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloforge/brakesim/internal/fuzzy"
	"github.com/veloforge/brakesim/internal/session"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadTuningConfig(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{
		"mass_kg": 85,
		"mu": 0.6,
		"obstacle_m": 35,
		"timestep_s": 0.02,
		"refresh_interval": "50ms",
		"resolution": 400
	}`)

	cfg, err := LoadTuningConfig(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.MassKg)
	assert.Equal(t, 85.0, *cfg.MassKg)
	assert.Nil(t, cfg.Crr, "absent fields stay nil")
	assert.Equal(t, 50*time.Millisecond, cfg.GetRefreshInterval())
	assert.Equal(t, 400, cfg.GetResolution())
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	path := writeConfig(t, "tuning.yaml", "mass_kg: 85")
	_, err := LoadTuningConfig(path)
	assert.ErrorContains(t, err, ".json extension")
}

func TestLoadTuningConfigMissingFile(t *testing.T) {
	_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadTuningConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"negative mass", `{"mass_kg": -1}`},
		{"negative mu", `{"mu": -0.1}`},
		{"zero timestep", `{"timestep_s": 0}`},
		{"zero time scale", `{"time_scale": 0}`},
		{"bad duration", `{"refresh_interval": "soon"}`},
		{"tiny resolution", `{"resolution": 1}`},
		{"malformed JSON", `{"mass_kg": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "tuning.json", tt.contents)
			_, err := LoadTuningConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestValidateController(t *testing.T) {
	cfg := EmptyTuningConfig()
	bad := fuzzy.DefaultConfig()
	bad.Rules[0].Brake = "Gentle" // not a Brake membership name
	cfg.Controller = bad
	assert.ErrorContains(t, cfg.Validate(), "controller")

	cfg.Controller = fuzzy.DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestParamsFallsBackToDefaults(t *testing.T) {
	empty := EmptyTuningConfig()
	assert.Equal(t, session.DefaultParams(), empty.Params())

	mass := 90.0
	dt := 0.02
	interval := "100ms"
	cfg := &TuningConfig{MassKg: &mass, TimestepS: &dt, RefreshInterval: &interval}

	p := cfg.Params()
	assert.Equal(t, 90.0, p.Mass)
	assert.Equal(t, 0.02, p.DT)
	assert.Equal(t, 100*time.Millisecond, p.RefreshInterval)
	assert.Equal(t, session.DefaultParams().Mu, p.Mu, "unset fields keep defaults")
}
