package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloforge/brakesim/internal/db"
	"github.com/veloforge/brakesim/internal/fuzzy"
	"github.com/veloforge/brakesim/internal/monitoring"
	"github.com/veloforge/brakesim/internal/motion"
	"github.com/veloforge/brakesim/internal/recorder"
	"github.com/veloforge/brakesim/internal/session"
	"github.com/veloforge/brakesim/internal/units"
)

func TestMain(m *testing.M) {
	defer monitoring.Quiet()()
	m.Run()
}

func newTestServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()
	database, err := db.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewServer(database, fuzzy.NewEngine(nil), units.MPS), database
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v),
		"body: %s", w.Body.String())
}

func TestCreateRunDefaults(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/runs", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp createRunResponse
	decodeJSON(t, w, &resp)
	assert.NotEmpty(t, resp.RunID)
	_, err := motion.ParseStopReason(resp.Reason)
	assert.NoError(t, err)
	assert.Greater(t, resp.Summary.Steps, 0)
}

func TestCreateRunSavesAndServes(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	// No initial speed on a flat surface rests immediately, so the run is
	// short and deterministic.
	params := session.DefaultParams()
	params.InitialSpeed = 0
	body, err := json.Marshal(map[string]interface{}{"params": params, "save": true})
	require.NoError(t, err)

	w := doJSON(t, h, http.MethodPost, "/api/runs", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp createRunResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, motion.ReasonRest.String(), resp.Reason)

	w = doJSON(t, h, http.MethodGet, "/api/runs/"+resp.RunID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var rec db.RunRecord
	decodeJSON(t, w, &rec)
	assert.Equal(t, resp.RunID, rec.RunID)
	assert.Equal(t, 0.0, rec.Params.InitialSpeed)

	w = doJSON(t, h, http.MethodGet, "/api/runs/"+resp.RunID+"/samples", "")
	require.Equal(t, http.StatusOK, w.Code)
	var samples []recorder.Sample
	decodeJSON(t, w, &samples)
	assert.NotEmpty(t, samples)

	w = doJSON(t, h, http.MethodGet, "/api/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var runs []db.RunRecord
	decodeJSON(t, w, &runs)
	assert.Len(t, runs, 1)
}

func TestCreateRunSummarySpeedUnits(t *testing.T) {
	// The same deterministic run through two servers differing only in
	// display units: speeds convert, everything else is untouched, and the
	// summary names the unit its speeds are expressed in.
	mps := NewServer(nil, fuzzy.NewEngine(nil), units.MPS)
	mph := NewServer(nil, fuzzy.NewEngine(nil), units.MPH)

	var mpsResp, mphResp createRunResponse
	w := doJSON(t, mps.Handler(), http.MethodPost, "/api/runs", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeJSON(t, w, &mpsResp)
	w = doJSON(t, mph.Handler(), http.MethodPost, "/api/runs", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeJSON(t, w, &mphResp)

	assert.Equal(t, units.MPS, mpsResp.Summary.SpeedUnits)
	assert.Equal(t, units.MPH, mphResp.Summary.SpeedUnits)
	require.Greater(t, mpsResp.Summary.MaxSpeed, 0.0)
	assert.InDelta(t, units.ConvertSpeed(mpsResp.Summary.MaxSpeed, units.MPH),
		mphResp.Summary.MaxSpeed, 1e-9)
	assert.Equal(t, mpsResp.Summary.Duration, mphResp.Summary.Duration)
	assert.Equal(t, mpsResp.Summary.MaxDecel, mphResp.Summary.MaxDecel)
}

func TestCreateRunRejectsBadParams(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/runs", `{"params": {"mass_kg": -1, "dt_s": 0.01, "time_scale": 1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/runs", `{"params": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRunNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s.Handler(), http.MethodGet, "/api/runs/absent", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfigRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := doJSON(t, h, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cfg fuzzy.ControllerConfig
	decodeJSON(t, w, &cfg)
	require.NotEmpty(t, cfg.Rules)

	// Replace with a tweaked copy and read it back.
	cfg.Rules = cfg.Rules[:len(cfg.Rules)-1]
	body, err := json.Marshal(&cfg)
	require.NoError(t, err)
	w = doJSON(t, h, http.MethodPut, "/api/config", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got fuzzy.ControllerConfig
	decodeJSON(t, w, &got)
	assert.Len(t, got.Rules, len(cfg.Rules))
}

func TestReplaceConfigRejectsUnknownLabel(t *testing.T) {
	s, _ := newTestServer(t)
	cfg := fuzzy.DefaultConfig()
	cfg.Rules[0].Brake = "Gentle"
	body, err := json.Marshal(cfg)
	require.NoError(t, err)

	w := doJSON(t, s.Handler(), http.MethodPut, "/api/config", string(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestControllerChart(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	for _, variable := range []string{"", "speed", "distance", "brake"} {
		w := doJSON(t, h, http.MethodGet, "/api/controller/chart?variable="+variable, "")
		require.Equal(t, http.StatusOK, w.Code, "variable %q", variable)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "echarts")
	}

	w := doJSON(t, h, http.MethodGet, "/api/controller/chart?variable=torque", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunChart(t *testing.T) {
	s, database := newTestServer(t)
	h := s.Handler()

	res := session.Result{
		RunID:  "chart-run",
		Stop:   motion.Stop{Reason: motion.ReasonRest},
		Params: session.DefaultParams(),
	}
	samples := []recorder.Sample{
		{T: 0.01, X: 0.06, V: 6, Brake: 0.3, Distance: 19.94},
		{T: 0.02, X: 0.12, V: 5.9, Brake: 0.35, Distance: 19.88},
	}
	require.NoError(t, database.RecordRun(res, samples))

	w := doJSON(t, h, http.MethodGet, "/api/runs/chart-run/chart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.True(t, strings.Contains(w.Body.String(), "Braking run chart-run"))

	w = doJSON(t, h, http.MethodGet, "/api/runs/empty-run/chart", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
