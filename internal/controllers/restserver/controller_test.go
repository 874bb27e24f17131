package restserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/chrissnell/eukleides/internal/log"
	"github.com/chrissnell/eukleides/pkg/config"
	"github.com/chrissnell/eukleides/pkg/responseformat"
	"github.com/chrissnell/eukleides/pkg/viewstate"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// staticProvider serves a fixed configuration.
type staticProvider struct {
	data config.ConfigData
}

func (p *staticProvider) LoadConfig() (*config.ConfigData, error) {
	d := p.data
	return &d, nil
}
func (p *staticProvider) GetServerConfig() (*config.ServerData, error) { return &p.data.Server, nil }
func (p *staticProvider) GetClassifierConfig() (*config.ClassifierData, error) {
	return &p.data.Classifier, nil
}
func (p *staticProvider) GetSceneConfig() (*config.SceneData, error) { return &p.data.Scene, nil }
func (p *staticProvider) GetPresets() ([]config.PresetData, error)   { return p.data.Presets, nil }
func (p *staticProvider) IsReadOnly() bool                            { return true }
func (p *staticProvider) Close() error                                { return nil }

const batchCSV = "kepoi_name,Overall Prediction,Prediction Confidence (%)\n" +
	"K1,Candidate Planet,70\n" +
	"K2,Confirmed Planet,95.5\n" +
	"K3,False Positive,40\n" +
	"K4,Candidate Planet,88\n"

// fakeClassifier stands in for both classifier endpoints.
func fakeClassifier(t *testing.T, fail bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "model is warming up", http.StatusServiceUnavailable)
			return
		}
		switch r.URL.Path {
		case "/predict":
			io.WriteString(w, `{
				"overall_prediction": "Confirmed Planet",
				"prediction_confidence(%)": 91.5,
				"probability_breakdown(%)": {"Confirmed Planet": 91.5, "Candidate Planet": 6.0, "False Positive": 2.5}
			}`)
		case "/predict_csv":
			if _, _, err := r.FormFile("file"); err != nil {
				t.Errorf("FormFile: %v", err)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"summary": map[string]float64{}, "csv": batchCSV})
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestController(t *testing.T, mutate func(*config.ConfigData)) *Controller {
	t.Helper()
	srv := fakeClassifier(t, false)
	t.Cleanup(srv.Close)
	return newControllerFor(t, srv.URL, mutate)
}

func newControllerFor(t *testing.T, endpoint string, mutate func(*config.ConfigData)) *Controller {
	t.Helper()
	data := config.ConfigData{
		Classifier: config.ClassifierData{Endpoint: endpoint, BatchEndpoint: endpoint, Timeout: "5s"},
	}
	config.ApplyDefaults(&data)
	if mutate != nil {
		mutate(&data)
	}

	ctrl, err := NewController(context.Background(), &sync.WaitGroup{}, &staticProvider{data: data}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl
}

func serve(c *Controller, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func TestMain(m *testing.M) {
	log.Init(false)
	m.Run()
}

func TestGetOrbit(t *testing.T) {
	c := newTestController(t, nil)

	rec := serve(c, httptest.NewRequest(http.MethodGet, "/api/orbit?period=365.25&planet_radius=1&stellar_temperature=5778&stellar_radius=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response has no X-Request-ID")
	}

	var resp orbitResponse
	decodeJSON(t, rec, &resp)

	if math.Abs(resp.Orbit.OrbitalRadiusAU-1) > 0.01 {
		t.Errorf("orbital radius = %v AU, expected about 1", resp.Orbit.OrbitalRadiusAU)
	}
	if resp.Scene.StarClassLabel != "G Type (Yellow)" {
		t.Errorf("star class = %q", resp.Scene.StarClassLabel)
	}
	if resp.Scene.Planet.Position != [3]float64{4, 0, 0} {
		t.Errorf("planet position = %v", resp.Scene.Planet.Position)
	}
	if resp.Scene.Star.VisualScale > 4*0.8 {
		t.Errorf("star visual scale %v exceeds cap", resp.Scene.Star.VisualScale)
	}
	if resp.Scene.Star.Color != "#ffd2a1" {
		t.Errorf("star color = %q", resp.Scene.Star.Color)
	}
}

func TestGetOrbitDefaultsAndPalette(t *testing.T) {
	c := newTestController(t, nil)

	rec := serve(c, httptest.NewRequest(http.MethodGet, "/api/orbit?period=abc&palette=monochrome", nil))
	var resp orbitResponse
	decodeJSON(t, rec, &resp)

	if resp.Orbit.Parameters.OrbitalPeriodDays != 365 {
		t.Errorf("period = %v, expected default 365", resp.Orbit.Parameters.OrbitalPeriodDays)
	}
	if resp.Scene.Star.Color != "#ffffff" {
		t.Errorf("monochrome star color = %q", resp.Scene.Star.Color)
	}
}

func TestGetOrbitMsgPack(t *testing.T) {
	c := newTestController(t, nil)

	rec := serve(c, httptest.NewRequest(http.MethodGet, "/api/orbit?period=11.2&stellar_radius=0.14&stellar_temperature=3050&format=msgpack", nil))
	if ct := rec.Header().Get("Content-Type"); ct != responseformat.ContentTypeMsgPack {
		t.Fatalf("Content-Type = %q", ct)
	}

	var resp orbitResponse
	dec := msgpack.NewDecoder(rec.Body)
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding msgpack: %v", err)
	}
	if resp.Scene.StarClassLabel != "M Type (Red)" {
		t.Errorf("star class = %q", resp.Scene.StarClassLabel)
	}
}

func TestGetPosition(t *testing.T) {
	c := newTestController(t, nil)

	tests := []struct {
		name  string
		query string
		want  [3]float64
	}{
		{"start", "period=10&t=0", [3]float64{4, 0, 0}},
		{"quarter orbit", "period=10&t=0.25", [3]float64{0, 0, 4}},
		{"custom radius", "period=10&t=0.5&radius=2", [3]float64{-2, 0, 0}},
		{"bad time is zero", "period=10&t=soon", [3]float64{4, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(c, httptest.NewRequest(http.MethodGet, "/api/orbit/position?"+tt.query, nil))
			var resp positionResponse
			decodeJSON(t, rec, &resp)
			for i := range tt.want {
				if math.Abs(resp.Position[i]-tt.want[i]) > 1e-9 {
					t.Errorf("position = %v, expected %v", resp.Position, tt.want)
					break
				}
			}
		})
	}
}

func TestPredict(t *testing.T) {
	c := newTestController(t, nil)

	body := `{"orbital_period":"289.9","planet_radius":"2.38","stellar_temperature":"5518","stellar_radius":"0.98","transit_depth":"492","transit_duration":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(c, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp predictionResponse
	decodeJSON(t, rec, &resp)
	if resp.Prediction.Label != "Confirmed Planet" || resp.Prediction.Confidence != 91.5 {
		t.Errorf("prediction = %q %v", resp.Prediction.Label, resp.Prediction.Confidence)
	}
	if resp.Category != "confirmed" {
		t.Errorf("category = %q", resp.Category)
	}
	if resp.Features["orbital_period"] != 289.9 || resp.Features["transit_duration"] != 0 {
		t.Errorf("features = %v", resp.Features)
	}
}

func TestPredictAcceptsBatchTemperatureName(t *testing.T) {
	var sent struct {
		Inputs []float64 `json:"inputs"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decoding classifier request: %v", err)
			return
		}
		io.WriteString(w, `{"overall_prediction": "Candidate Planet", "prediction_confidence(%)": 60}`)
	}))
	defer srv.Close()
	c := newControllerFor(t, srv.URL, nil)

	body := `{"orbital_period":"11.2","planet_radius":"1.02","stellar_effective_temperature":"3050","stellar_radius":"0.14"}`
	rec := serve(c, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	want := []float64{11.2, 1.02, 3050, 0.14, 0, 0}
	if len(sent.Inputs) != len(want) {
		t.Fatalf("sent inputs %v, expected %v", sent.Inputs, want)
	}
	for i := range want {
		if sent.Inputs[i] != want[i] {
			t.Errorf("sent inputs %v, expected %v", sent.Inputs, want)
			break
		}
	}
}

func TestPredictClassifierDown(t *testing.T) {
	srv := fakeClassifier(t, true)
	defer srv.Close()
	c := newControllerFor(t, srv.URL, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"orbital_period":"3.52"}`))
	req.Header.Set("X-Request-ID", "req-42")
	rec := serve(c, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, expected 502", rec.Code)
	}
	var body responseformat.ErrorBody
	decodeJSON(t, rec, &body)
	if body.Error != "classifier_unavailable" || body.RequestID != "req-42" {
		t.Errorf("error body = %+v", body)
	}
	if !strings.Contains(body.Message, "503") {
		t.Errorf("message %q does not carry the upstream status", body.Message)
	}
}

func TestPredictBadBody(t *testing.T) {
	c := newTestController(t, nil)
	rec := serve(c, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}

func uploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		io.WriteString(part, content)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAnalyze(t *testing.T) {
	c := newTestController(t, nil)

	rec := serve(c, uploadRequest(t, "/api/analyze", "koi.csv", "kepoi_name,orbital_period\nK1,11.2\nK2,3.5\n"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	decodeJSON(t, rec, &resp)

	if resp.UploadedRows != 2 || resp.Filename != "koi.csv" {
		t.Errorf("upload = %d rows from %q", resp.UploadedRows, resp.Filename)
	}
	a := resp.Analysis
	if a.Counts["candidate"] != 2 || a.Counts["confirmed"] != 1 || a.Counts["false-positive"] != 1 {
		t.Errorf("counts = %v", a.Counts)
	}
	if got := a.KeyInsights.MostPromisingCandidate["kepoi_name"]; got != "K4" {
		t.Errorf("most promising candidate = %v", got)
	}
	if got := a.KeyInsights.HighestPriorityReview["kepoi_name"]; got != "K3" {
		t.Errorf("highest priority review = %v", got)
	}
	if a.Summary["Average Confidence (%)"] != 73.38 {
		t.Errorf("average confidence = %v", a.Summary["Average Confidence (%)"])
	}
}

func TestAnalyzeDownload(t *testing.T) {
	c := newTestController(t, nil)

	rec := serve(c, uploadRequest(t, "/api/analyze?download=csv", "koi.csv", "a\n1\n"))
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "koi_predictions.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "kepoi_name,Overall Prediction,Prediction Confidence (%)\n") {
		t.Errorf("csv = %q", rec.Body.String())
	}
}

func TestAnalyzeRejectsBadUploads(t *testing.T) {
	c := newTestController(t, nil)

	tests := []struct {
		name     string
		filename string
		content  string
		status   int
		code     string
	}{
		{"no file", "", "", http.StatusBadRequest, "missing_file"},
		{"not csv", "koi.xlsx", "a\n1\n", http.StatusUnsupportedMediaType, "unsupported_format"},
		{"header only", "koi.csv", "# comment\nkepoi_name\n", http.StatusBadRequest, "empty_dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(c, uploadRequest(t, "/api/analyze", tt.filename, tt.content))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, expected %d", rec.Code, tt.status)
			}
			var body responseformat.ErrorBody
			decodeJSON(t, rec, &body)
			if body.Error != tt.code {
				t.Errorf("error = %q, expected %q", body.Error, tt.code)
			}
		})
	}
}

func TestGetPresets(t *testing.T) {
	t.Run("builtin", func(t *testing.T) {
		c := newTestController(t, nil)
		var presets []viewstate.Preset
		decodeJSON(t, serve(c, httptest.NewRequest(http.MethodGet, "/api/presets", nil)), &presets)
		if len(presets) != len(viewstate.BuiltinPresets()) {
			t.Errorf("got %d presets", len(presets))
		}
	})

	t.Run("configured", func(t *testing.T) {
		c := newTestController(t, func(d *config.ConfigData) {
			d.Presets = []config.PresetData{{Name: "Tatooine", OrbitalPeriod: "304", PlanetRadius: "0.9", StellarTemperature: "5600", StellarRadius: "1.1"}}
		})
		var presets []viewstate.Preset
		decodeJSON(t, serve(c, httptest.NewRequest(http.MethodGet, "/api/presets", nil)), &presets)
		if len(presets) != 1 || presets[0].Name != "Tatooine" || presets[0].Form.OrbitalPeriod != "304" {
			t.Errorf("presets = %+v", presets)
		}
	})
}

func TestApplyViewState(t *testing.T) {
	c := newTestController(t, nil)

	t.Run("fresh session", func(t *testing.T) {
		rec := serve(c, httptest.NewRequest(http.MethodPost, "/api/viewstate/zoom-in", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp viewStateResponse
		decodeJSON(t, rec, &resp)
		if resp.State.ZoomLevel != viewstate.DefaultZoom-viewstate.ZoomStep {
			t.Errorf("zoom = %d", resp.State.ZoomLevel)
		}
		if resp.Scene.StarClassLabel != "M Type (Red)" {
			t.Errorf("fresh session should show Proxima Centauri, got %q", resp.Scene.StarClassLabel)
		}
	})

	t.Run("preset on posted state", func(t *testing.T) {
		s := viewstate.New()
		s.ZoomLevel = 20
		body, _ := json.Marshal(viewStateRequest{State: s, Action: viewstate.Action{Preset: "kepler-22b"}})

		rec := serve(c, httptest.NewRequest(http.MethodPost, "/api/viewstate/preset", bytes.NewReader(body)))
		var resp viewStateResponse
		decodeJSON(t, rec, &resp)
		if resp.State.ExoplanetName != "Kepler-22b" || resp.State.ZoomLevel != 20 {
			t.Errorf("state = %+v", resp.State)
		}
		if resp.Orbit.Parameters.OrbitalPeriodDays != 289.9 {
			t.Errorf("orbit period = %v", resp.Orbit.Parameters.OrbitalPeriodDays)
		}
	})

	t.Run("partial state keeps defaults", func(t *testing.T) {
		body := `{"state":{"form":{"orbital_period":"42"}}}`
		rec := serve(c, httptest.NewRequest(http.MethodPost, "/api/viewstate/toggle-playing", strings.NewReader(body)))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp viewStateResponse
		decodeJSON(t, rec, &resp)
		s := resp.State
		if s.ZoomLevel != viewstate.DefaultZoom || s.LeftColumnWidth != viewstate.DefaultColumnWidth {
			t.Errorf("layout = zoom %d, width %v", s.ZoomLevel, s.LeftColumnWidth)
		}
		if s.MapSize != viewstate.MapNormal || s.ViewMode != viewstate.ViewIndividual {
			t.Errorf("view = %q %q", s.MapSize, s.ViewMode)
		}
		if s.Form.OrbitalPeriod != "42" || s.Form.StellarTemperature != "3050" || !s.Playing {
			t.Errorf("state = %+v", s)
		}
	})

	t.Run("msgpack body", func(t *testing.T) {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		enc.Encode(viewStateRequest{Action: viewstate.Action{Field: "orbital_period", Value: "42"}})

		req := httptest.NewRequest(http.MethodPost, "/api/viewstate/set-field", &buf)
		req.Header.Set("Content-Type", responseformat.ContentTypeMsgPack)
		var resp viewStateResponse
		decodeJSON(t, serve(c, req), &resp)
		if resp.State.Form.OrbitalPeriod != "42" || resp.State.ExoplanetName != viewstate.CustomExoplanetName {
			t.Errorf("state = %+v", resp.State)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			action string
			body   string
			status int
		}{
			{"warp", "", http.StatusNotFound},
			{"set-field", `{"action":{"field":"mass","value":"1"}}`, http.StatusBadRequest},
			{"preset", `{"action":{"preset":"Vulcan"}}`, http.StatusBadRequest},
			{"reset", `{"state":`, http.StatusBadRequest},
		}
		for _, tt := range tests {
			rec := serve(c, httptest.NewRequest(http.MethodPost, "/api/viewstate/"+tt.action, strings.NewReader(tt.body)))
			if rec.Code != tt.status {
				t.Errorf("%s: status = %d, expected %d", tt.action, rec.Code, tt.status)
			}
		}
	})
}

func TestGetStatusAndLogs(t *testing.T) {
	c := newTestController(t, nil)

	rec := serve(c, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	var status statusResponse
	decodeJSON(t, rec, &status)
	if status.Version == "" || status.Presets != 7 || len(status.FeatureNames) != 6 {
		t.Errorf("status = %+v", status)
	}
	if status.JulianDay < 2451545 {
		t.Errorf("julian day %v is before J2000", status.JulianDay)
	}

	var entries []log.HTTPLogEntry
	decodeJSON(t, serve(c, httptest.NewRequest(http.MethodGet, "/api/logs", nil)), &entries)
	found := false
	for _, e := range entries {
		if e.Path == "/api/status" && e.Status == http.StatusOK && e.RequestID != "" {
			found = true
		}
		if e.Path == "/api/logs" {
			t.Error("log viewer requests should not be logged")
		}
	}
	if !found {
		t.Error("status request missing from the HTTP log")
	}
}

func TestStaticAssets(t *testing.T) {
	c := newTestController(t, nil)

	rec := serve(c, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<title>Eukleides</title>") {
		t.Errorf("index: status %d", rec.Code)
	}
	rec = serve(c, httptest.NewRequest(http.MethodGet, "/js/eukleides.js", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("js: status %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	c := newTestController(t, func(d *config.ConfigData) {
		d.Server.CORSOrigins = []string{"https://viewer.example"}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/presets", nil)
	req.Header.Set("Origin", "https://viewer.example")
	rec := serve(c, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://viewer.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestNewControllerRejectsInvalidConfig(t *testing.T) {
	data := config.ConfigData{Classifier: config.ClassifierData{Endpoint: "ftp://example.com"}}
	_, err := NewController(context.Background(), &sync.WaitGroup{}, &staticProvider{data: data}, zap.NewNop().Sugar())
	if err == nil {
		t.Fatal("expected an error for a non-http classifier endpoint")
	}
}
