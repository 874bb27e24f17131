package restserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/eukleides/internal/constants"
	"github.com/chrissnell/eukleides/internal/log"
	"github.com/chrissnell/eukleides/pkg/classifier"
	"github.com/chrissnell/eukleides/pkg/dataset"
	"github.com/chrissnell/eukleides/pkg/orbit"
	"github.com/chrissnell/eukleides/pkg/responseformat"
	"github.com/chrissnell/eukleides/pkg/viewstate"
	"github.com/gorilla/mux"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxBodySize   = 1 << 20
	maxUploadSize = 32 << 20
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

type orbitResponse struct {
	Orbit        orbit.DerivedOrbit `json:"orbit"`
	Scene        orbit.Scene        `json:"scene"`
	AngularSpeed float64            `json:"angular_speed"`
}

type positionResponse struct {
	Position       [3]float64 `json:"position"`
	AngularSpeed   float64    `json:"angular_speed"`
	PeriodDays     float64    `json:"period_days"`
	Eccentricity   float64    `json:"eccentricity"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
}

type predictionResponse struct {
	Prediction *classifier.Prediction `json:"prediction"`
	Category   classifier.Category    `json:"category"`
	Features   map[string]float64     `json:"features"`
}

type analyzeResponse struct {
	RequestID    string            `json:"request_id"`
	Filename     string            `json:"filename"`
	UploadedRows int               `json:"uploaded_rows"`
	Analysis     *dataset.Analysis `json:"analysis"`
}

type viewStateRequest struct {
	State  *viewstate.State `json:"state"`
	Action viewstate.Action `json:"action"`
}

type viewStateResponse struct {
	State *viewstate.State   `json:"state"`
	Orbit orbit.DerivedOrbit `json:"orbit"`
	Scene orbit.Scene        `json:"scene"`
}

type statusResponse struct {
	Version            string    `json:"version"`
	Started            time.Time `json:"started"`
	UptimeSeconds      float64   `json:"uptime_seconds"`
	JulianDay          float64   `json:"julian_day"`
	ClassifierEndpoint string    `json:"classifier_endpoint"`
	FeatureNames       []string  `json:"feature_names"`
	Presets            int       `json:"presets"`
}

// GetOrbit resolves the system described by the query string. Missing or
// malformed numbers fall back to the Sun-Earth defaults.
func (h *Handlers) GetOrbit(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	p := orbit.ParseParameters(q.Get("period"), q.Get("planet_radius"), q.Get("stellar_temperature"), q.Get("stellar_radius"))

	opts := h.controller.SceneOptions
	if palette := q.Get("palette"); palette != "" {
		opts.Palette = orbit.ParsePalette(palette)
	}

	d := orbit.Resolve(p, opts)
	resp := orbitResponse{
		Orbit:        d,
		Scene:        orbit.BuildScene(d, opts),
		AngularSpeed: orbit.AngularSpeed(p.OrbitalPeriodDays),
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		log.Error("error encoding orbit:", err)
	}
}

// GetPosition returns where the animated planet sits t scene seconds after
// the animation started.
func (h *Handlers) GetPosition(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	period := orbit.ParseOrDefault(q.Get("period"), orbit.DefaultOrbitalPeriodDays)
	eccentricity := floatParam(q, "eccentricity", 0)
	elapsed := floatParam(q, "t", 0)
	radius := floatParam(q, "radius", h.controller.SceneOptions.TargetOrbitVisualRadius)

	resp := positionResponse{
		Position:       orbit.PlanetPosition(radius, period, elapsed, eccentricity),
		AngularSpeed:   orbit.AngularSpeed(period),
		PeriodDays:     period,
		Eccentricity:   eccentricity,
		ElapsedSeconds: elapsed,
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		log.Error("error encoding position:", err)
	}
}

// Predict forwards the posted form to the classifier.
func (h *Handlers) Predict(w http.ResponseWriter, req *http.Request) {
	var form viewstate.Form
	if err := decodeBody(w, req, &form); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	features := form.Features()
	pred, err := h.controller.Classifier.Predict(req.Context(), features)
	if err != nil {
		h.controller.logger.Errorw("prediction failed", "request_id", requestID(req), "error", err)
		h.formatter.WriteError(w, req, http.StatusBadGateway, "classifier_unavailable", err.Error())
		return
	}

	resp := predictionResponse{
		Prediction: pred,
		Category:   pred.Category(),
		Features:   features.Named(h.controller.FeatureNames),
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		log.Error("error encoding prediction:", err)
	}
}

// Analyze sends an uploaded CSV to the batch classifier and digests the
// result. With download=csv the annotated table is returned as a file.
func (h *Handlers) Analyze(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadSize)
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid_upload", err.Error())
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "missing_file", "a CSV file is required in the \"file\" field")
		return
	}
	defer file.Close()

	if err := dataset.CheckFilename(header.Filename); err != nil {
		h.formatter.WriteError(w, req, http.StatusUnsupportedMediaType, "unsupported_format", err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid_upload", err.Error())
		return
	}

	upload, err := dataset.ParseUpload(bytes.NewReader(data))
	if err != nil {
		code := "invalid_csv"
		if errors.Is(err, dataset.ErrEmptyDataset) {
			code = "empty_dataset"
		}
		h.formatter.WriteError(w, req, http.StatusBadRequest, code, err.Error())
		return
	}

	result, err := h.controller.Classifier.AnalyzeCSV(req.Context(), header.Filename, bytes.NewReader(data))
	if err != nil {
		h.controller.logger.Errorw("dataset analysis failed", "request_id", requestID(req), "error", err)
		h.formatter.WriteError(w, req, http.StatusBadGateway, "classifier_unavailable", err.Error())
		return
	}

	table, err := dataset.ParseResults(result.CSV)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadGateway, "invalid_classifier_response", err.Error())
		return
	}

	if req.URL.Query().Get("download") == "csv" {
		name := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)) + "_predictions.csv"
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		if err := dataset.WriteCSV(w, table, nil); err != nil {
			log.Error("error writing predictions CSV:", err)
		}
		return
	}

	resp := analyzeResponse{
		RequestID:    result.RequestID,
		Filename:     header.Filename,
		UploadedRows: len(upload.Rows),
		Analysis:     dataset.Analyze(table, result.Summary),
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		log.Error("error encoding analysis:", err)
	}
}

// GetPresets lists the quick presets offered by the viewer.
func (h *Handlers) GetPresets(w http.ResponseWriter, req *http.Request) {
	if err := h.formatter.WriteResponse(w, req, h.controller.Presets, nil); err != nil {
		log.Error("error encoding presets:", err)
	}
}

// ApplyViewState applies the action named in the path to the posted state and
// returns the new state with the orbit it describes. An empty body starts from
// a fresh session.
func (h *Handlers) ApplyViewState(w http.ResponseWriter, req *http.Request) {
	// Fields the posted state leaves out keep their fresh-session values.
	body := viewStateRequest{State: viewstate.New()}
	if err := decodeBody(w, req, &body); err != nil && !errors.Is(err, io.EOF) {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	state := body.State
	if state == nil {
		state = viewstate.New()
	}
	action := body.Action
	action.Type = mux.Vars(req)["action"]

	if err := state.Apply(action, h.controller.Presets); err != nil {
		status, code := http.StatusBadRequest, "invalid_action"
		if errors.Is(err, viewstate.ErrUnknownAction) {
			status, code = http.StatusNotFound, "unknown_action"
		}
		h.formatter.WriteError(w, req, status, code, err.Error())
		return
	}

	d := orbit.Resolve(state.Parameters(), h.controller.SceneOptions)
	resp := viewStateResponse{
		State: state,
		Orbit: d,
		Scene: orbit.BuildScene(d, h.controller.SceneOptions),
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		log.Error("error encoding view state:", err)
	}
}

// GetStatus reports the server version, uptime and classifier wiring.
func (h *Handlers) GetStatus(w http.ResponseWriter, req *http.Request) {
	now := time.Now()
	resp := statusResponse{
		Version:            constants.Version,
		Started:            h.controller.started,
		UptimeSeconds:      now.Sub(h.controller.started).Seconds(),
		JulianDay:          julian.TimeToJD(now),
		ClassifierEndpoint: h.controller.Classifier.Endpoint(),
		FeatureNames:       h.controller.FeatureNames,
		Presets:            len(h.controller.Presets),
	}
	headers := map[string]string{
		"Cache-Control": "no-cache, no-store, must-revalidate",
	}
	if err := h.formatter.WriteResponse(w, req, resp, headers); err != nil {
		log.Error("error encoding status:", err)
	}
}

// GetLogs returns the most recent HTTP request log entries.
func (h *Handlers) GetLogs(w http.ResponseWriter, req *http.Request) {
	if err := h.formatter.WriteResponse(w, req, log.GetHTTPLogBuffer().Entries(), nil); err != nil {
		log.Error("error encoding HTTP logs:", err)
	}
}

// decodeBody reads a JSON or MessagePack request body into v.
func decodeBody(w http.ResponseWriter, req *http.Request, v any) error {
	body := http.MaxBytesReader(w, req.Body, maxBodySize)
	if req.Header.Get("Content-Type") == responseformat.ContentTypeMsgPack {
		dec := msgpack.NewDecoder(body)
		dec.SetCustomStructTag("json")
		return dec.Decode(v)
	}
	return json.NewDecoder(body).Decode(v)
}

// floatParam parses a finite query parameter, returning def when it is
// missing or malformed.
func floatParam(q url.Values, name string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(name)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
