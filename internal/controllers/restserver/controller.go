// Package restserver serves the orbit viewer and its JSON/MessagePack API.
package restserver

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/eukleides/internal/log"
	"github.com/chrissnell/eukleides/pkg/classifier"
	"github.com/chrissnell/eukleides/pkg/config"
	"github.com/chrissnell/eukleides/pkg/orbit"
	"github.com/chrissnell/eukleides/pkg/viewstate"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type contextKey string

const requestIDContextKey contextKey = "request_id"

// Controller represents the REST server controller
type Controller struct {
	ctx          context.Context
	wg           *sync.WaitGroup
	serverConfig config.ServerData
	Server       http.Server
	Classifier   *classifier.Client
	Presets      []viewstate.Preset
	SceneOptions orbit.SceneOptions
	FeatureNames []string
	FS           fs.FS
	started      time.Time
	logger       *zap.SugaredLogger
	handlers     *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, logger *zap.SugaredLogger) (*Controller, error) {
	cfgData, err := configProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	config.ApplyDefaults(cfgData)
	if err := config.Validate(cfgData); err != nil {
		return nil, err
	}

	timeout, err := cfgData.Classifier.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	cl, err := classifier.NewClient(classifier.Config{
		Endpoint:      cfgData.Classifier.Endpoint,
		BatchEndpoint: cfgData.Classifier.BatchEndpoint,
		Timeout:       timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating classifier client: %w", err)
	}

	ctrl := &Controller{
		ctx:          ctx,
		wg:           wg,
		serverConfig: cfgData.Server,
		Classifier:   cl,
		Presets:      presetCatalog(cfgData.Presets),
		SceneOptions: orbit.SceneOptions{
			TargetOrbitVisualRadius:  cfgData.Scene.TargetOrbitVisualRadius,
			BodyVisibilityMultiplier: cfgData.Scene.BodyVisibilityMultiplier,
			Palette:                  orbit.ParsePalette(cfgData.Scene.Palette),
		},
		FeatureNames: cfgData.Classifier.FeatureNames,
		FS:           GetAssets(),
		started:      time.Now(),
		logger:       logger,
	}
	if len(ctrl.FeatureNames) == 0 {
		ctrl.FeatureNames = classifier.DefaultFeatureNames
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", cfgData.Server.ListenAddr, cfgData.Server.Port)
	ctrl.Server.Handler = ctrl.wrap(ctrl.setupRouter())

	return ctrl, nil
}

// presetCatalog turns configured presets into viewer presets. With nothing
// configured the built-in catalog is used.
func presetCatalog(data []config.PresetData) []viewstate.Preset {
	if len(data) == 0 {
		return viewstate.BuiltinPresets()
	}
	presets := make([]viewstate.Preset, 0, len(data))
	for _, p := range data {
		presets = append(presets, viewstate.Preset{
			Name: p.Name,
			Form: viewstate.Form{
				OrbitalPeriod:      p.OrbitalPeriod,
				PlanetRadius:       p.PlanetRadius,
				StellarTemperature: p.StellarTemperature,
				StellarRadius:      p.StellarRadius,
				TransitDepth:       p.TransitDepth,
				TransitDuration:    p.TransitDuration,
			},
		})
	}
	return presets
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		c.logger.Infof("REST server listening on %s", c.Server.Addr)
		if c.serverConfig.Cert != "" && c.serverConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.serverConfig.Cert, c.serverConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.requestIDMiddleware)
	router.Use(c.loggingMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/orbit", c.handlers.GetOrbit).Methods(http.MethodGet)
	api.HandleFunc("/orbit/position", c.handlers.GetPosition).Methods(http.MethodGet)
	api.HandleFunc("/predict", c.handlers.Predict).Methods(http.MethodPost)
	api.HandleFunc("/analyze", c.handlers.Analyze).Methods(http.MethodPost)
	api.HandleFunc("/presets", c.handlers.GetPresets).Methods(http.MethodGet)
	api.HandleFunc("/viewstate/{action}", c.handlers.ApplyViewState).Methods(http.MethodPost)
	api.HandleFunc("/status", c.handlers.GetStatus).Methods(http.MethodGet)
	api.HandleFunc("/logs", c.handlers.GetLogs).Methods(http.MethodGet)

	// Static file serving
	router.PathPrefix("/").Handler(http.FileServer(http.FS(c.FS)))

	return router
}

// wrap adds the middleware that must also see requests no route matched:
// CORS preflights and panics.
func (c *Controller) wrap(h http.Handler) http.Handler {
	if len(c.serverConfig.CORSOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(c.serverConfig.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", "Accept", "X-Request-ID"}),
			handlers.ExposedHeaders([]string{"X-Request-ID"}),
		)(h)
	}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{c.logger}),
		handlers.PrintRecoveryStack(true),
	)(h)
}

// requestIDMiddleware tags every request with an ID, reusing the caller's
// X-Request-ID when present.
func (c *Controller) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs all requests except for noisy endpoints
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		// Don't log requests to /api/logs to avoid cluttering the log viewer
		if r.URL.Path == "/api/logs" {
			return
		}
		log.LogHTTPRequest(log.HTTPLogEntry{
			RequestID:  requestID(r),
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     m.Code,
			DurationMS: m.Duration.Milliseconds(),
			Size:       int(m.Written),
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
		})
	})
}

// requestID returns the ID assigned by requestIDMiddleware.
func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// recoveryLogger adapts a zap logger to handlers.RecoveryHandlerLogger.
type recoveryLogger struct {
	logger *zap.SugaredLogger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error(v...)
}
