package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"
)

// Default values applied to fields left empty in a configuration source.
const (
	DefaultListenAddr               = "0.0.0.0"
	DefaultPort                     = 8080
	DefaultClassifierEndpoint       = "https://cobalt-90dg.onrender.com"
	DefaultClassifierBatchEndpoint  = "https://xgboostcsv-api.onrender.com"
	DefaultClassifierTimeout        = 30 * time.Second
	DefaultTargetOrbitVisualRadius  = 4.0
	DefaultBodyVisibilityMultiplier = 20.0
	DefaultPalette                  = "spectral"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ApplyDefaults fills every empty field of c with its default. An empty batch
// endpoint follows a configured prediction endpoint.
func ApplyDefaults(c *ConfigData) {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Classifier.BatchEndpoint == "" {
		if c.Classifier.Endpoint != "" {
			c.Classifier.BatchEndpoint = c.Classifier.Endpoint
		} else {
			c.Classifier.BatchEndpoint = DefaultClassifierBatchEndpoint
		}
	}
	if c.Classifier.Endpoint == "" {
		c.Classifier.Endpoint = DefaultClassifierEndpoint
	}
	if c.Classifier.Timeout == "" {
		c.Classifier.Timeout = DefaultClassifierTimeout.String()
	}
	if c.Scene.TargetOrbitVisualRadius == 0 {
		c.Scene.TargetOrbitVisualRadius = DefaultTargetOrbitVisualRadius
	}
	if c.Scene.BodyVisibilityMultiplier == 0 {
		c.Scene.BodyVisibilityMultiplier = DefaultBodyVisibilityMultiplier
	}
	if c.Scene.Palette == "" {
		c.Scene.Palette = DefaultPalette
	}
}

// Validate checks a configuration after defaults have been applied.
func Validate(c *ConfigData) error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if (c.Server.Cert == "") != (c.Server.Key == "") {
		return fmt.Errorf("%w: server cert and key must be set together", ErrInvalidConfig)
	}

	for name, raw := range map[string]string{
		"classifier endpoint":       c.Classifier.Endpoint,
		"classifier batch endpoint": c.Classifier.BatchEndpoint,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s %q is not an http(s) URL", ErrInvalidConfig, name, raw)
		}
	}

	if _, err := c.Classifier.TimeoutDuration(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if n := len(c.Classifier.FeatureNames); n != 0 && n != 6 {
		return fmt.Errorf("%w: classifier needs exactly 6 feature names, got %d", ErrInvalidConfig, n)
	}

	if !finitePositive(c.Scene.TargetOrbitVisualRadius) {
		return fmt.Errorf("%w: scene target orbit visual radius must be positive", ErrInvalidConfig)
	}
	if !finitePositive(c.Scene.BodyVisibilityMultiplier) {
		return fmt.Errorf("%w: scene body visibility multiplier must be positive", ErrInvalidConfig)
	}
	switch c.Scene.Palette {
	case "spectral", "monochrome":
	default:
		return fmt.Errorf("%w: unknown palette %q", ErrInvalidConfig, c.Scene.Palette)
	}

	seen := make(map[string]bool, len(c.Presets))
	for _, p := range c.Presets {
		if p.Name == "" {
			return fmt.Errorf("%w: preset without a name", ErrInvalidConfig)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate preset %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// TimeoutDuration parses the configured classifier timeout.
func (c ClassifierData) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultClassifierTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("classifier timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("classifier timeout %q must be positive", c.Timeout)
	}
	return d, nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
