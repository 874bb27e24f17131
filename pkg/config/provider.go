package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetServerConfig() (*ServerData, error)
	GetClassifierConfig() (*ClassifierData, error)
	GetSceneConfig() (*SceneData, error)
	GetPresets() ([]PresetData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server     ServerData     `json:"server"`
	Classifier ClassifierData `json:"classifier"`
	Scene      SceneData      `json:"scene"`
	Presets    []PresetData   `json:"presets,omitempty"`
}

// ServerData holds the REST server listener configuration
type ServerData struct {
	ListenAddr  string   `json:"listen_addr,omitempty"`
	Port        int      `json:"port,omitempty"`
	Cert        string   `json:"cert,omitempty"`
	Key         string   `json:"key,omitempty"`
	CORSOrigins []string `json:"cors_origins,omitempty"`
}

// ClassifierData describes the remote classification service
type ClassifierData struct {
	Endpoint      string   `json:"endpoint"`
	BatchEndpoint string   `json:"batch_endpoint,omitempty"`
	Timeout       string   `json:"timeout,omitempty"`
	FeatureNames  []string `json:"feature_names,omitempty"`
}

// SceneData controls how orbits are scaled for the renderer
type SceneData struct {
	TargetOrbitVisualRadius  float64 `json:"target_orbit_visual_radius,omitempty"`
	BodyVisibilityMultiplier float64 `json:"body_visibility_multiplier,omitempty"`
	Palette                  string  `json:"palette,omitempty"`
}

// PresetData is a named set of form values offered as a quick preset
type PresetData struct {
	Name               string `json:"name"`
	OrbitalPeriod      string `json:"orbital_period"`
	PlanetRadius       string `json:"planet_radius"`
	StellarTemperature string `json:"stellar_temperature"`
	StellarRadius      string `json:"stellar_radius"`
	TransitDepth       string `json:"transit_depth,omitempty"`
	TransitDuration    string `json:"transit_duration,omitempty"`
}
