package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}
	return y.parse(cfgFile)
}

func (y *YAMLProvider) parse(cfgFile []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Server     ServerYAML     `yaml:"server,omitempty"`
		Classifier ClassifierYAML `yaml:"classifier,omitempty"`
		Scene      SceneYAML      `yaml:"scene,omitempty"`
		Presets    []PresetYAML   `yaml:"presets,omitempty"`
	}

	if err := yaml.UnmarshalStrict(cfgFile, &yamlConfig); err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Server: ServerData{
			ListenAddr:  yamlConfig.Server.ListenAddr,
			Port:        yamlConfig.Server.Port,
			Cert:        yamlConfig.Server.Cert,
			Key:         yamlConfig.Server.Key,
			CORSOrigins: yamlConfig.Server.CORSOrigins,
		},
		Classifier: ClassifierData{
			Endpoint:      yamlConfig.Classifier.Endpoint,
			BatchEndpoint: yamlConfig.Classifier.BatchEndpoint,
			Timeout:       yamlConfig.Classifier.Timeout,
			FeatureNames:  yamlConfig.Classifier.FeatureNames,
		},
		Scene: SceneData{
			TargetOrbitVisualRadius:  yamlConfig.Scene.TargetOrbitVisualRadius,
			BodyVisibilityMultiplier: yamlConfig.Scene.BodyVisibilityMultiplier,
			Palette:                  yamlConfig.Scene.Palette,
		},
		Presets: make([]PresetData, len(yamlConfig.Presets)),
	}

	for i, p := range yamlConfig.Presets {
		config.Presets[i] = PresetData{
			Name:               p.Name,
			OrbitalPeriod:      p.OrbitalPeriod,
			PlanetRadius:       p.PlanetRadius,
			StellarTemperature: p.StellarTemperature,
			StellarRadius:      p.StellarRadius,
			TransitDepth:       p.TransitDepth,
			TransitDuration:    p.TransitDuration,
		}
	}

	ApplyDefaults(config)
	if err := Validate(config); err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

func (y *YAMLProvider) loaded() (*ConfigData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config, nil
}

// GetServerConfig returns the REST server configuration
func (y *YAMLProvider) GetServerConfig() (*ServerData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &c.Server, nil
}

// GetClassifierConfig returns the classifier configuration
func (y *YAMLProvider) GetClassifierConfig() (*ClassifierData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &c.Classifier, nil
}

// GetSceneConfig returns the scene configuration
func (y *YAMLProvider) GetSceneConfig() (*SceneData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &c.Scene, nil
}

// GetPresets returns the configured presets
func (y *YAMLProvider) GetPresets() ([]PresetData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return c.Presets, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags
type ServerYAML struct {
	ListenAddr  string   `yaml:"listen-addr,omitempty"`
	Port        int      `yaml:"port,omitempty"`
	Cert        string   `yaml:"cert,omitempty"`
	Key         string   `yaml:"key,omitempty"`
	CORSOrigins []string `yaml:"cors-origins,omitempty"`
}

type ClassifierYAML struct {
	Endpoint      string   `yaml:"endpoint,omitempty"`
	BatchEndpoint string   `yaml:"batch-endpoint,omitempty"`
	Timeout       string   `yaml:"timeout,omitempty"`
	FeatureNames  []string `yaml:"feature-names,omitempty"`
}

type SceneYAML struct {
	TargetOrbitVisualRadius  float64 `yaml:"target-orbit-visual-radius,omitempty"`
	BodyVisibilityMultiplier float64 `yaml:"body-visibility-multiplier,omitempty"`
	Palette                  string  `yaml:"palette,omitempty"`
}

type PresetYAML struct {
	Name               string `yaml:"name"`
	OrbitalPeriod      string `yaml:"orbital-period"`
	PlanetRadius       string `yaml:"planet-radius"`
	StellarTemperature string `yaml:"stellar-temperature"`
	StellarRadius      string `yaml:"stellar-radius"`
	TransitDepth       string `yaml:"transit-depth,omitempty"`
	TransitDuration    string `yaml:"transit-duration,omitempty"`
}
