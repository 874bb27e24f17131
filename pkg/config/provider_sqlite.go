package config

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/chrissnell/eukleides/pkg/migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationTable records the applied configuration schema version.
const MigrationTable = "config_schema_migrations"

// SchemaMigrations returns the embedded configuration schema migrations.
func SchemaMigrations() *migrate.FSProvider {
	return migrate.NewFSProvider(migrationFiles, "migrations", MigrationTable)
}

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens (or creates) a SQLite configuration database and
// brings its schema up to date.
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	m := migrate.NewMigrator(db, SchemaMigrations(), nil)
	if err := m.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate SQLite config schema: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	server, err := s.GetServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	config.Server = *server

	classifier, err := s.GetClassifierConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier config: %w", err)
	}
	config.Classifier = *classifier

	scene, err := s.GetSceneConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load scene config: %w", err)
	}
	config.Scene = *scene

	presets, err := s.GetPresets()
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	config.Presets = presets

	ApplyDefaults(config)
	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

const defaultConfigID = `(SELECT id FROM configs WHERE name = 'default')`

// GetServerConfig returns the REST server configuration from the database
func (s *SQLiteProvider) GetServerConfig() (*ServerData, error) {
	query := `
		SELECT listen_addr, port, cert, key, cors_origins
		FROM server_configs
		WHERE config_id = ` + defaultConfigID

	var listenAddr, cert, key, origins sql.NullString
	var port sql.NullInt64

	err := s.db.QueryRow(query).Scan(&listenAddr, &port, &cert, &key, &origins)
	if errors.Is(err, sql.ErrNoRows) {
		return &ServerData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query server config: %w", err)
	}

	return &ServerData{
		ListenAddr:  listenAddr.String,
		Port:        int(port.Int64),
		Cert:        cert.String,
		Key:         key.String,
		CORSOrigins: splitList(origins.String),
	}, nil
}

// GetClassifierConfig returns the classifier configuration from the database
func (s *SQLiteProvider) GetClassifierConfig() (*ClassifierData, error) {
	query := `
		SELECT endpoint, batch_endpoint, timeout, feature_names
		FROM classifier_configs
		WHERE config_id = ` + defaultConfigID

	var endpoint, batch, timeout, names sql.NullString

	err := s.db.QueryRow(query).Scan(&endpoint, &batch, &timeout, &names)
	if errors.Is(err, sql.ErrNoRows) {
		return &ClassifierData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query classifier config: %w", err)
	}

	return &ClassifierData{
		Endpoint:      endpoint.String,
		BatchEndpoint: batch.String,
		Timeout:       timeout.String,
		FeatureNames:  splitList(names.String),
	}, nil
}

// GetSceneConfig returns the scene configuration from the database
func (s *SQLiteProvider) GetSceneConfig() (*SceneData, error) {
	query := `
		SELECT target_orbit_visual_radius, body_visibility_multiplier, palette
		FROM scene_configs
		WHERE config_id = ` + defaultConfigID

	var target, multiplier sql.NullFloat64
	var palette sql.NullString

	err := s.db.QueryRow(query).Scan(&target, &multiplier, &palette)
	if errors.Is(err, sql.ErrNoRows) {
		return &SceneData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scene config: %w", err)
	}

	return &SceneData{
		TargetOrbitVisualRadius:  target.Float64,
		BodyVisibilityMultiplier: multiplier.Float64,
		Palette:                  palette.String,
	}, nil
}

// GetPresets returns the presets in their configured order
func (s *SQLiteProvider) GetPresets() ([]PresetData, error) {
	query := `
		SELECT name, orbital_period, planet_radius, stellar_temperature,
		       stellar_radius, transit_depth, transit_duration
		FROM presets
		WHERE config_id = ` + defaultConfigID + `
		ORDER BY position`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer rows.Close()

	var presets []PresetData
	for rows.Next() {
		var p PresetData
		var depth, duration sql.NullString

		err := rows.Scan(&p.Name, &p.OrbitalPeriod, &p.PlanetRadius, &p.StellarTemperature,
			&p.StellarRadius, &depth, &duration)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preset row: %w", err)
		}
		p.TransitDepth = depth.String
		p.TransitDuration = duration.String

		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var configID int64
	if err := tx.QueryRow(`SELECT id FROM configs WHERE name = 'default'`).Scan(&configID); err != nil {
		return fmt.Errorf("failed to find default config: %w", err)
	}

	if err := s.clearExistingConfig(tx, configID); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	srv := configData.Server
	_, err = tx.Exec(`
		INSERT INTO server_configs (config_id, listen_addr, port, cert, key, cors_origins)
		VALUES (?, ?, ?, ?, ?, ?)`,
		configID, nullString(srv.ListenAddr), srv.Port, nullString(srv.Cert), nullString(srv.Key),
		nullString(strings.Join(srv.CORSOrigins, ",")),
	)
	if err != nil {
		return fmt.Errorf("failed to insert server config: %w", err)
	}

	cl := configData.Classifier
	_, err = tx.Exec(`
		INSERT INTO classifier_configs (config_id, endpoint, batch_endpoint, timeout, feature_names)
		VALUES (?, ?, ?, ?, ?)`,
		configID, nullString(cl.Endpoint), nullString(cl.BatchEndpoint), nullString(cl.Timeout),
		nullString(strings.Join(cl.FeatureNames, ",")),
	)
	if err != nil {
		return fmt.Errorf("failed to insert classifier config: %w", err)
	}

	sc := configData.Scene
	_, err = tx.Exec(`
		INSERT INTO scene_configs (config_id, target_orbit_visual_radius, body_visibility_multiplier, palette)
		VALUES (?, ?, ?, ?)`,
		configID, nullFloat64(sc.TargetOrbitVisualRadius), nullFloat64(sc.BodyVisibilityMultiplier), nullString(sc.Palette),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scene config: %w", err)
	}

	for i, p := range configData.Presets {
		_, err := tx.Exec(`
			INSERT INTO presets (
				config_id, position, name, orbital_period, planet_radius,
				stellar_temperature, stellar_radius, transit_depth, transit_duration
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			configID, i, p.Name, p.OrbitalPeriod, p.PlanetRadius,
			p.StellarTemperature, p.StellarRadius, nullString(p.TransitDepth), nullString(p.TransitDuration),
		)
		if err != nil {
			return fmt.Errorf("failed to insert preset %s: %w", p.Name, err)
		}
	}

	if _, err := tx.Exec(`UPDATE configs SET updated_at = datetime('now') WHERE id = ?`, configID); err != nil {
		return fmt.Errorf("failed to touch config: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	queries := []string{
		"DELETE FROM server_configs WHERE config_id = ?",
		"DELETE FROM classifier_configs WHERE config_id = ?",
		"DELETE FROM scene_configs WHERE config_id = ?",
		"DELETE FROM presets WHERE config_id = ?",
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, configID); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions for handling nullable fields
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat64(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
