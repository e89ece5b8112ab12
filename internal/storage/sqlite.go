// Package storage handles database connections, schema migrations, and
// widget configuration persistence using SQLite.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Driver sqlite

	"github.com/dhiksjf/serverstat-hub/internal/models"
)

// Repository manages the SQLite database connection.
type Repository struct {
	db *sql.DB
}

// New initializes a new SQLite connection, sets connection pool parameters,
// and runs migrations.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveConfig stores a widget configuration. The enabled-field selection is
// kept as a JSON document in a single column.
func (r *Repository) SaveConfig(c models.WidgetConfig) error {
	fields, err := json.Marshal(c.EnabledFields)
	if err != nil {
		return fmt.Errorf("failed to encode enabled fields: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO widget_configs (
			id, server_host, server_port, enabled_fields,
			theme, accent_color, background_color, text_color, font_family,
			refresh_interval, dark_mode, border_radius, border_style,
			shadow_intensity, animation_speed, layout, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ServerHost, c.ServerPort, string(fields),
		c.Theme, c.AccentColor, c.BackgroundColor, c.TextColor, c.FontFamily,
		c.RefreshInterval, c.DarkMode, c.BorderRadius, c.BorderStyle,
		c.ShadowIntensity, c.AnimationSpeed, c.Layout, c.CreatedAt,
	)

	return err
}

// GetConfig retrieves a widget configuration by its public ID.
// It returns (nil, nil) when no such configuration exists.
func (r *Repository) GetConfig(id string) (*models.WidgetConfig, error) {
	row := r.db.QueryRow(`
		SELECT id, server_host, server_port, enabled_fields,
		       theme, accent_color, background_color, text_color, font_family,
		       refresh_interval, dark_mode, border_radius, border_style,
		       shadow_intensity, animation_speed, layout, created_at
		FROM widget_configs
		WHERE id = ?`, id)

	cfg, err := scanConfig(row)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetConfigs retrieves all stored configurations, newest first.
func (r *Repository) GetConfigs() ([]models.WidgetConfig, error) {
	rows, err := r.db.Query(`
		SELECT id, server_host, server_port, enabled_fields,
		       theme, accent_color, background_color, text_color, font_family,
		       refresh_interval, dark_mode, border_radius, border_style,
		       shadow_intensity, animation_speed, layout, created_at
		FROM widget_configs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var configs []models.WidgetConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			continue
		}
		configs = append(configs, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return configs, nil
}

// DeleteConfig removes a configuration by ID.
func (r *Repository) DeleteConfig(id string) error {
	_, err := r.db.Exec(`DELETE FROM widget_configs WHERE id = ?`, id)
	return err
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanConfig(row scanner) (*models.WidgetConfig, error) {
	var (
		c      models.WidgetConfig
		fields string
	)

	err := row.Scan(
		&c.ID, &c.ServerHost, &c.ServerPort, &fields,
		&c.Theme, &c.AccentColor, &c.BackgroundColor, &c.TextColor, &c.FontFamily,
		&c.RefreshInterval, &c.DarkMode, &c.BorderRadius, &c.BorderStyle,
		&c.ShadowIntensity, &c.AnimationSpeed, &c.Layout, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(fields), &c.EnabledFields); err != nil {
		return nil, fmt.Errorf("failed to decode enabled fields: %w", err)
	}

	return &c, nil
}
