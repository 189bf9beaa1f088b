// Package config loads the application configuration from config.toml
// next to the executable, with sane defaults when the file is absent.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration.
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Ingest   IngestConfig   `toml:"ingest"`
	Geo      GeoConfig      `toml:"geo"`
	Export   ExportConfig   `toml:"export"`
	Simulate SimulateConfig `toml:"simulate"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// IngestConfig bounds the content-keyed ingestion cache.
type IngestConfig struct {
	CacheEntries  int `toml:"cache_entries"`
	MaxUploadMB   int `toml:"max_upload_mb"`
	SessionMinute int `toml:"session_ttl_minutes"`
}

// GeoConfig points at the external coordinates CSV.
type GeoConfig struct {
	CoordinatesURL string `toml:"coordinates_url"`
}

// ExportConfig bounds the PDF snapshot.
type ExportConfig struct {
	PDFMaxRows int `toml:"pdf_max_rows"`
	PDFMaxCols int `toml:"pdf_max_cols"`
}

// SimulateConfig bounds the what-if percentage slider.
type SimulateConfig struct {
	MinPct float64 `toml:"min_pct"`
	MaxPct float64 `toml:"max_pct"`
}

// LoadConfigInfo carries load metadata for flag precedence.
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20340,
			DevMode: false,
		},
		Ingest: IngestConfig{
			CacheEntries:  16,
			MaxUploadMB:   25,
			SessionMinute: 240,
		},
		Geo: GeoConfig{
			CoordinatesURL: "https://raw.githubusercontent.com/Tincho2002/RRHH-sub000/main/coordenadas.csv",
		},
		Export: ExportConfig{
			PDFMaxRows: 100,
			PDFMaxCols: 8,
		},
		Simulate: SimulateConfig{
			MinPct: 0,
			MaxPct: 0.5,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo loads config.toml and reports load metadata. A
// missing file is not an error: defaults apply.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// Environment override for local runs and E2E.
	if v := os.Getenv("RRHH_COORDINATES_URL"); v != "" {
		config.Geo.CoordinatesURL = v
	}

	return config, info, nil
}

// LoadConfig loads config.toml from the executable's directory.
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}
