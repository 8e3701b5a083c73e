package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the application-level configuration (config.toml). Dashboard
// layouts live in their own files under the dashboards directory.
type Config struct {
	ListenTCP  string `toml:"listen_tcp"`
	ListenHTTP string `toml:"listen_http"`
	// DashboardsDir overrides the default dashboards directory.
	DashboardsDir string `toml:"dashboards_dir"`
	// Pretty switches serialized frames to indented JSON.
	Pretty bool `toml:"pretty"`
	// FrameBufferSize caps the serialization buffer in bytes. Zero sizes the
	// buffer from the document itself.
	FrameBufferSize int    `toml:"frame_buffer_size"`
	LogLevel        string `toml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		ListenTCP:  ":7310",
		ListenHTTP: ":7311",
		LogLevel:   "info",
	}
}

// LoadConfig reads config.toml from path, returning defaults when the file
// does not exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.ListenTCP == "" {
		cfg.ListenTCP = DefaultConfig().ListenTCP
	}
	if cfg.ListenHTTP == "" {
		cfg.ListenHTTP = DefaultConfig().ListenHTTP
	}
	return cfg, nil
}

// SaveConfig writes cfg to a TOML file at path.
func SaveConfig(cfg *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
