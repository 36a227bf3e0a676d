package session

import "github.com/seedcraft/fluxmcp/internal/platform/config"

// StorageConfig caps the session stores. Zero values leave the matching
// dimension unbounded. The byte ceiling applies to each store independently.
type StorageConfig struct {
	MaxModels        int   `env:"FLUXMCP_MAX_MODELS"         envDefault:"0"`
	MaxMedia         int   `env:"FLUXMCP_MAX_MEDIA"          envDefault:"0"`
	MaxArtifactBytes int64 `env:"FLUXMCP_MAX_ARTIFACT_BYTES" envDefault:"0"`
}

// LoadConfig reads the storage configuration from the environment. It is
// called once at process start; the result is handed to New.
func LoadConfig() (StorageConfig, error) {
	var cfg StorageConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return StorageConfig{}, err
	}
	return cfg, nil
}
