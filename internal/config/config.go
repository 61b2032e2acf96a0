// Package config loads the discourse parser's on-disk configuration: the
// beam search bounds and the HTTP service's listen address and JWT signing
// material, backed by github.com/BurntSushi/toml.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/mmelodious/discourse-parsing/internal/rst"
)

// Config is the discourse parser's full on-disk configuration.
type Config struct {
	Beam   BeamConfig   `toml:"beam"`
	Server ServerConfig `toml:"server"`
}

// BeamConfig mirrors rst.Config's fields with toml tags, so it can be loaded
// directly from a config file and handed to rst.NewBeam.
type BeamConfig struct {
	MaxActs                   int  `toml:"max_acts"`
	MaxStates                 int  `toml:"max_states"`
	NBest                     int  `toml:"n_best"`
	ScoresAreLogProbabilities bool `toml:"scores_are_log_probabilities"`
}

// RST converts b to an rst.Config.
func (b BeamConfig) RST() rst.Config {
	return rst.Config{
		MaxActs:                   b.MaxActs,
		MaxStates:                 b.MaxStates,
		NBest:                     b.NBest,
		ScoresAreLogProbabilities: b.ScoresAreLogProbabilities,
	}
}

// ServerConfig holds the httpapi listen address, storage directory, and JWT
// signing secret path.
type ServerConfig struct {
	ListenAddress string `toml:"listen_address"`
	StorageDir    string `toml:"storage_dir"`
	JWTSecretFile string `toml:"jwt_secret_file"`
}

// Default returns the configuration used when no file is supplied: a
// narrow beam suited to interactive use (max_acts=3, max_states=4,
// n_best=1), listening on localhost.
func Default() Config {
	return Config{
		Beam: BeamConfig{
			MaxActs:   3,
			MaxStates: 4,
			NBest:     1,
		},
		Server: ServerConfig{
			ListenAddress: "localhost:8080",
			StorageDir:    "./data",
			JWTSecretFile: "./jwt.secret",
		},
	}
}

// Load reads and parses the toml configuration file at path, starting from
// Default() so a partial file only overrides what it mentions.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
