package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cosignet/internal/flagx"
	"github.com/dmitrijs2005/cosignet/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct.
type JsonConfig struct {
	AnchorBaseURL  string         `json:"anchor_base_url"`
	AnchorSecret   string         `json:"anchor_secret"`
	DatabaseDSN    string         `json:"database_dsn"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flags, if any. Missing flag means no JSON file is loaded. An
// unreadable or invalid file panics: a config the user pointed at must not
// be silently skipped.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.AnchorBaseURL != "" {
		config.AnchorBaseURL = c.AnchorBaseURL
	}
	if c.AnchorSecret != "" {
		config.AnchorSecret = c.AnchorSecret
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
}
