package config

import (
	"encoding/json"
	"os"
	"time"

	"shopmedia/internal/flagx"
	"shopmedia/internal/timex"
)

// JsonConfig is the DTO for JSON configuration files. It relies on
// timex.Duration so JSON can specify intervals either as strings ("30s")
// or as integer nanoseconds.
type JsonConfig struct {
	AuthorityBaseURL string         `json:"authority_base_url"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
}

// parseJson overlays values from the JSON file named by the -c/-config
// flags, if any. A missing flag means no JSON is loaded; an unreadable or
// invalid file panics, matching flag-parse behavior.
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

	config.AuthorityBaseURL = c.AuthorityBaseURL
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
}
