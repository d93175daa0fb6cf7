package config

import (
	"encoding/json"
	"os"
	"time"

	"shopmedia/internal/flagx"
	"shopmedia/internal/timex"
)

// JsonConfig is the DTO for JSON configuration files. timex.Duration lets
// JSON specify the expiry either as a string ("15m") or integer nanoseconds.
type JsonConfig struct {
	EndpointAddr   string         `json:"endpoint_addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	PresignExpiry  timex.Duration `json:"presign_expiry"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	PublicBaseURL  string         `json:"public_base_url"`
}

// parseJson overlays values from the JSON file named by the -c/-config
// flags, if any. No flag means no JSON is loaded; an unreadable or invalid
// file panics.
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

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.PresignExpiry = time.Duration(c.PresignExpiry.Duration)
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PublicBaseURL = c.PublicBaseURL
}
