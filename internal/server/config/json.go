package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkovalev/authvault/internal/flagx"
	"github.com/dkovalev/authvault/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which parses both string
// values such as "15m" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr           string         `json:"endpoint_addr"`
	StorageBackend         string         `json:"storage_backend"`
	DatabaseDSN            string         `json:"database_dsn"`
	DynamoTable            string         `json:"dynamo_table"`
	DynamoRegion           string         `json:"dynamo_region"`
	DynamoEndpoint         string         `json:"dynamo_endpoint"`
	JWTSecret              string         `json:"jwt_secret"`
	JWTIssuer              string         `json:"jwt_issuer"`
	JWTAudience            string         `json:"jwt_audience"`
	AccessTokenTTL         timex.Duration `json:"access_token_ttl"`
	MaxFailedLoginAttempts int            `json:"max_failed_login_attempts"`
	APIKey                 string         `json:"api_key"`
	ClockOffset            timex.Duration `json:"clock_offset"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config flags; when neither is
// set, no JSON file is loaded. The file must be readable and valid JSON,
// otherwise the function panics.
//
// Only fields present in the file override the current Config values.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.StorageBackend != "" {
		config.StorageBackend = c.StorageBackend
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.DynamoTable != "" {
		config.DynamoTable = c.DynamoTable
	}
	if c.DynamoRegion != "" {
		config.DynamoRegion = c.DynamoRegion
	}
	if c.DynamoEndpoint != "" {
		config.DynamoEndpoint = c.DynamoEndpoint
	}
	if c.JWTSecret != "" {
		config.JWTSecret = c.JWTSecret
	}
	if c.JWTIssuer != "" {
		config.JWTIssuer = c.JWTIssuer
	}
	if c.JWTAudience != "" {
		config.JWTAudience = c.JWTAudience
	}
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = time.Duration(c.AccessTokenTTL.Duration)
	}
	if c.MaxFailedLoginAttempts != 0 {
		config.MaxFailedLoginAttempts = c.MaxFailedLoginAttempts
	}
	if c.APIKey != "" {
		config.APIKey = c.APIKey
	}
	if c.ClockOffset.Duration != 0 {
		config.ClockOffset = time.Duration(c.ClockOffset.Duration)
	}
}
