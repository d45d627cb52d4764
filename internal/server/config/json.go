package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/notevault/internal/flagx"
	"github.com/dmitrijs2005/notevault/internal/timex"
)

// ConfigEnvVar names the environment variable consulted when no -c/-config
// flag is given.
const ConfigEnvVar = "NOTEVAULT_CONFIG"

// JsonConfig is the on-disk shape of the server configuration. Durations use
// timex.Duration so both "1h" and integer nanoseconds are accepted.
//
// Pointer fields distinguish "absent" from zero, so a partial file only
// overrides the keys it names.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	SessionValidityDuration      *timex.Duration `json:"session_validity_duration"`
	PendingLoginValidityDuration *timex.Duration `json:"pending_login_validity_duration"`
	MinPasswordLength            *int            `json:"min_password_length"`
	BcryptCost                   *int            `json:"bcrypt_cost"`
	TOTPIssuer                   *string         `json:"totp_issuer"`
	PasskeyRPID                  *string         `json:"passkey_rp_id"`
	PasskeyOrigin                *string         `json:"passkey_origin"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	LogBackend                   *string         `json:"log_backend"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from -c/-config, or from NOTEVAULT_CONFIG when no flag
// is present. Without a path nothing is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(ConfigEnvVar)

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

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.PendingLoginValidityDuration != nil {
		config.PendingLoginValidityDuration = c.PendingLoginValidityDuration.Duration
	}
	if c.MinPasswordLength != nil {
		config.MinPasswordLength = *c.MinPasswordLength
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	setString(&config.TOTPIssuer, c.TOTPIssuer)
	setString(&config.PasskeyRPID, c.PasskeyRPID)
	setString(&config.PasskeyOrigin, c.PasskeyOrigin)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogBackend, c.LogBackend)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
