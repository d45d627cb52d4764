package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/notevault/internal/flagx"
	"github.com/dmitrijs2005/notevault/internal/timex"
)

// ConfigEnvVar names the environment variable consulted when no -c/-config
// flag is given.
const ConfigEnvVar = "NOTEVAULT_CLIENT_CONFIG"

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	ExportDir          *string         `json:"export_dir"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The path comes from -c/-config, or from NOTEVAULT_CLIENT_CONFIG. Without a
// path nothing is loaded. Read and unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(ConfigEnvVar)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.ExportDir != nil {
		cfg.ExportDir = *jc.ExportDir
	}
}
