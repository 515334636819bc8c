package utils

import (
	"errors"
	"os"

	"github.com/iotali/rrpc-harness/pkg/file"
)

// Config represents the structure of the configuration file.
type Config struct {
	Server struct {
		BaseURL string `yaml:"base_url"` // Relay server base URL
		Token   string `yaml:"token"`    // API token sent in the token header
	} `yaml:"server"`

	Device struct {
		ProductKey string `yaml:"product_key"` // Product key of the target device
		DeviceName string `yaml:"device_name"` // Name of the target device
	} `yaml:"device"`

	Harness struct {
		DeviceTimeout int64 `yaml:"device_timeout"` // Per-call device timeout (in milliseconds)
		CallDelay     int64 `yaml:"call_delay"`     // Pause between scenarios (in seconds)
	} `yaml:"harness"`

	MQTT struct {
		Broker        string `yaml:"broker"`         // MQTT broker address
		ClientID      string `yaml:"client_id"`      // MQTT client ID
		CACertificate string `yaml:"ca_certificate"` // Path to the CA certificate, empty for no TLS
		QOS           int    `yaml:"qos"`            // MQTT QoS level for RRPC messages
	} `yaml:"mqtt"`

	Simulator struct {
		ProductKey string `yaml:"product_key"` // Product key the simulator answers for
		DeviceName string `yaml:"device_name"` // Device name the simulator answers for
	} `yaml:"simulator"`
}

// LoadConfig loads the YAML configuration from the specified file. The
// RRPC_TOKEN environment variable overrides the configured API token, so
// credentials never have to live in the file.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	err := fileClient.ReadYamlFile(filename, &config)
	if err != nil {
		return nil, err
	}

	if token := os.Getenv("RRPC_TOKEN"); token != "" {
		config.Server.Token = token
	}

	if config.Server.BaseURL == "" {
		return nil, errors.New("server.base_url is required")
	}

	return &config, nil
}
