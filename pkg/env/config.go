// Package env assembles the receiver stack from configuration.
package env

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/navrx/pkg/l0/gps"
	"github.com/robotalks/navrx/pkg/l0/ring"
)

// Config is the complete configuration of the receiver stack.
type Config struct {
	DeviceID  string          `yaml:"device_id"`
	Serial    SerialConfig    `yaml:"serial"`
	Receiver  ReceiverConfig  `yaml:"receiver"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SerialConfig configures the UART and its byte queues.
type SerialConfig struct {
	Port       string `yaml:"port"`
	Baud       uint   `yaml:"baud"`
	RxCapacity int    `yaml:"rx_capacity"`
	TxCapacity int    `yaml:"tx_capacity"`
}

// ReceiverConfig configures the polling of the receiver.
type ReceiverConfig struct {
	Tick              time.Duration    `yaml:"tick"`
	PollsPerTick      int              `yaml:"polls_per_tick"`
	WatchdogTimeoutMs uint32           `yaml:"watchdog_timeout_ms"`
	AcceptBadChecksum bool             `yaml:"accept_bad_checksum"`
	Verbosity         int              `yaml:"verbosity"`
	Correction        CorrectionConfig `yaml:"correction"`
}

// CorrectionConfig is the initial error correction, in 1e-7 degrees.
type CorrectionConfig struct {
	Enable          bool  `yaml:"enable"`
	LatitudeOffset  int32 `yaml:"latitude_offset"`
	LongitudeOffset int32 `yaml:"longitude_offset"`
}

// TelemetryConfig configures the exporters. Empty MQTTURL or WebsocketAddr
// disables the exporter.
type TelemetryConfig struct {
	// MQTTURL e.g. mqtt://host:port/topic-prefix/
	MQTTURL         string        `yaml:"mqtt_url"`
	WebsocketAddr   string        `yaml:"websocket_addr"`
	PublishInterval time.Duration `yaml:"publish_interval"`
}

var (
	defaultConfig = Config{
		Serial: SerialConfig{
			Port:       "/dev/ttyS0",
			Baud:       9600,
			RxCapacity: ring.DefaultCapacity,
			TxCapacity: ring.DefaultCapacity,
		},
		Receiver: ReceiverConfig{
			Tick:              10 * time.Millisecond,
			PollsPerTick:      gps.DefaultPollsPerTick,
			WatchdogTimeoutMs: gps.DefaultWatchdogTimeout,
			Verbosity:         3,
		},
		Telemetry: TelemetryConfig{
			PublishInterval: time.Second,
		},
	}

	configFile string
)

func init() {
	if val := os.Getenv("NAVRX_MQTT_URL"); val != "" {
		defaultConfig.Telemetry.MQTTURL = val
	}
	if val := os.Getenv("NAVRX_SERIAL_PORT"); val != "" {
		defaultConfig.Serial.Port = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "YAML config file, its keys override flags.")
	flag.StringVar(&defaultConfig.DeviceID, "id", defaultConfig.DeviceID, "Device ID, machine ID by default.")
	flag.StringVar(&defaultConfig.Serial.Port, "port", defaultConfig.Serial.Port, "Serial port of the receiver.")
	flag.UintVar(&defaultConfig.Serial.Baud, "baud", defaultConfig.Serial.Baud, "Serial baud rate.")
	flag.DurationVar(&defaultConfig.Receiver.Tick, "tick", defaultConfig.Receiver.Tick, "Control loop interval.")
	flag.BoolVar(&defaultConfig.Receiver.AcceptBadChecksum, "accept-bad-checksum", defaultConfig.Receiver.AcceptBadChecksum, "Decode frames failing checksum.")
	flag.StringVar(&defaultConfig.Telemetry.MQTTURL, "mqtt", defaultConfig.Telemetry.MQTTURL, "MQTT broker URL, empty to disable.")
	flag.StringVar(&defaultConfig.Telemetry.WebsocketAddr, "ws", defaultConfig.Telemetry.WebsocketAddr, "Websocket telemetry listen address, empty to disable.")
	flag.DurationVar(&defaultConfig.Telemetry.PublishInterval, "publish-interval", defaultConfig.Telemetry.PublishInterval, "Telemetry publish interval.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config from defaults, flags and the config file.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	if configFile != "" {
		loaded, err := Load(configFile, conf)
		if err != nil {
			return nil, err
		}
		conf = loaded
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if conf.DeviceID == "" {
		conf.DeviceID = MachineID()
	}
	return &conf, nil
}

// Load reads a YAML file over base and validates the result.
func Load(path string, base Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b, base)
}

// Parse decodes YAML over base and validates the result.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Serial.Port == "" {
		return fmt.Errorf("serial.port is required")
	}
	if c.Serial.Baud == 0 {
		return fmt.Errorf("serial.baud must be > 0")
	}
	if c.Serial.RxCapacity < 2 || c.Serial.TxCapacity < 2 {
		return fmt.Errorf("serial buffer capacities must be >= 2")
	}
	if c.Receiver.Tick <= 0 {
		return fmt.Errorf("receiver.tick must be > 0")
	}
	if c.Receiver.PollsPerTick < 1 {
		return fmt.Errorf("receiver.polls_per_tick must be >= 1")
	}
	if c.Receiver.WatchdogTimeoutMs == 0 {
		return fmt.Errorf("receiver.watchdog_timeout_ms must be > 0")
	}
	if c.Telemetry.PublishInterval <= 0 {
		return fmt.Errorf("telemetry.publish_interval must be > 0")
	}
	return nil
}
