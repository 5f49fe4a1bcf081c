package converter

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DefaultLogLevel keeps a successful run quiet so stdout only carries the
	// session string.
	DefaultLogLevel = "warn"

	// DefaultLabel is printed before the session string when labels are
	// enabled.
	DefaultLabel = "GramJS session string:"

	envPrefix = "SESSIONPORT"
)

// OutputConfig contains settings for where and how the session string is
// written.
type OutputConfig struct {
	// File receives the session string instead of stdout when set.
	File string
	// Label enables a header line before the session string.
	Label bool
}

// Config contains all settings for a conversion run.
type Config struct {
	LogLevel uint32
	// DC selects the data-center session to export. Zero means MainDC.
	DC     int
	Output OutputConfig
}

// new Viper to parse configuration file and SESSIONPORT_* environment
// variables
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewDefaultConfig creates a new Config with default settings.
func NewDefaultConfig() *Config {
	config := &Config{}
	config.LogLevel = uint32(log.WarnLevel)
	return config
}

// GetLogLevel converts the level string to its corresponding int value. It
// returns an error if the level is invalid.
func GetLogLevel(level string) (uint32, error) {
	var l uint32
	switch strings.ToLower(level) {
	case "debug":
		l = uint32(log.DebugLevel)
	case "info":
		l = uint32(log.InfoLevel)
	case "warn":
		l = uint32(log.WarnLevel)
	case "error":
		l = uint32(log.ErrorLevel)
	default:
		return 0, fmt.Errorf("Invalid log.level setting %q", level)
	}
	return l, nil
}

// NewConfig creates a new Config with default settings and applies any
// settings from the given configuration file and the environment. An empty
// configFile only applies the environment.
func NewConfig(configFile string) (*Config, error) {
	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	config := NewDefaultConfig()

	if v.IsSet("log.level") {
		level, err := GetLogLevel(v.GetString("log.level"))
		if err != nil {
			return nil, err
		}
		config.LogLevel = level
	}

	if v.IsSet("session.dc") {
		config.DC = v.GetInt("session.dc")
	}

	if err := parseOutputConfig(config, v); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// parseOutputConfig parses the `output` section of a config file and
// populates the given Config.
func parseOutputConfig(config *Config, v *viper.Viper) error {
	if v.IsSet("output.file") {
		config.Output.File = v.GetString("output.file")
	}

	if v.IsSet("output.label") {
		config.Output.Label = v.GetBool("output.label")
	}

	return nil
}

// Validate returns an error if the Config is not usable.
func (c *Config) Validate() error {
	if c.DC < 0 {
		return fmt.Errorf("Invalid session.dc setting %d", c.DC)
	}
	return nil
}
