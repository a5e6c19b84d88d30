package geolib

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultDriver is a name of the provider which is used if Config does
// not specify any.
const DefaultDriver = "ip-api"

// Config selects and parametrizes exactly one provider.
type Config struct {
	Driver  string  `json:"driver" toml:"driver"`
	Options Options `json:"options" toml:"options"`
}

// GetDriver returns a name of the driver to use.
func (c Config) GetDriver() string {
	if c.Driver != "" {
		return c.Driver
	}

	return DefaultDriver
}

// GetOptions returns options of the driver. It never returns nil.
func (c Config) GetOptions() Options {
	if c.Options == nil {
		return Options{}
	}

	return c.Options
}

// Options is a set of driver-specific parameters. Values usually come
// from decoded configuration files so getters are lenient: numbers
// may come as strings and durations as numbers of seconds.
type Options map[string]interface{}

// String returns a string option or an empty string.
func (o Options) String(key string) string {
	switch value := o[key].(type) {
	case nil:
		return ""
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}

// Bool returns a boolean option. Strings like "yes", "true", "1" and
// "enabled" are treated as true.
func (o Options) Bool(key string) bool {
	switch value := o[key].(type) {
	case bool:
		return value
	case string:
		switch strings.ToLower(value) {
		case "1", "true", "enabled", "yes":
			return true
		}
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	}

	return false
}

// Int returns an integer option or a default value if option is absent
// or cannot be parsed.
func (o Options) Int(key string, defaultValue int) int {
	switch value := o[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	case string:
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}

	return defaultValue
}

// Duration returns a duration option. It accepts strings in
// time.ParseDuration format or numbers of seconds.
func (o Options) Duration(key string, defaultValue time.Duration) time.Duration {
	switch value := o[key].(type) {
	case time.Duration:
		return value
	case int:
		return time.Duration(value) * time.Second
	case int64:
		return time.Duration(value) * time.Second
	case float64:
		return time.Duration(value * float64(time.Second))
	case string:
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}

	return defaultValue
}
