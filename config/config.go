// Package config loads host configuration for function triggers from TOML
// files, .env files, and environment variables.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// BaseConfig contains the settings a trigger host needs. Applications can
// embed this in their own config structs to inherit them.
type BaseConfig struct {
	// HTTPPort is where the function endpoint listens. The PORT variable is
	// the convention cloud runtimes use to assign it.
	HTTPPort   int `toml:"http_port" env:"PORT"`
	HealthPort int `toml:"health_port" env:"HEALTH_PORT"`

	// Target is the name of the deployed function, stamped into each
	// invocation's metadata.
	Target string `toml:"target" env:"FUNCTION_TARGET"`

	LogLevel      string `toml:"log_level" env:"LOG_LEVEL"`
	Environment   string `toml:"environment" env:"ENVIRONMENT"`
	StaticCompose bool   `toml:"static_compose" env:"STATIC_COMPOSE"`
}

// Loader handles loading configuration from TOML files and environment
// variables, with an optional .env file feeding the environment first.
type Loader struct {
	configPath string
	envFile    string
}

// NewLoader creates a new config loader for the specified TOML file path.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// WithEnvFile makes Load read the given dotenv file into the process
// environment before applying overrides. A missing file is not an error, so
// deployments without one work unchanged.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load reads the TOML configuration file and unmarshals it into the provided
// config struct, then applies environment variable overrides for any fields
// with an `env` tag. The config parameter must be a pointer to a struct.
func (l *Loader) Load(config interface{}) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	// Ensure config is a pointer to a struct
	rv := reflect.ValueOf(config)
	if rv.Kind() != reflect.Ptr {
		return fmt.Errorf("config must be a pointer to a struct, got %T", config)
	}
	if rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config must be a pointer to a struct, got pointer to %v", rv.Elem().Kind())
	}

	// Load TOML file
	if _, err := toml.DecodeFile(l.configPath, config); err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, continue with zero values and env overrides
		} else {
			return fmt.Errorf("failed to decode TOML file %s: %w", l.configPath, err)
		}
	}

	// Feed the environment from the .env file before reading overrides.
	// Variables already set in the environment win over the file.
	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load env file %s: %w", l.envFile, err)
		}
	}

	// Apply environment variable overrides
	if err := applyEnvOverrides(rv.Elem()); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return nil
}

// applyEnvOverrides recursively walks through struct fields and applies
// environment variable overrides for any field with an `env` tag.
func applyEnvOverrides(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Skip unexported fields
		if !field.CanSet() {
			continue
		}

		// If the field is a struct, recurse into it
		if field.Kind() == reflect.Struct {
			if err := applyEnvOverrides(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}

		if err := setFieldFromString(field, envValue, fieldType.Name); err != nil {
			return fmt.Errorf("failed to set field %s from env %s: %w", fieldType.Name, envTag, err)
		}
	}

	return nil
}

// setFieldFromString sets a struct field value from a string based on the
// field's type.
func setFieldFromString(field reflect.Value, value string, fieldName string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as int for field %s: %w", value, fieldName, err)
		}
		field.SetInt(intVal)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintVal, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as uint for field %s: %w", value, fieldName, err)
		}
		field.SetUint(uintVal)
		return nil

	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cannot parse %q as bool for field %s: %w", value, fieldName, err)
		}
		field.SetBool(boolVal)
		return nil

	case reflect.Float32, reflect.Float64:
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as float for field %s: %w", value, fieldName, err)
		}
		field.SetFloat(floatVal)
		return nil

	default:
		return fmt.Errorf("unsupported field type %v for field %s", field.Kind(), fieldName)
	}
}
