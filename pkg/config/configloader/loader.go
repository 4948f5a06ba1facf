// Package configloader assembles a service configuration from defaults, a YAML file,
// a .env file and the process environment, in increasing order of priority.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Validator interface {
	Validate() error
}

// Defaulter is implemented by configurations that provide fallback values.
// Keys use the lowercase koanf dot notation, e.g. "server.maxheaderbytes".
type Defaulter interface {
	Defaults() map[string]any
}

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

// Load builds a configuration of type T for the given service.
// Environment variables are expected as <SERVICE>_<SECTION>_<KEY>, e.g. PRODUCT_SERVER_PORT.
// The YAML file location can be overridden with <SERVICE>_CONFIG_FILE.
func Load[T Validator](serviceName string) (T, error) {
	return load[T](serviceName, os.Getenv)
}

func load[T Validator](serviceName string, getenv func(string) string) (T, error) {
	var cfg T
	k := koanf.New(".")

	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))
	configFile := defaultConfigFile
	if override := getenv(envPrefix + "CONFIG_FILE"); override != "" {
		configFile = override
	}

	// 0. Defaults, the lowest priority
	if d, ok := any(cfg).(Defaulter); ok {
		if err := k.Load(confmap.Provider(d.Defaults(), "."), nil); err != nil {
			return cfg, fmt.Errorf("error loading defaults: %w", err)
		}
	}

	// 1. Load configuration from yaml file
	if err := loadLowercase(k, file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	envTransformer := keyTransformer(envPrefix)

	// 2. Load environment variables from .env file
	if envFileMap, err := godotenv.Read(defaultEnvFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				continue
			}
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	// 4. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 5. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// keyTransformer maps PRODUCT_SERVER_PORT to server.port.
func keyTransformer(envPrefix string) func(string) string {
	prefix := strings.ToLower(envPrefix)
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, prefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}

// loadLowercase merges a provider into k with every key lowercased, so that
// camelCase YAML keys and env-derived keys address the same entry.
func loadLowercase(k *koanf.Koanf, p koanf.Provider, pa koanf.Parser) error {
	src := koanf.New(".")
	if err := src.Load(p, pa); err != nil {
		return err
	}
	flat := src.All()
	lower := make(map[string]any, len(flat))
	for key, value := range flat {
		lower[strings.ToLower(key)] = value
	}
	return k.Load(confmap.Provider(lower, "."), nil)
}
