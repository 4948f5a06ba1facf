// Package config defines the configuration of the product service.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/productcrud/pkg/config"
	"github.com/abgdnv/productcrud/pkg/config/configloader"
)

var (
	_ configloader.Validator = (*Config)(nil)
	_ configloader.Defaulter = (*Config)(nil)
)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Store      config.StoreConfig      `koanf:"store"`
	Mongo      config.MongoConfig      `koanf:"mongo"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
}

// Defaults returns the values used when neither the YAML file nor the environment sets a key.
func (c *Config) Defaults() map[string]any {
	return map[string]any{
		"server.port":               8080,
		"server.maxheaderbytes":     1 << 20,
		"server.validationstatus":   500,
		"server.timeout.read":       "5s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "60s",
		"server.timeout.readheader": "2s",
		"store.driver":              config.StoreDriverMongo,
		"mongo.database":            "products",
		"mongo.collection":          "products",
		"mongo.timeout":             "10s",
		"database.timeout":          "10s",
		"log.level":                 "info",
		"grpc.port":                 "50051",
		"grpc.healthinterval":       "10s",
		"shutdown.timeout":          "10s",
		"nats.timeout":              "5s",
		"nats.stream":               "PRODUCTS",
		"resilience.circuitbreaker.consecutivefailures": 5,
		"resilience.circuitbreaker.errorratepercent":    50,
		"resilience.circuitbreaker.opentimeout":         "30s",
	}
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Store.String())
	switch c.Store.Driver {
	case config.StoreDriverMongo:
		b.WriteString(c.Mongo.String())
	case config.StoreDriverPostgres:
		b.WriteString(c.Database.String())
	}
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid.
// Backend sections are only checked for the selected store driver.
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case config.StoreDriverMongo:
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	case config.StoreDriverPostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if err := c.NATS.Validate(); err != nil {
		return err
	}
	if err := c.Resilience.Validate(); err != nil {
		return fmt.Errorf("resilience: %w", err)
	}
	return nil
}
