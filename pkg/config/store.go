package config

import "fmt"

// Supported product store backends.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type StoreConfig struct {
	Driver string `koanf:"driver"`
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case "":
		c.Driver = StoreDriverMongo
	case StoreDriverMongo, StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Driver)
	}
	return nil
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	return fmt.Sprintf("\n--- Store ---\n  driver: %s\n", c.Driver)
}
