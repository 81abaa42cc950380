package config

import "fmt"

// knownDrivers lists the database drivers this build supports.
var knownDrivers = map[string]bool{
	"mysql":    true,
	"postgres": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !knownDrivers[c.Database.Driver] {
		return fmt.Errorf("unknown database driver %q (supported: mysql, postgres)", c.Database.Driver)
	}
	return nil
}

// ValidateDatabase checks that enough is configured to open a connection.
// Commands that never touch the database skip this.
func (c *Config) ValidateDatabase() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required\nHint: set database.name in %s, STOREAPI_DATABASE__NAME, or --db-name", ConfigFileName)
	}
	return nil
}
