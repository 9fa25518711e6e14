package config

import "github.com/wekeepgrowing/trendloop-checkout/pkg/logger"

// LoggerConfig maps the log section onto pkg/logger settings. Development
// encoding is used outside production when the format is console.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       c.Log.Level,
		Format:      c.Log.Format,
		Output:      c.Log.Output,
		Development: c.Service.Environment != EnvironmentProduction && c.Log.Format == "console",
	}
}
