package config

const EnvironmentProduction = "production"

// ServiceConfig.ClientURL is the front-end origin used to build checkout
// redirect URLs.
type ServiceConfig struct {
	Name                 string   `yaml:"name"`
	Environment          string   `yaml:"environment"`
	Version              string   `yaml:"version"`
	ClientURL            string   `yaml:"client_url"`
	EnableAdminEndpoints bool     `yaml:"enable_admin_endpoints"`
	CORSAllowOrigins     []string `yaml:"cors_allow_origins"`
}

type EventsConfig struct {
	Channel string `yaml:"channel"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled reports whether verified webhook events should be published.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}
