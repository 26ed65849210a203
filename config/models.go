package config

import "time"

// Submission policies for concurrent prompts.
const (
	PolicyLastResolved = "last-resolved"
	PolicySupersede    = "supersede"
)

// Config holds the application configuration.
type Config struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Policy        string        `mapstructure:"policy"`
	ListenAddress string        `mapstructure:"listen_address"`
	Debug         bool          `mapstructure:"debug"`
}
