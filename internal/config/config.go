package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 0.001
	DefaultSteps     = 10000
	DefaultParticles = 64
	DefaultKT        = 1.0
	DefaultTau       = 0.1
	DefaultGamma     = 10.0
	DefaultK         = 1.0
)

type Config struct {
	Scheme     string           `yaml:"scheme"`
	Model      string           `yaml:"model"`
	Particles  int              `yaml:"particles"`
	Dt         float64          `yaml:"dt"`
	Steps      int              `yaml:"steps"`
	Seed       int64            `yaml:"seed"`
	Loops      []int            `yaml:"loops,omitempty"`
	Nsy        int              `yaml:"nsy,omitempty"`
	Thermostat ThermostatConfig `yaml:"thermostat"`
	Forces     ForcesConfig     `yaml:"forces"`
}

type ThermostatConfig struct {
	KT     float64 `yaml:"kt"`
	Tau    float64 `yaml:"tau"`
	Gamma  float64 `yaml:"gamma"`
	NLoops int     `yaml:"nloops"`
}

type ForcesConfig struct {
	K     float64 `yaml:"k"`
	KFast float64 `yaml:"k_fast"`
	KSlow float64 `yaml:"k_slow"`
}

func DefaultConfig() *Config {
	return &Config{
		Scheme:    "verlet",
		Model:     "harmonic",
		Particles: DefaultParticles,
		Dt:        DefaultDt,
		Steps:     DefaultSteps,
		Thermostat: ThermostatConfig{
			KT:     DefaultKT,
			Tau:    DefaultTau,
			Gamma:  DefaultGamma,
			NLoops: 1,
		},
		Forces: ForcesConfig{
			K:     DefaultK,
			KFast: 4 * DefaultK,
			KSlow: DefaultK / 4,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Steps)
	}
	if c.Particles <= 0 {
		return fmt.Errorf("config: particles must be positive, got %d", c.Particles)
	}
	for _, n := range c.Loops {
		if n < 1 {
			return fmt.Errorf("config: loop counts must be at least 1, got %d", n)
		}
	}
	switch c.Nsy {
	case 0, 1, 3, 7, 15:
	default:
		return fmt.Errorf("config: nsy must be 1, 3, 7 or 15, got %d", c.Nsy)
	}
	return nil
}

// Dof reports the number of thermalized degrees of freedom: one per
// particle, minus one for the pinned center of mass.
func (c *Config) Dof() int {
	if c.Particles <= 1 {
		return c.Particles
	}
	return c.Particles - 1
}
