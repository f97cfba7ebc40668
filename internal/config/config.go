package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pet-detective-service/internal/domain"
	"pet-detective-service/internal/game"
)

type DifficultyOverride struct {
	TimeLimitSeconds int     `yaml:"timeLimitSeconds"`
	OptionCount      int     `yaml:"optionCount"`
	Multiplier       float64 `yaml:"multiplier"`
}

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	Game struct {
		Difficulties map[string]DifficultyOverride `yaml:"difficulties"`
		Scoring      struct {
			BasePoints         int `yaml:"basePoints"`
			TimeBonusWindow    int `yaml:"timeBonusWindow"`
			TimeBonusPerSecond int `yaml:"timeBonusPerSecond"`
			StreakBonusStep    int `yaml:"streakBonusStep"`
			StreakBonusCap     int `yaml:"streakBonusCap"`
		} `yaml:"scoring"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Rules materializes the game tables, applying any per-difficulty or
// scoring overrides on top of the defaults. An empty game section yields
// the production tables unchanged.
func (c Config) Rules() game.Rules {
	rules := game.DefaultRules()
	for name, override := range c.Game.Difficulties {
		d := domain.Difficulty(name)
		rule, ok := rules.Difficulties[d]
		if !ok {
			continue
		}
		if override.TimeLimitSeconds > 0 {
			rule.TimeLimitSeconds = override.TimeLimitSeconds
		}
		if override.OptionCount > 0 {
			rule.OptionCount = override.OptionCount
		}
		if override.Multiplier > 0 {
			rule.Multiplier = override.Multiplier
		}
		rules.Difficulties[d] = rule
	}
	scoring := c.Game.Scoring
	if scoring.BasePoints > 0 {
		rules.BasePoints = scoring.BasePoints
	}
	if scoring.TimeBonusWindow > 0 {
		rules.TimeBonusWindow = scoring.TimeBonusWindow
	}
	if scoring.TimeBonusPerSecond > 0 {
		rules.TimeBonusPerSecond = scoring.TimeBonusPerSecond
	}
	if scoring.StreakBonusStep > 0 {
		rules.StreakBonusStep = scoring.StreakBonusStep
	}
	if scoring.StreakBonusCap > 0 {
		rules.StreakBonusCap = scoring.StreakBonusCap
	}
	return rules
}
