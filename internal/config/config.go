package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

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
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Quiz QuizConfig `yaml:"quiz"`
}

// QuizConfig holds the session tunables.
type QuizConfig struct {
	Pool                 string `yaml:"pool"`
	QuestionsDir         string `yaml:"questionsDir"`
	TTL                  string `yaml:"ttl"`
	DefaultQuestionCount int    `yaml:"defaultQuestionCount"`
	QuestionCountOptions []int  `yaml:"questionCountOptions"`
	Seed                 int64  `yaml:"seed"`
}

// Default returns the configuration used when no file overrides a value.
func Default() Config {
	cfg := Config{}
	cfg.Quiz = QuizConfig{
		Pool:                 "civics",
		QuestionsDir:         "data",
		DefaultQuestionCount: 40,
		QuestionCountOptions: []int{10, 20, 40, 80},
	}
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects quiz settings the state machine cannot use.
func (c Config) Validate() error {
	if c.Quiz.DefaultQuestionCount <= 0 {
		return fmt.Errorf("quiz.defaultQuestionCount must be positive, got %d", c.Quiz.DefaultQuestionCount)
	}
	for _, n := range c.Quiz.QuestionCountOptions {
		if n <= 0 {
			return fmt.Errorf("quiz.questionCountOptions must be positive, got %d", n)
		}
	}
	if c.Quiz.Pool == "" {
		return fmt.Errorf("quiz.pool must not be empty")
	}
	return nil
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
