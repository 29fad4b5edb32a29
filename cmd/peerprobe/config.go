package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings that can be loaded from a YAML file.
// Command-line flags parsed after --config override these values.
type Config struct {
	Dir       string   `yaml:"dir"`
	DB        string   `yaml:"db"`
	Network   string   `yaml:"network"`
	Node      string   `yaml:"node"`
	Bind      []string `yaml:"bind"`
	Crawl     int      `yaml:"crawl"`
	MaxTime   Duration `yaml:"maxtime"`
	TrimEvery Duration `yaml:"trim"`
}

func DefaultConfig() *Config {
	return &Config{
		Dir:       DefaultStorage,
		DB:        DBFile,
		Network:   DefaultNetwork,
		Crawl:     2,
		MaxTime:   Duration(5 * time.Minute),
		TrimEvery: Duration(time.Hour),
	}
}

func (c *Config) Load(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("--config: %v", err)
	}
	return c.Parse(data)
}

func (c *Config) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("--config: %v", err)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Crawl < 0 {
		return fmt.Errorf("--config: crawl must not be negative: %v", c.Crawl)
	}
	if c.MaxTime < 0 {
		return fmt.Errorf("--config: maxtime must not be negative: %v", time.Duration(c.MaxTime))
	}
	return nil
}

// Duration is a time.Duration written as "90s", "5m" etc. in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %v", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
