package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Mongo      Mongo    `yaml:"mongo"`
	Port       int      `yaml:"port"`
	JwtTTL     Duration `yaml:"jwt_ttl"`
	LogLevel   string   `yaml:"log_level"`
	LogJSON    bool     `yaml:"log_json"`
	CorsOrigin string   `yaml:"cors_origin"`
}

type Mongo struct {
	Uri            string   `yaml:"uri"`
	Database       string   `yaml:"database"`
	ConnectTimeout Duration `yaml:"connect_timeout"`
}

// Duration parses yaml values like "24h" or "10s".
// Plain integers are taken as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := unmarshal(&n); err != nil {
		return err
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
}

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return time.Duration(s.Public.JwtTTL)
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.mustValidate()
	return cfg
}

func (s *Config) mustValidate() {
	if s.Public.Mongo.Uri == "" {
		panic("config: mongo.uri is required")
	}
	if s.Public.Mongo.Database == "" {
		panic("config: mongo.database is required")
	}
	if s.Public.JwtTTL <= 0 {
		panic("config: jwt_ttl is required")
	}
	if s.private.JwtKey == "" {
		panic("config: jwt_key is required")
	}
}
