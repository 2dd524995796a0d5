package config

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	ListenAddr     string        `yaml:"listen_addr"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
	Database       string        `yaml:"database"`
	Collection     string        `yaml:"collection"`
	UserServiceURL string        `yaml:"user_service_url"`
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
}

// Private holds secrets. They come from the environment only, never from a
// file checked into the repo.
type Private struct {
	MongoUsername string `env:"MONGODB_USERNAME,required"`
	MongoPassword string `env:"MONGODB_PASSWORD,required"`
	MongoCluster  string `env:"MONGODB_CLUSTER,required"`
	TokenKey      string `env:"JWT_SECRET_KEY,required"`
}

func (c *Config) TokenKey() string {
	return c.private.TokenKey
}

func (c *Config) TokenTTL() time.Duration {
	return c.Public.TokenTTL
}

// MongoURI assembles the cluster connection string from the env-sourced
// credentials.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(c.private.MongoUsername),
		url.QueryEscape(c.private.MongoPassword),
		c.private.MongoCluster)
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
	if err := env.Parse(&private); err != nil {
		panic("can't parse environment config: " + err.Error())
	}

	return &Config{public, private}
}
