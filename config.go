package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"BSA_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"BSA_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"BSA_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"BSA_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"BSA_LOG_LEVEL"`
	LogFolder          string        `yaml:"log_folder" envconfig:"BSA_LOG_FOLDER"`
	LogMaxSize         int           `yaml:"log_max_size" envconfig:"BSA_LOG_MAX_SIZE"`
	ProfilerEnable     bool          `yaml:"profiler_enable" envconfig:"BSA_PROFILER_ENABLE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"BSA_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Storage            StorageConfig `yaml:"storage"`
	S3                 S3Config      `yaml:"s3"`
	Redis              RedisConfig   `yaml:"redis"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BSA_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BSA_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BSA_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BSA_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BSA_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BSA_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects the blob backend holding the books document
// and the key under which that single document is stored.
type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"BSA_STORAGE_BACKEND"`
	Key     string `yaml:"key" envconfig:"BSA_STORAGE_KEY"`
}

type S3Config struct {
	Region          string `yaml:"region" envconfig:"BSA_S3_REGION"`
	Bucket          string `yaml:"bucket" envconfig:"BSA_S3_BUCKET"`
	Endpoint        string `yaml:"endpoint" envconfig:"BSA_S3_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" envconfig:"BSA_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"BSA_S3_SECRET_ACCESS_KEY"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BSA_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BSA_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BSA_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BSA_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BSA_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BSA_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BSA_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BSA_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BSA_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BSA_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BSA_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BSA_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BSA_BOLTDB_BUCKET_NAME"`
}

// Supported blob backends.
const (
	S3Backend    = "s3"
	RedisBackend = "redis"
	BoltBackend  = "bolt"
)

// DefaultBooksKey is the blob key holding the books document.
const DefaultBooksKey = "books.json"

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Storage.Key) == 0 {
		config.Storage.Key = DefaultBooksKey
	}

	switch config.Storage.Backend {
	case "":
		config.Storage.Backend = S3Backend
		fallthrough
	case S3Backend:
		if len(config.S3.Bucket) == 0 {
			return errors.New("make sure to set a valid s3 bucket name in configuration file")
		}
	case RedisBackend:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	case BoltBackend:
		if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set valid boltdb file path and bucket name in configuration file")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", config.Storage.Backend)
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BSA`.
	err = LoadConfigEnvs("BSA", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
