package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Cache    CacheConfig    `yaml:"cache"`
	Storage  StorageConfig  `yaml:"storage"`
	Editor   EditorConfig   `yaml:"editor"`
	Features FeaturesConfig `yaml:"features"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
}

type SiteConfig struct {
	Name        string `yaml:"name" default:"Portfolio"`
	Description string `yaml:"description" default:"Projects, writing and resume"`
	Author      string `yaml:"author" default:""`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"12600"`
}

// APIConfig points at the backend that owns posts, projects and logins.
type APIConfig struct {
	BaseURL        string `yaml:"base_url" default:"http://localhost:5000"`
	Token          string `yaml:"token" default:""`
	TimeoutSeconds int    `yaml:"timeout_seconds" default:"10"`
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type CacheConfig struct {
	// Driver is one of "memory", "redis" or "none".
	Driver     string      `yaml:"driver" default:"memory"`
	TTLSeconds int         `yaml:"ttl_seconds" default:"300"`
	Redis      RedisConfig `yaml:"redis"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type RedisConfig struct {
	Addrs    []string `yaml:"addrs" default:"localhost:6379"`
	Prefix   string   `yaml:"prefix" default:"folio:"`
	PoolSize int      `yaml:"pool_size" default:"10"`
	Compress bool     `yaml:"compress" default:"true"`
}

type StorageConfig struct {
	// Driver is one of "sqlite" or "memory".
	Driver      string `yaml:"driver" default:"sqlite"`
	Path        string `yaml:"path" default:"./folio.db"`
	ResumeKey   string `yaml:"resume_key" default:"resume_info"`
	MessagesKey string `yaml:"messages_key" default:"contact_messages"`
}

type EditorConfig struct {
	ImageSlots  int    `yaml:"image_slots" default:"3"`
	SyntaxTheme string `yaml:"syntax_theme" default:"gruvbox"`
}

type FeaturesConfig struct {
	Authentication AuthConfig  `yaml:"authentication"`
	Events         FeatureFlag `yaml:"events"`
	Preview        FeatureFlag `yaml:"preview"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
	// SessionHours bounds how long an admin login cookie stays valid.
	SessionHours int `yaml:"session_hours" default:"12"`
}

type FeatureFlag struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

var AppConfig *Config

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		ApplyEnv(config)
		return config, nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyEnv(config)
	return config, nil
}

func LoadConfig(path string) error {
	config, err := Load(path)
	if err != nil {
		return err
	}

	AppConfig = config
	return nil
}

// ApplyEnv lets deployment secrets override the file.
func ApplyEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok && v != "" {
		config.API.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvAPIToken); ok {
		config.API.Token = v
	}
	if v, ok := os.LookupEnv(EnvRedisAddrs); ok && v != "" {
		config.Cache.Redis.Addrs = splitCSV(v)
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		config.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		config.Server.Port = v
	}
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := splitCSV(defaultValue)
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(part)
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
