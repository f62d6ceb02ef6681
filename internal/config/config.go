package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	JWT      JWT
	Storage  Storage
	Limits   Limits
	Presence Presence
}

type Server struct {
	Port string
	Env  string
	// AllowedOrigins restricts websocket upgrades; empty allows any origin.
	AllowedOrigins []string
}

type Database struct {
	URL string
}

type Redis struct {
	URL string
}

type JWT struct {
	Secret string
	TTL    time.Duration
}

type Storage struct {
	Type      string // local, s3
	BasePath  string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Limits bounds user input and the kick quorum.
type Limits struct {
	ChannelNameMin   int
	ChannelNameMax   int
	MessageMaxLength int
	MaxFileCount     int
	MaxFileSize      int64
	MessageBatchSize int
	KickQuorum       int
}

type Presence struct {
	ReconcileInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.basepath", "./storage")
	v.SetDefault("limits.channelnamemin", 3)
	v.SetDefault("limits.channelnamemax", 50)
	v.SetDefault("limits.messagemaxlength", 2000)
	v.SetDefault("limits.maxfilecount", 10)
	v.SetDefault("limits.maxfilesize", 10*1024*1024)
	v.SetDefault("limits.messagebatchsize", 20)
	v.SetDefault("limits.kickquorum", 3)
	v.SetDefault("presence.reconcileinterval", time.Minute)
}

// env aliases keep the variable names the deployment already uses.
var envAliases = map[string]string{
	"server.port":           "PORT",
	"server.env":            "SERVER_ENV",
	"server.allowedorigins": "ALLOWED_ORIGINS",
	"database.url":          "DATABASE_URL",
	"redis.url":             "REDIS_URL",
	"jwt.secret":            "JWT_SECRET",
}

// Load reads .env.local / .env (both optional) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	return Parse(v)
}

func Parse(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if c.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &c, nil
}

// DefaultLimits mirrors the defaults above for callers without a viper instance.
func DefaultLimits() Limits {
	return Limits{
		ChannelNameMin:   3,
		ChannelNameMax:   50,
		MessageMaxLength: 2000,
		MaxFileCount:     10,
		MaxFileSize:      10 * 1024 * 1024,
		MessageBatchSize: 20,
		KickQuorum:       3,
	}
}
