package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"employee-directory/internal/domain"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr     string
		Port     string
		GraphiQL bool
	}
	Log struct {
		Level  string
		Format string
	}
	Database struct {
		Driver        string
		Path          string
		MongoURI      string
		MongoDatabase string
	}
	Auth struct {
		JWTSecret        string
		ProtectEmployees bool
	}
	Storage struct {
		Bucket         string
		KeyPrefix      string
		Region         string
		Endpoint       string
		PresignMinutes int
	}
	AWS struct {
		Profile string
	}
}

// legacyEnv maps keys onto the variable names used by earlier deployments.
var legacyEnv = map[string]string{
	"auth.jwtsecret":    "JWT_SECRET",
	"database.mongouri": "MONGO_URI",
	"server.port":       "PORT",
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file in the working directory.
func Load() (Config, error) {
	_ = gotenv.Load() // optional .env, never overrides the environment

	v := viper.New()
	v.SetEnvPrefix("EMPDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("server.port", "")
	v.SetDefault("server.graphiql", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/employees.db")
	v.SetDefault("database.mongouri", "")
	v.SetDefault("database.mongodatabase", "employee_directory")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.protectemployees", false)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "employees")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.presignminutes", 15)
	v.SetDefault("aws.profile", "")

	for key, env := range legacyEnv {
		prefixed := "EMPDIR_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.Addr = listenAddr(cfg.Server.Addr, cfg.Server.Port)
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	return cfg, nil
}

// Validate reports missing operational settings as config errors.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return domain.Config("auth jwt secret is required")
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return domain.Config("database path is required")
		}
	case DriverMongo:
		if c.Database.MongoURI == "" {
			return domain.Config("mongo uri is required")
		}
	case DriverMemory:
	default:
		return domain.Config(fmt.Sprintf("unknown database driver %q", c.Database.Driver))
	}
	return nil
}

func listenAddr(addr, port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return addr
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, port)
}

