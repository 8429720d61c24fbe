package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	StoreConfig struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}

	AuthConfig struct {
		Username     string
		PasswordHash string
		TokenTTL     time.Duration
	}

	SessionConfig struct {
		Driver string // memory | redis | postgres
		File   string // CLI session marker
	}

	RedisConfig struct {
		Address  string
		Password string
		DB       int
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	QuizConfig struct {
		Driver      string // memory | redis
		InstanceTTL time.Duration
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		SecretKey    string
		RollbarToken string

		Server   ServerConfig
		Store    StoreConfig
		Auth     AuthConfig
		Session  SessionConfig
		Redis    RedisConfig
		Database DatabaseConfig
		Quiz     QuizConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "EduDarshi")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "b1t^8w#qz$k2(u)d9+m=lx7!r0y@c5e&hv3*np6_sa4-gj")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("store.baseURL", "http://localhost:5000/api")
	v.SetDefault("store.apiKey", "")
	v.SetDefault("store.timeout", 10*time.Second)

	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.passwordHash", "")
	v.SetDefault("auth.tokenTTL", 24*time.Hour)

	v.SetDefault("session.driver", "memory")
	v.SetDefault("session.file", defaultSessionFile())

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "edudarshi")
	v.SetDefault("database.user", "edudarshi")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("quiz.driver", "memory")
	v.SetDefault("quiz.instanceTTL", 24*time.Hour)
}

// NewConfig loads the configuration for the current ENV (DEV by default; TEST, QA, PROD).
// Values come from defaults, then `config/.env.<env>` if it exists, then environment
// variables prefixed with the env name (e.g. DEV_STORE_BASEURL).
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Store: StoreConfig{
			BaseURL: strings.TrimRight(v.GetString("store.baseURL"), "/"),
			APIKey:  v.GetString("store.apiKey"),
			Timeout: v.GetDuration("store.timeout"),
		},
		Auth: AuthConfig{
			Username:     v.GetString("auth.username"),
			PasswordHash: v.GetString("auth.passwordHash"),
			TokenTTL:     v.GetDuration("auth.tokenTTL"),
		},
		Session: SessionConfig{
			Driver: strings.ToLower(v.GetString("session.driver")),
			File:   v.GetString("session.file"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			Name:       v.GetString("database.name"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Quiz: QuizConfig{
			Driver:      strings.ToLower(v.GetString("quiz.driver")),
			InstanceTTL: v.GetDuration("quiz.instanceTTL"),
		},
	}
	return conf, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".edudarshi", "session")
	}
	return filepath.Join(home, ".edudarshi", "session")
}
