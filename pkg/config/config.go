package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/backsoul/quizgate/pkg/store"
)

// DefaultSourceText banco de ejemplo cuando no hay texto guardado
const DefaultSourceText = "中国的首都是哪里？\nA. 上海\nB. 北京\nC. 广州\n#B\n\n天空是什么颜色？\nA. 蓝色\nB. 绿色\nC. 红色\n#A\n\n一年有几个月？\nA. 10\nB. 12\nC. 14\n#B"

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Redis  RedisConfig
	Quiz   QuizConfig
	Admin  AdminConfig
	AI     AIConfig
	Log    LogConfig
}

type ServerConfig struct {
	Addr string
	// Mode "debug" activa logs de depuración
	Mode string
	// CountdownInterval cada cuánto se difunde la cuenta regresiva por websocket
	CountdownInterval time.Duration `mapstructure:"countdown_interval"`
}

type StoreConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type QuizConfig struct {
	Cooldown             time.Duration
	DefaultRequiredCount int    `mapstructure:"default_required_count"`
	DefaultRewardCode    string `mapstructure:"default_reward_code"`
	DefaultSourceText    string `mapstructure:"default_source_text"`
}

type AdminConfig struct {
	Password     string
	PasswordHash string        `mapstructure:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	// LoginsPerMinute intentos de login permitidos por minuto
	LoginsPerMinute int `mapstructure:"logins_per_minute"`
}

type AIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	File string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.countdown_interval", time.Second)

	v.SetDefault("store.driver", string(store.DriverSQLite))
	v.SetDefault("store.dsn", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("quiz.cooldown", 60*time.Second)
	v.SetDefault("quiz.default_required_count", 3)
	v.SetDefault("quiz.default_reward_code", "884512")
	v.SetDefault("quiz.default_source_text", DefaultSourceText)

	v.SetDefault("admin.password", "adminadmin")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.token_ttl", 30*time.Minute)
	v.SetDefault("admin.logins_per_minute", 10)

	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", 60*time.Second)

	v.SetDefault("log.file", "logs/quizgate.log")
}

// LoadConfig carga config.yaml desde path (opcional) y variables QUIZGATE_*
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("QUIZGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// compatibilidad con el despliegue anterior
	_ = v.BindEnv("redis.addr", "QUIZGATE_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "QUIZGATE_REDIS_PASSWORD", "REDIS_PASSWORD")
	_ = v.BindEnv("ai.api_key", "QUIZGATE_AI_API_KEY", "AI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error leyendo config.yaml")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error deserializando configuración")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reúne todos los problemas de la configuración
func (c *Config) Validate() error {
	var result *multierror.Error

	switch store.Driver(c.Store.Driver) {
	case store.DriverMemory, store.DriverRedis, store.DriverSQLite, store.DriverPostgres:
	default:
		result = multierror.Append(result, fmt.Errorf("store.driver: valor no soportado %q", c.Store.Driver))
	}
	if c.Quiz.Cooldown < 0 {
		result = multierror.Append(result, fmt.Errorf("quiz.cooldown: no puede ser negativo (%s)", c.Quiz.Cooldown))
	}
	if c.Quiz.DefaultRequiredCount < 0 {
		result = multierror.Append(result, fmt.Errorf("quiz.default_required_count: no puede ser negativo (%d)", c.Quiz.DefaultRequiredCount))
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		result = multierror.Append(result, errors.New("admin: se requiere password o password_hash"))
	}
	if c.Admin.TokenTTL <= 0 {
		result = multierror.Append(result, fmt.Errorf("admin.token_ttl: debe ser positivo (%s)", c.Admin.TokenTTL))
	}
	if c.Admin.LoginsPerMinute <= 0 {
		result = multierror.Append(result, fmt.Errorf("admin.logins_per_minute: debe ser positivo (%d)", c.Admin.LoginsPerMinute))
	}
	if c.Server.CountdownInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("server.countdown_interval: debe ser positivo (%s)", c.Server.CountdownInterval))
	}

	return result.ErrorOrNil()
}

// StoreOptions opciones para store.Open
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Driver:        store.Driver(c.Store.Driver),
		DSN:           c.Store.DSN,
		RedisAddr:     c.Redis.Addr,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
	}
}
