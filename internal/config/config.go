package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Auth     AuthConfig
	CEP      CEPConfig
	Rental   RentalConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type MetricsConfig struct {
	Enabled bool
}

type AuthConfig struct {
	JWTSecret string
}

type CEPConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RentalConfig struct {
	TxTimeout        time.Duration
	MaxRetryAttempts int
	PolicyFile       string
}

// RentalPolicy holds the business rules that operators tune without a rebuild.
type RentalPolicy struct {
	BufferDays      int      `yaml:"bufferDays"`
	AlertWindowDays int      `yaml:"alertWindowDays"`
	AgendaDays      int      `yaml:"agendaDays"`
	FinancialRoles  []string `yaml:"financialRoles"`
}

func DefaultRentalPolicy() RentalPolicy {
	return RentalPolicy{
		BufferDays:      2,
		AlertWindowDays: 3,
		AgendaDays:      10,
		FinancialRoles:  []string{"admin", "manager"},
	}
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "locatrajes")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "locatrajes")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("CEP_BASE_URL", "https://viacep.com.br/ws")
	viper.SetDefault("CEP_TIMEOUT", "5s")
	viper.SetDefault("RENTAL_TX_TIMEOUT", "5s")
	viper.SetDefault("RENTAL_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("RENTAL_POLICY_FILE", "internal/config/policy.yaml")

	readTimeout, err := time.ParseDuration(viper.GetString("SERVER_READ_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	writeTimeout, err := time.ParseDuration(viper.GetString("SERVER_WRITE_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := time.ParseDuration(viper.GetString("SERVER_SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	cepTimeout, err := time.ParseDuration(viper.GetString("CEP_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	txTimeout, err := time.ParseDuration(viper.GetString("RENTAL_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetInt("SERVER_PORT"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
		},
		CEP: CEPConfig{
			BaseURL: viper.GetString("CEP_BASE_URL"),
			Timeout: cepTimeout,
		},
		Rental: RentalConfig{
			TxTimeout:        txTimeout,
			MaxRetryAttempts: viper.GetInt("RENTAL_MAX_RETRY_ATTEMPTS"),
			PolicyFile:       viper.GetString("RENTAL_POLICY_FILE"),
		},
	}

	return cfg, nil
}
