package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Database  Database
	Gemini    Gemini
	JWT       JWT
	Grading   Grading
	Analytics Analytics
	Log       Log
}

type Server struct {
	Port    string
	GinMode string
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // sqlite file, ":memory:" for an ephemeral database
}

type Gemini struct {
	ApiKey string
	Model  string
}

type JWT struct {
	Secret string
	Issuer string
}

// Grading holds the knobs of the grading engine.
type Grading struct {
	// SubjectivePartMarks is the max score given to a Writing/Speaking part
	// whose questions carry no marks at all.
	SubjectivePartMarks float64
}

type Analytics struct {
	TopTests int
}

type Log struct {
	Level  string
	Pretty bool
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_PATH", "ieltsprep.db")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("JWT_ISSUER", "ieltsprep")
	viper.SetDefault("GRADING_SUBJECTIVE_PART_MARKS", 10.0)
	viper.SetDefault("ANALYTICS_TOP_TESTS", 5)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.Path = viper.GetString("DATABASE_PATH")

	config.Gemini.ApiKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.Issuer = viper.GetString("JWT_ISSUER")

	config.Grading.SubjectivePartMarks = viper.GetFloat64("GRADING_SUBJECTIVE_PART_MARKS")
	config.Analytics.TopTests = viper.GetInt("ANALYTICS_TOP_TESTS")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	if config.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET is not set. Every authenticated request will be rejected.")
	}

	log.Info().Interface("config", config.Redacted()).Msg("Config loaded")
	return &config, nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.Database.Password != "" {
		c.Database.Password = "***"
	}
	if c.Gemini.ApiKey != "" {
		c.Gemini.ApiKey = "***"
	}
	if c.JWT.Secret != "" {
		c.JWT.Secret = "***"
	}
	return c
}
