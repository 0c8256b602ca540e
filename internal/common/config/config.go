package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	// Storage selects the entity store backend: "redis" or "postgres".
	Storage string `env:"STORAGE" envDefault:"redis"`

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Postgres struct {
		URL            string `env:"DATABASE_URL" envDefault:"postgres://localhost:5432/wishmanager?sslmode=disable"`
		MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	}

	Auth struct {
		JWTSecret     string `env:"JWT_SECRET,required"`
		TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"24"`
	}

	Telegram struct {
		BotToken  string `env:"BOT_TOKEN,required"`
		WebAppURL string `env:"WEBAPP_URL" envDefault:""`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// .env file is optional; in production the variables are set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
