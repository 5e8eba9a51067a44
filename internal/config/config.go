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

	Database struct {
		DSN string `env:"DATABASE_DSN,required"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Nats struct {
		URL string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
		// Subject carrying identity-creation events from the auth platform.
		CreatedSubject string `env:"NATS_IDENTITY_CREATED_SUBJECT" envDefault:"identity.created"`
		Queue          string `env:"NATS_QUEUE" envDefault:"staticshop-provisioner"`
	}

	Auth struct {
		JWTSecret string `env:"JWT_SECRET,required"`
	}

	Identity struct {
		BaseURL  string `env:"IDENTITY_API_URL,required"`
		APIToken string `env:"IDENTITY_API_TOKEN,required"`
		// PageSize is capped by the provider at 1000 records per page.
		PageSize int `env:"IDENTITY_PAGE_SIZE" envDefault:"1000"`
	}

	Admin struct {
		// ProtectSelfDemotion rejects an admin clearing their own isAdmin
		// flag. Off by default: the storefront UI enforces this on its own.
		ProtectSelfDemotion bool `env:"PROTECT_SELF_DEMOTION" envDefault:"false"`
	}
}

func Load() (*Config, error) {
	// .env is optional; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
