package config

import "github.com/caarlos0/env/v6"

type Config struct {
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5250"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/homehub.db"`
	}

	Redis struct {
		// Addr enables the listings read cache when set (e.g. "localhost:6379").
		Addr            string `env:"REDIS_ADDR"`
		CacheTTLSeconds int    `env:"REDIS_CACHE_TTL" envDefault:"300"`
	}

	Admin struct {
		Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
		// Password may be a plain value or a bcrypt hash ($2a$... prefix).
		Password  string `env:"ADMIN_PASSWORD"`
		JWTSecret string `env:"JWT_SECRET"`
	}

	Listing struct {
		// RentalFee is the flat fee charged for rental listings (USD).
		RentalFee float64 `env:"RENTAL_LISTING_FEE" envDefault:"49"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
