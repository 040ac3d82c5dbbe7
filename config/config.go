package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	PinSecretKey    string `env:"PIN_SECRET_KEY,required,notEmpty"`
	PinTestMode     bool   `env:"PIN_TEST_MODE" envDefault:"true"`
	PinTestEndpoint string `env:"PIN_TEST_ENDPOINT" envDefault:"https://test-api.pin.net.au"`
	PinLiveEndpoint string `env:"PIN_LIVE_ENDPOINT" envDefault:"https://api.pin.net.au"`

	HTTPPinClientTimeout time.Duration `env:"HTTP_PIN_CLIENT_TIMEOUT" envDefault:"20s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
