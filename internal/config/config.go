package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	customValidator "github.com/PIRSON21/scoring/internal/lib/validator"
)

type Config struct {
	Environment string `env:"ENV"        env-default:"prod" validate:"oneof=local dev prod"`
	Address     string `env:"ADDRESS"    env-default:"localhost:8080" validate:"hostname_port"`
	Salt        string `env:"SALT"       env-default:"Otus" validate:"required"`
	AdminSalt   string `env:"ADMIN_SALT" env-default:"42" validate:"required"`
	ConfigStore
}

type ConfigStore struct {
	StoreAddress string        `env:"STORE_ADDRESS" env-default:"localhost:6379" validate:"hostname_port"`
	StoreDB      int           `env:"STORE_DB"      env-default:"0"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" env-default:"3s"`
}

// MustCreateConfig создает структуру конфига из файла, путь которого
// передан в path. Если возникла ошибка, приложение падает.
func MustCreateConfig(path string) *Config {
	var cfg Config
	log.Println("reading config from file: ", path)
	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		log.Fatal(err)
	}

	valid := customValidator.CreateNewValidator()
	if err := valid.Struct(cfg); err != nil {
		log.Fatal("invalid config: ", err)
	}

	return &cfg
}
