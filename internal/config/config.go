// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path"`
	RabbitConnection        string `yaml:"rabbit_connection"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	YouTube                 `yaml:"youtube"`
	GenAI                   `yaml:"genai"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// YouTube структура с ключом и адресом YouTube Data API.
// Ключ хранится на сервере в base64 и декодируется при старте,
// клиентам не выдаётся.
type YouTube struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url" env-default:"https://www.googleapis.com/youtube/v3"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// GenAI структура с настройками генеративного API для анализа комментариев.
// Ключ хранится в base64, как и ключ YouTube.
type GenAI struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	Model   string        `yaml:"model" env-default:"gemini-1.5-flash"`
	Timeout time.Duration `yaml:"timeout" env-default:"30s"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
