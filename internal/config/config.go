package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type LotteryConfig struct {
	Env            string `yaml:"env"`
	HTTPServer     `yaml:"http_server"`
	LotteryDB      `yaml:"lottery_db"`
	LogConfig      `yaml:"log_config"`
	KafkaService   `yaml:"kafka-service"`
	Scheduler      `yaml:"scheduler"`
	MigrationsPath string `yaml:"migrations_path"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LotteryDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Scheduler struct {
	ProcessingHour int  `yaml:"processing_hour"`
	DaysAhead      int  `yaml:"days_ahead"`
	Enabled        bool `yaml:"enabled"`
}

func MustLoad() *LotteryConfig {

	configPath := os.Getenv("LOTTERY_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("LOTTERY_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg LotteryConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
