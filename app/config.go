package main

import "github.com/spf13/viper"

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	DBHost            string `mapstructure:"POSTGRES_HOST"`
	DBPort            string `mapstructure:"POSTGRES_PORT"`
	DBName            string `mapstructure:"POSTGRES_DB"`
	DBPublicUser      string `mapstructure:"POSTGRES_PUBLIC_USER"`
	DBPublicPassword  string `mapstructure:"POSTGRES_PUBLIC_PASSWORD"`
	DBServiceUser     string `mapstructure:"POSTGRES_SERVICE_USER"`
	DBServicePassword string `mapstructure:"POSTGRES_SERVICE_PASSWORD"`

	// CaptchaSecret may legitimately be absent at startup; verification
	// requests fail with a 500 until it is configured.
	CaptchaSecret string `mapstructure:"CAPTCHA_SECRET"`
	CaptchaURL    string `mapstructure:"CAPTCHA_URL"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
