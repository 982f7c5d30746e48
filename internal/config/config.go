package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	JWTSecret string `env:"JWT_SECRET"`

	// プラットフォーム手数料率（%）
	PlatformFeePercent string `env:"PLATFORM_FEE_PERCENT" envDefault:"2"`

	Mpesa Mpesa `envPrefix:"MPESA_"`

	GoEnv string `env:"GO_ENV" envDefault:"dev"`
}

// M-Pesa Daraja API設定
type Mpesa struct {
	ConsumerKey    string `env:"CONSUMER_KEY"`
	ConsumerSecret string `env:"CONSUMER_SECRET"`
	Shortcode      string `env:"SHORTCODE"`
	Passkey        string `env:"PASSKEY"`
	CallbackURL    string `env:"CALLBACK_URL"`
	BaseURL        string `env:"BASE_URL" envDefault:"https://sandbox.safaricom.co.ke"`
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Mpesa.ConsumerKey == "" {
		return Config{}, fmt.Errorf("MPESA_CONSUMER_KEY is required")
	}
	if cfg.Mpesa.ConsumerSecret == "" {
		return Config{}, fmt.Errorf("MPESA_CONSUMER_SECRET is required")
	}
	if cfg.Mpesa.Shortcode == "" {
		return Config{}, fmt.Errorf("MPESA_SHORTCODE is required")
	}
	if cfg.Mpesa.Passkey == "" {
		return Config{}, fmt.Errorf("MPESA_PASSKEY is required")
	}
	if err := validateCallbackURL(cfg.Mpesa.CallbackURL); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// コールバックURLはゲートウェイから届く公開URLでなければならない。
// localhost宛はコールバックが永遠に来ないまま決済が宙に浮くので起動時に弾く。
func validateCallbackURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("MPESA_CALLBACK_URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("MPESA_CALLBACK_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("MPESA_CALLBACK_URL must be http(s)")
	}

	host := strings.ToLower(u.Hostname())
	switch host {
	case "localhost", "127.0.0.1", "0.0.0.0":
		return fmt.Errorf("MPESA_CALLBACK_URL must be publicly reachable, got %s", host)
	}

	return nil
}
