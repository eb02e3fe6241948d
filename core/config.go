package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug            bool
	TestMode         bool
	Env              string // DEV (default), TEST, QA, PROD
	Build            string
	AppName          string
	SecretKey        string
	FrontendBaseURL  string
	DefaultFromEmail string
	SendgridAPIKey   string
	RollbarToken     string

	Database struct {
		URI  string
		Name string
	}

	Stripe struct {
		SecretKey string
		Currency  string
	}

	Server struct {
		Host               string
		Addr               string
		DebugAddr          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}
}

// NewConfig loads the app configuration from the environment.
// A `config/.env.<env>` file is loaded first if it exists; ENV-prefixed
// variables (eg. PROD_SECRETKEY) always take precedence.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "EduManage")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "q2d$7y=#0e&(kz!b+x5u^m9@4c_p6r*vnh8s1wgj3f)tl%aoi")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("databaseURI", "mongodb://localhost:27017")
	v.SetDefault("databaseName", "edumanage")
	v.SetDefault("stripeCurrency", "usd")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":5000")
	v.SetDefault("serverDebugAddr", ":5001")
	v.SetDefault("jwtExpirationDelta", 10*time.Hour)
	v.SetDefault("shutdownTimeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridAPIKey:   v.GetString("sendgridAPIKey"),
		RollbarToken:     v.GetString("rollbarToken"),
	}
	conf.Database.URI = v.GetString("databaseURI")
	conf.Database.Name = v.GetString("databaseName")
	conf.Stripe.SecretKey = v.GetString("stripeSecretKey")
	conf.Stripe.Currency = v.GetString("stripeCurrency")
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Addr = v.GetString("serverAddr")
	conf.Server.DebugAddr = v.GetString("serverDebugAddr")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	return conf
}
