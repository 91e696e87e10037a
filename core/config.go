package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf is the application configuration, loaded once at startup.
var Conf *Config

type (
	ServerConfig struct {
		Host                      string
		Port                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine     string // empty: in-memory store
		Name       string
		User       string
		Password   string
		AdminUser  string
		AdminPass  string
		Host       string
		Port       string
		DisableTLS bool
	}

	AuthConfig struct {
		// TeacherIdentityPolicy selects how prospective teachers prove their
		// identity at registration: "authcode" (admin-issued single-use code)
		// or "nip" (18-digit employee number). Picked once per deployment.
		TeacherIdentityPolicy string
		// HashAlgorithm is "bcrypt" or "sha256" (legacy, deterministic).
		HashAlgorithm string
	}

	Config struct {
		Env              string
		AppName          string
		Debug            bool
		TestMode         bool
		SecretKey        string
		Build            string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string
		Server           ServerConfig
		Database         DatabaseConfig
		Auth             AuthConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func init() {
	Conf = loadConfig()
}

func loadConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "JurnalKelas")
	v.SetDefault("secretKey", "k3las-(2y&wq!7d$8m_ju=rn@l#z*4p^0vh5)gx+1en9t6bs")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("dbEngine", "")
	v.SetDefault("dbName", "jurnalkelas")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("teacherIdentityPolicy", "authcode")
	v.SetDefault("hashAlgorithm", "bcrypt")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:              env,
		AppName:          v.GetString("appName"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		SecretKey:        v.GetString("secretKey"),
		Build:            v.GetString("build"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Port:                      v.GetString("serverPort"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("dbEngine"),
			Name:       v.GetString("dbName"),
			User:       v.GetString("dbUser"),
			Password:   v.GetString("dbPassword"),
			AdminUser:  v.GetString("dbAdminUser"),
			AdminPass:  v.GetString("dbAdminPassword"),
			Host:       v.GetString("dbHost"),
			Port:       v.GetString("dbPort"),
			DisableTLS: v.GetBool("dbDisableTLS"),
		},
		Auth: AuthConfig{
			TeacherIdentityPolicy: v.GetString("teacherIdentityPolicy"),
			HashAlgorithm:         v.GetString("hashAlgorithm"),
		},
	}
}
