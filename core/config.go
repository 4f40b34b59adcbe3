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

type (
	Config struct {
		AppName         string
		Env             string // DEV (local; default), TEST, QA, PROD
		Build           string
		Debug           bool
		TestMode        bool
		SecretKey       string
		FrontendBaseURL string
		RollbarToken    string
		CatalogPath     string // optional override of the embedded catalog

		Server     ServerConfig
		Database   DatabaseConfig
		Session    SessionConfig
		Enrollment EnrollmentConfig
		Email      EmailConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	SessionConfig struct {
		Name      string
		Secret    string
		MenuStore string // memory | redis
		RedisAddr string
		RedisDB   int
		MenuTTL   time.Duration
	}

	EnrollmentConfig struct {
		Backend string // local | http
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}

	EmailConfig struct {
		SendgridAPIKey   string
		DefaultFromName  string
		DefaultFromEmail string
		LeadsInbox       string // receives a copy of every lead, if set
	}
)

func (db DatabaseConfig) Address() string {
	return db.Host + ":" + db.Port
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.Email.DefaultFromName, Address: c.Email.DefaultFromEmail}
}

// NewConfig loads the configuration from `config/.env.<env>` (if it exists) and the environment.
// Every key can be overridden with an env variable prefixed by the current ENV, e.g. `DEV_DATABASE_HOST`.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("appName", "Institute")
	conf.SetDefault("build", "develop")
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("catalogPath", "")

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.readTimeout", 5*time.Second)
	conf.SetDefault("server.writeTimeout", 5*time.Second)
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.disableReqLogs", false)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.name", "institute")
	conf.SetDefault("database.user", "")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "postgres")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("session.name", "institute")
	conf.SetDefault("session.secret", "test-secret-key-32-bytes-long!!")
	conf.SetDefault("session.menuStore", "memory")
	conf.SetDefault("session.redisAddr", "localhost:6379")
	conf.SetDefault("session.redisDB", 0)
	conf.SetDefault("session.menuTTL", 30*time.Minute)

	conf.SetDefault("enrollment.backend", "local")
	conf.SetDefault("enrollment.baseURL", "http://localhost:5000/api")
	conf.SetDefault("enrollment.apiKey", "")
	conf.SetDefault("enrollment.timeout", 10*time.Second)

	conf.SetDefault("email.sendgridAPIKey", "")
	conf.SetDefault("email.defaultFromName", "Institute")
	conf.SetDefault("email.defaultFromEmail", "noreply@localhost")
	conf.SetDefault("email.leadsInbox", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:         conf.GetString("appName"),
		Env:             env,
		Build:           conf.GetString("build"),
		Debug:           conf.GetBool("debug"),
		TestMode:        conf.GetBool("testMode"),
		SecretKey:       conf.GetString("secretKey"),
		FrontendBaseURL: conf.GetString("frontendBaseURL"),
		RollbarToken:    conf.GetString("rollbarToken"),
		CatalogPath:     conf.GetString("catalogPath"),
		Server: ServerConfig{
			Host:            conf.GetString("server.host"),
			Address:         conf.GetString("server.address"),
			DebugHost:       conf.GetString("server.debugHost"),
			ReadTimeout:     conf.GetDuration("server.readTimeout"),
			WriteTimeout:    conf.GetDuration("server.writeTimeout"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  conf.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetString("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		Session: SessionConfig{
			Name:      conf.GetString("session.name"),
			Secret:    conf.GetString("session.secret"),
			MenuStore: conf.GetString("session.menuStore"),
			RedisAddr: conf.GetString("session.redisAddr"),
			RedisDB:   conf.GetInt("session.redisDB"),
			MenuTTL:   conf.GetDuration("session.menuTTL"),
		},
		Enrollment: EnrollmentConfig{
			Backend: conf.GetString("enrollment.backend"),
			BaseURL: conf.GetString("enrollment.baseURL"),
			APIKey:  conf.GetString("enrollment.apiKey"),
			Timeout: conf.GetDuration("enrollment.timeout"),
		},
		Email: EmailConfig{
			SendgridAPIKey:   conf.GetString("email.sendgridAPIKey"),
			DefaultFromName:  conf.GetString("email.defaultFromName"),
			DefaultFromEmail: conf.GetString("email.defaultFromEmail"),
			LeadsInbox:       conf.GetString("email.leadsInbox"),
		},
	}
}

// configDir returns CONFIG_DIR or `./config`.
func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	return filepath.Join(wd, "config")
}
