// Package config loads the process wide, read only configuration shared by
// the relay functions.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// DefaultMapAddress is geocoded when a map request names no location.
const DefaultMapAddress = "서울특별시 서초구 강남대로 359, 907호 (서초동, 대우도씨에빛2)"

// Mail transports.
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

// Config is built once at startup and handed to every relay.
type Config struct {
	Env             string
	Port            string
	UpstreamTimeout time.Duration

	Mail MailConfig
	SMS  SMSConfig
	Map  MapConfig
}

// MailConfig holds the smtp relay credentials and the fixed addresses.
type MailConfig struct {
	Transport string
	Verify    bool

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	AWSRegion string

	From     string
	FromName string
	To       string
}

// SMSConfig holds the aligo gateway credentials.
type SMSConfig struct {
	GatewayURL  string
	APIKey      string
	UserID      string
	SenderPhone string
	TestMode    bool

	IPLookupURL     string
	IPLookupEnabled bool
}

// MapConfig holds the naver maps credentials.
type MapConfig struct {
	ClientID       string
	ClientSecret   string
	GeocodeURL     string
	StaticURL      string
	DefaultAddress string
}

// Load reads .env when present and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, relying on system env vars")
	}

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, typically os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := envReader{getenv: getenv}

	cfg := &Config{
		Env:             env.str("APP_ENV", "production"),
		Port:            env.str("PORT", "4000"),
		UpstreamTimeout: env.duration("UPSTREAM_TIMEOUT", 10*time.Second),
		Mail: MailConfig{
			Transport:    strings.ToLower(env.str("MAIL_TRANSPORT", TransportSMTP)),
			Verify:       env.boolean("MAIL_VERIFY", true),
			SMTPHost:     env.str("SES_SMTP_ENDPOINT", ""),
			SMTPPort:     env.integer("SES_SMTP_PORT", 587),
			SMTPUser:     env.str("SES_SMTP_USER", ""),
			SMTPPassword: env.str("SES_SMTP_PASSWORD", ""),
			AWSRegion:    env.str("AWS_REGION", "ap-northeast-2"),
			From:         env.str("MAIL_FROM", "support@medipaysolution.co.kr"),
			FromName:     env.str("MAIL_FROM_NAME", "MEDIPAY SOLUTION"),
			To:           env.str("MAIL_TO", "medipaysolution@naver.com"),
		},
		SMS: SMSConfig{
			GatewayURL:      env.str("ALIGO_URL", "https://apis.aligo.in/send/"),
			APIKey:          env.str("ALIGO_API_KEY", ""),
			UserID:          env.str("ALIGO_USER_ID", ""),
			SenderPhone:     env.str("ALIGO_SENDER_PHONE", ""),
			TestMode:        env.boolean("ALIGO_TEST_MODE", false),
			IPLookupURL:     env.str("IP_LOOKUP_URL", "https://api.ipify.org?format=json"),
			IPLookupEnabled: env.boolean("IP_LOOKUP_ENABLED", true),
		},
		Map: MapConfig{
			ClientID:       env.str("NAVER_MAP_CLIENT_ID", ""),
			ClientSecret:   env.str("NAVER_MAP_CLIENT_SECRET", ""),
			GeocodeURL:     env.str("NAVER_GEOCODE_URL", "https://naveropenapi.apigw.ntruss.com/map-geocode/v2/geocode"),
			StaticURL:      env.str("NAVER_STATIC_URL", "https://naveropenapi.apigw.ntruss.com/map-static/v2/raster"),
			DefaultAddress: env.str("MAP_DEFAULT_ADDRESS", DefaultMapAddress),
		},
	}

	if cfg.Mail.Transport != TransportSMTP && cfg.Mail.Transport != TransportSES {
		env.fail("MAIL_TRANSPORT", cfg.Mail.Transport, errors.New("expected smtp or ses"))
	}

	if len(env.errs) > 0 {
		return nil, errors.Wrap(env.errs[0], "invalid configuration")
	}

	return cfg, nil
}

// Missing lists the credential variables that are unset for the configured
// transports. Requests relying on them will fail upstream.
func (c *Config) Missing() []string {
	var missing []string
	check := func(key, v string) {
		if v == "" {
			missing = append(missing, key)
		}
	}

	if c.Mail.Transport == TransportSMTP {
		check("SES_SMTP_ENDPOINT", c.Mail.SMTPHost)
		check("SES_SMTP_USER", c.Mail.SMTPUser)
		check("SES_SMTP_PASSWORD", c.Mail.SMTPPassword)
	}
	check("ALIGO_API_KEY", c.SMS.APIKey)
	check("ALIGO_USER_ID", c.SMS.UserID)
	check("ALIGO_SENDER_PHONE", c.SMS.SenderPhone)
	check("NAVER_MAP_CLIENT_ID", c.Map.ClientID)
	check("NAVER_MAP_CLIENT_SECRET", c.Map.ClientSecret)

	return missing
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (e *envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) fail(key, v string, err error) {
	e.errs = append(e.errs, errors.Wrapf(err, "%s=%q", key, v))
}

func (e *envReader) integer(key string, fallback int) int {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return fallback
	}
	return n
}

func (e *envReader) boolean(key string, fallback bool) bool {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return fallback
	}
	return b
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return fallback
	}
	return d
}
