// Package configapp assembles the application configuration from a YAML
// file and environment variables.
package configapp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// DefaultMaxMessageLength bounds the alert message body.
const DefaultMaxMessageLength = 5000

// DefaultClientFile is the recipients file used when none is configured.
const DefaultClientFile = "clients.txt"

type AppConfig struct {
	ListenAddr        string            `yaml:"listen_addr"`
	SecretKey         string            `yaml:"secret_key"`
	ClientFile        string            `yaml:"client_file"`
	DatabaseURL       string            `yaml:"database_url"`
	MaxMessageLength  int               `yaml:"max_message_length"`
	HeartbeatSchedule string            `yaml:"heartbeat_schedule"`
	SmtpConfig        smtpConfig        `yaml:"smtp"`
	MailgunConfig     MailGunConfig     `yaml:"mailgun"`
	SESConfig         SESConfig         `yaml:"ses"`
	MailConfig        MailConfiguration `yaml:"mailconfiguration"`
	DebugLevel        string            `yaml:"debuglevel"`
}

type MailConfiguration struct {
	FromEmail string `yaml:"from_email"`
	Subject   string `yaml:"subject"`
}

type MailGunConfig struct {
	Domain string `yaml:"domain"`
	ApiKey string `yaml:"apikey"`
}

type SESConfig struct {
	Region string `yaml:"region"`
}

type smtpConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	Tls      bool   `yaml:"tls"`
}

func ReadYamlCnxFile(filename string) (AppConfig, error) {
	var config AppConfig

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return config, fmt.Errorf("error reading YAML file: %w", err)
	}

	err = yaml.Unmarshal(yamlFile, &config)
	if err != nil {
		return config, fmt.Errorf("error parsing YAML file: %w", err)
	}
	return config, nil
}

// OverrideFromEnv applies environment variables on top of the file
// configuration. Environment always wins.
func (a *AppConfig) OverrideFromEnv() {
	overrideString(&a.MailConfig.FromEmail, "SENDER_EMAIL")
	overrideString(&a.MailConfig.Subject, "SUBJECT")
	overrideString(&a.SecretKey, "SECRET_KEY")
	overrideString(&a.ClientFile, "CLIENT_FILE")
	overrideString(&a.DatabaseURL, "DATABASE_URL")
	overrideString(&a.MailgunConfig.Domain, "MAILGUN_DOMAIN")
	overrideString(&a.MailgunConfig.ApiKey, "MAILGUN_APIKEY")
	overrideString(&a.SESConfig.Region, "SES_REGION")
	overrideString(&a.SmtpConfig.Login, "SMTP_LOGIN")
	overrideString(&a.SmtpConfig.Password, "SENDER_PASSWORD")
	overrideString(&a.SmtpConfig.Password, "SMTP_PASSWORD")
	overrideString(&a.SmtpConfig.Server, "SMTP_SERVER")
	overrideString(&a.DebugLevel, "DEBUGLEVEL")
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			a.SmtpConfig.Port = port
		}
	}
}

// SetDefaults fills the values the operator may leave out.
func (a *AppConfig) SetDefaults() {
	if a.ListenAddr == "" {
		a.ListenAddr = ":8080"
	}
	if a.ClientFile == "" {
		a.ClientFile = DefaultClientFile
	}
	if a.MaxMessageLength == 0 {
		a.MaxMessageLength = DefaultMaxMessageLength
	}
	if a.MailConfig.Subject == "" {
		a.MailConfig.Subject = "System Alert"
	}
}

// Validate reports the required values that are still missing after file,
// env and defaults have been applied.
func (a *AppConfig) Validate() error {
	var missing []string
	if a.MailConfig.FromEmail == "" {
		missing = append(missing, "SENDER_EMAIL")
	}
	if !a.IsMailGunConfigured() && !a.IsSmtpConfigured() && !a.IsSESConfigured() {
		missing = append(missing, "MAILGUN_DOMAIN/MAILGUN_APIKEY or SMTP_* or SES_REGION")
	}
	if len(missing) != 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// EnsureSecretKey generates a random secret key when none is configured.
// Returns true when a key was generated.
func (a *AppConfig) EnsureSecretKey() (bool, error) {
	if a.SecretKey != "" {
		return false, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return false, fmt.Errorf("failed to generate secret key: %w", err)
	}
	a.SecretKey = hex.EncodeToString(buf)
	return true, nil
}

func (a *AppConfig) IsMailGunConfigured() bool {
	return a.MailgunConfig.ApiKey != "" && a.MailgunConfig.Domain != ""
}

func (a *AppConfig) IsSmtpConfigured() bool {
	return a.SmtpConfig.Login != "" && a.SmtpConfig.Port != 0 && a.SmtpConfig.Password != "" && a.SmtpConfig.Server != ""
}

func (a *AppConfig) IsSESConfigured() bool {
	return a.SESConfig.Region != ""
}

func overrideString(dst *string, envVar string) {
	if v := os.Getenv(envVar); v != "" {
		*dst = v
	}
}
