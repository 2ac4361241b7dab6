// Package config resolves moviedb settings from defaults, an optional YAML
// file, environment variables and command-line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"moviedb/metadata"
	"moviedb/notifier"
	"moviedb/storage"
)

// Config keys. Environment variables use the upper-cased key with dots
// replaced by underscores, e.g. storage.backend -> STORAGE_BACKEND.
const (
	KeyBackend      = "storage.backend"
	KeyDataFile     = "storage.file"
	KeyOMDbAPIKey   = "omdb.api_key"
	KeyOMDbBaseURL  = "omdb.base_url"
	KeyOMDbTimeout  = "omdb.timeout"
	KeyOMDbAgent    = "omdb.user_agent"
	KeySiteTemplate = "site.template"
	KeySiteOutput   = "site.output"
	KeySiteSchedule = "site.schedule"
	KeySMTPHost     = "email.smtp_host"
	KeySMTPPort     = "email.smtp_port"
	KeySMTPUsername = "email.smtp_username"
	KeySender       = "email.sender"
	KeyPassword     = "email.password"
	KeyRecipient    = "email.recipient"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
)

const (
	DefaultBackend      = storage.BackendJSON
	DefaultSiteOutput   = "index.html"
	DefaultSiteSchedule = "0 0 * * * *"
)

var defaultDataFiles = map[string]string{
	storage.BackendJSON:   "data/data.json",
	storage.BackendCSV:    "data/data.csv",
	storage.BackendSQLite: "data/movies.db",
}

var ErrScheduleEmpty = errors.New("site schedule must not be empty")

// Config is the resolved application configuration.
type Config struct {
	Storage   storage.Config
	OMDb      metadata.Config
	Site      SiteConfig
	Email     notifier.EmailConfig
	LogLevel  string
	LogFormat string
}

type SiteConfig struct {
	TemplatePath string
	OutputPath   string
	Schedule     string
}

// Load reads configuration. configFile may be empty; a named file that does
// not exist is an error, while the absence of the default moviedb.yaml is
// not. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("moviedb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyBackend, DefaultBackend)
	v.SetDefault(KeyDataFile, "")
	v.SetDefault(KeyOMDbAPIKey, "")
	v.SetDefault(KeyOMDbBaseURL, metadata.DefaultBaseURL)
	v.SetDefault(KeyOMDbTimeout, metadata.DefaultTimeout)
	v.SetDefault(KeyOMDbAgent, "")
	v.SetDefault(KeySiteTemplate, "")
	v.SetDefault(KeySiteOutput, DefaultSiteOutput)
	v.SetDefault(KeySiteSchedule, DefaultSiteSchedule)
	v.SetDefault(KeySMTPHost, "")
	v.SetDefault(KeySMTPPort, 587)
	v.SetDefault(KeySMTPUsername, "")
	v.SetDefault(KeySender, "")
	v.SetDefault(KeyPassword, "")
	v.SetDefault(KeyRecipient, "")
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFormat, "")
}

// flagKeys maps persistent CLI flags onto config keys.
var flagKeys = map[string]string{
	"backend":   KeyBackend,
	"data-file": KeyDataFile,
	"log-level": KeyLogLevel,
	"template":  KeySiteTemplate,
	"output":    KeySiteOutput,
	"schedule":  KeySiteSchedule,
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	backend := strings.ToLower(strings.TrimSpace(v.GetString(KeyBackend)))
	dataFile := v.GetString(KeyDataFile)
	if dataFile == "" {
		dataFile = defaultDataFiles[backend]
	}

	return &Config{
		Storage: storage.Config{
			Backend: backend,
			Path:    dataFile,
		},
		OMDb: metadata.Config{
			APIKey:    v.GetString(KeyOMDbAPIKey),
			BaseURL:   v.GetString(KeyOMDbBaseURL),
			Timeout:   v.GetDuration(KeyOMDbTimeout),
			UserAgent: v.GetString(KeyOMDbAgent),
		},
		Site: SiteConfig{
			TemplatePath: v.GetString(KeySiteTemplate),
			OutputPath:   v.GetString(KeySiteOutput),
			Schedule:     v.GetString(KeySiteSchedule),
		},
		Email: notifier.EmailConfig{
			SMTPHost:       v.GetString(KeySMTPHost),
			SMTPPort:       v.GetInt(KeySMTPPort),
			SMTPUsername:   v.GetString(KeySMTPUsername),
			SenderEmail:    v.GetString(KeySender),
			SenderPassword: v.GetString(KeyPassword),
			RecipientEmail: v.GetString(KeyRecipient),
		},
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
	}
}

// Validate checks the storage selection and site settings.
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Site.Schedule) == "" {
		return ErrScheduleEmpty
	}
	return nil
}
