package devops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

const (
	DefaultConfigFile     = "config.yaml"
	DefaultPort           = "5000"
	DefaultMaxConnections = 10
	DefaultBodyLimit      = 10 << 10
	DefaultRateLimitMax   = 100
	DefaultRateLimitWin   = 15 * time.Minute
	DefaultTokenTTL       = 8 * time.Hour
)

type RateLimitConfig struct {
	Max    int           `yaml:"max"`
	Window time.Duration `yaml:"window"`
}

type SlackConfig struct {
	Token          string `yaml:"token"`
	InfoChannelID  string `yaml:"infoChannel"`
	ErrorChannelID string `yaml:"errorChannel"`
}

type EmailConfig struct {
	From string   `yaml:"from"`
	To   []string `yaml:"to"`
}

type Config struct {
	DSN            string          `yaml:"dsn"`
	MaxConnections int             `yaml:"maxConnections"`
	SigningSecret  string          `yaml:"signingSecret"` // base64
	Port           string          `yaml:"port"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	BodyLimit      int64           `yaml:"bodyLimit"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	TokenTTL       time.Duration   `yaml:"tokenTTL"`
	ReportBucket   string          `yaml:"reportBucket"`
	Slack          SlackConfig     `yaml:"slack"`
	WeeklyReport   EmailConfig     `yaml:"weeklyReport"`
}

var (
	once    sync.Once
	loaded  *Config
	loadErr error
)

// Load reads the configuration once per process: from the SSM parameter
// named by CONFIG_SSM_PARAMETER, else from CONFIG_FILE (default
// config.yaml, optional). Environment variables override either source.
func Load(ctx context.Context) (*Config, error) {
	once.Do(func() {
		var data []byte
		if paramName := os.Getenv("CONFIG_SSM_PARAMETER"); paramName != "" {
			data, loadErr = readParameter(ctx, paramName)
		} else {
			data, loadErr = readFile(envOr("CONFIG_FILE", DefaultConfigFile))
		}
		if loadErr != nil {
			return
		}

		cfg, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg.ApplyEnv(os.Getenv)
		loaded = cfg
	})

	return loaded, loadErr
}

func readParameter(ctx context.Context, paramName string) ([]byte, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter %s: %w", paramName, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s is empty", paramName)
	}
	return []byte(*out.Parameter.Value), nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// environment-only configuration
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes YAML and fills defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal yaml: %w", err)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = DefaultMaxConnections
	}
	if c.BodyLimit <= 0 {
		c.BodyLimit = DefaultBodyLimit
	}
	if c.RateLimit.Max <= 0 {
		c.RateLimit.Max = DefaultRateLimitMax
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = DefaultRateLimitWin
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = DefaultTokenTTL
	}
}

// ApplyEnv overrides values with any non-empty environment variable.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(key string, target *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*target = v
		}
	}
	set("DSN", &c.DSN)
	set("SIGNING_SECRET", &c.SigningSecret)
	set("PORT", &c.Port)
	set("REPORT_BUCKET", &c.ReportBucket)
	set("SLACK_BOT_TOKEN", &c.Slack.Token)
	set("SLACK_INFO_CHANNEL", &c.Slack.InfoChannelID)
	set("SLACK_ERROR_CHANNEL", &c.Slack.ErrorChannelID)
	set("REPORT_EMAIL_FROM", &c.WeeklyReport.From)

	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v := getenv("REPORT_EMAIL_TO"); v != "" {
		c.WeeklyReport.To = splitList(v)
	}
	if v := getenv("MAX_CONNECTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxConnections = n
		}
	}
}

// Validate checks the values every server process needs.
func (c *Config) Validate() error {
	var missing []string
	if c.DSN == "" {
		missing = append(missing, "dsn")
	}
	if c.SigningSecret == "" {
		missing = append(missing, "signingSecret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
