package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/PrivateCaptcha/recaptchav1/pkg/recaptcha"
)

const (
	defaultHost          = "localhost"
	defaultPort          = "8080"
	defaultVerifyTimeout = 10 * time.Second
)

type Config struct {
	getenv        func(string) string
	stage         string
	verbose       bool
	verifyURL     string
	verifyTimeout time.Duration
}

func New(getenv func(string) string) (*Config, error) {
	c := &Config{getenv: getenv}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) init() error {
	c.stage = c.getenv(common.ConfigStage)
	c.verbose = common.ParseBoolean(c.getenv(common.ConfigVerbose))

	c.verifyURL = strings.TrimSpace(c.getenv(common.ConfigVerifyURL))
	if len(c.verifyURL) == 0 {
		c.verifyURL = recaptcha.DefaultEndpoint
	}

	u, err := url.Parse(c.verifyURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", common.ConfigVerifyURL, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || len(u.Host) == 0 {
		return fmt.Errorf("invalid %s: '%s' is not an absolute http(s) URL", common.ConfigVerifyURL, c.verifyURL)
	}

	c.verifyTimeout = defaultVerifyTimeout
	if value := c.getenv(common.ConfigVerifyTimeout); len(value) > 0 {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", common.ConfigVerifyTimeout, err)
		}

		c.verifyTimeout = timeout
	}

	return nil
}

func (c *Config) Stage() string {
	return c.stage
}

func (c *Config) Verbose() bool {
	return c.verbose
}

// PrivateKey is validated by recaptcha.NewClient and must never be logged
func (c *Config) PrivateKey() string {
	return c.getenv(common.ConfigPrivateKey)
}

func (c *Config) VerifyURL() string {
	return c.verifyURL
}

func (c *Config) VerifyTimeout() time.Duration {
	return c.verifyTimeout
}

func (c *Config) ListenAddress() string {
	host := c.getenv(common.ConfigHost)
	if host == "" {
		host = defaultHost
	}

	port := c.getenv(common.ConfigPort)
	if port == "" {
		port = defaultPort
	}
	address := net.JoinHostPort(host, port)
	return address
}

func (c *Config) RateLimiterHeader() string {
	return c.getenv(common.ConfigRateLimitHeader)
}

func (c *Config) CorsOrigins() []string {
	origins := common.SplitList(c.getenv(common.ConfigCorsOrigins))
	if len(origins) == 0 {
		return []string{"*"}
	}

	return origins
}

func (c *Config) HealthCheckInterval() time.Duration {
	if "slow" == c.getenv(common.ConfigHealthCheck) {
		return 1 * time.Minute
	}

	return 5 * time.Second
}
