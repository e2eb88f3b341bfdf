package lookup

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	DefaultBaseURL   = "https://musicbrainz.org/ws/2"
	DefaultUserAgent = "SongChain/1.0.0 ( songchain@localhost )"

	// PageSize is the number of recordings requested per search; 100 is the
	// most MusicBrainz returns in one page.
	PageSize = 100
)

// Config configures the MusicBrainz client and its cache.
type Config struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables client-side throttling
	Retries           int
	CacheSize         int // <= 0 disables caching
	CacheTTL          time.Duration
}

// DefaultConfig follows the MusicBrainz rate limit of one request per second.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		UserAgent:         DefaultUserAgent,
		Timeout:           10 * time.Second,
		RequestsPerSecond: 1,
		Retries:           2,
		CacheSize:         512,
		CacheTTL:          time.Hour,
	}
}

func (c Config) validate() error {
	if c.UserAgent == "" {
		return errors.New("a user agent is required by MusicBrainz")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL must have a host, got: %s", c.BaseURL)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries cannot be negative: %d", c.Retries)
	}
	return nil
}
