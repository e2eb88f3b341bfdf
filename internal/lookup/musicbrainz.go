// Package lookup searches MusicBrainz for recordings.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"songchain/internal/logging"
	"songchain/internal/types"
)

// Searcher is implemented by Client and Cached.
type Searcher interface {
	SearchRecordings(ctx context.Context, query, artist string) ([]types.Recording, error)
}

// Client talks to the MusicBrainz recording search.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

type searchResponse struct {
	Count      int             `json:"count"`
	Offset     int             `json:"offset"`
	Recordings []recordingJSON `json:"recordings"`
}

type recordingJSON struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ArtistCredit []struct {
		Name       string `json:"name"`
		JoinPhrase string `json:"joinphrase"`
	} `json:"artist-credit"`
}

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second)
	httpClient.AddRetryCondition(retryCondition)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// retryCondition retries transport errors and the statuses MusicBrainz uses
// when a client goes over its rate limit.
func retryCondition(r *resty.Response, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code == http.StatusServiceUnavailable || code == http.StatusTooManyRequests
}

// SearchRecordings returns recordings matching query by artist, at most
// PageSize of them.
func (c *Client) SearchRecordings(ctx context.Context, query, artist string) ([]types.Recording, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query": BuildQuery(query, artist),
			"fmt":   "json",
			"limit": strconv.Itoa(PageSize),
		}).
		SetResult(&searchResponse{}).
		Get("/recording")
	if err != nil {
		return nil, fmt.Errorf("recording search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("recording search: unexpected status %d", resp.StatusCode())
	}

	result, ok := resp.Result().(*searchResponse)
	if !ok || result == nil {
		return nil, fmt.Errorf("recording search: unreadable response")
	}
	logging.Debug("MusicBrainz returned %d of %d recordings for %q by %q", len(result.Recordings), result.Count, query, artist)

	return lo.Map(result.Recordings, func(rec recordingJSON, _ int) types.Recording {
		var credits strings.Builder
		for _, credit := range rec.ArtistCredit {
			credits.WriteString(credit.Name)
			credits.WriteString(credit.JoinPhrase)
		}
		return types.Recording{ID: rec.ID, Title: rec.Title, Artist: credits.String()}
	}), nil
}

// BuildQuery builds the Lucene query for a title and artist search. An empty
// artist searches by title only.
func BuildQuery(title, artist string) string {
	q := "recording:(" + escapeLucene(title) + ")"
	if strings.TrimSpace(artist) != "" {
		q += " AND artist:(" + escapeLucene(artist) + ")"
	}
	return q
}

var luceneEscaper = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `&`, `\&`, `|`, `\|`, `!`, `\!`,
	`(`, `\(`, `)`, `\)`, `{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`,
	`^`, `\^`, `"`, `\"`, `~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`,
)

func escapeLucene(s string) string {
	return luceneEscaper.Replace(strings.TrimSpace(s))
}
