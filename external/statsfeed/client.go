package statsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/pitchside/fiveside/internal/domain/playerstats"
	"github.com/pitchside/fiveside/internal/platform/logging"
	"github.com/pitchside/fiveside/internal/platform/resilience"
	"github.com/pitchside/fiveside/internal/usecase"
)

const defaultBaseURL = "https://feed.pitchside.dev/v1"

var errFeedTransient = crerr.New("stats feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls per-round stat records from the upstream feed. Concurrent
// fetches of the same round collapse into one upstream call.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type roundEnvelope struct {
	Gameweek  int               `json:"gameweek"`
	Finalized bool              `json:"finalized"`
	Data      []statRecordModel `json:"data"`
}

type statRecordModel struct {
	PlayerID   string `json:"player_id"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
	Saves      int    `json:"saves"`
	OwnGoals   int    `json:"own_goals"`
	CleanSheet bool   `json:"clean_sheet"`
	Played     bool   `json:"played"`
	Price      *int64 `json:"price,omitempty"`
}

// FetchGameweek returns one round's records plus whether the figures are
// final. Transient upstream failures are retried with a short backoff before
// surfacing.
func (c *Client) FetchGameweek(ctx context.Context, gameweek int) (usecase.FeedSnapshot, error) {
	if gameweek <= 0 {
		return usecase.FeedSnapshot{}, crerr.New("gameweek must be greater than zero")
	}

	key := "round:" + strconv.Itoa(gameweek)
	value, err, _ := c.flight.Do(key, func() (any, error) {
		return c.fetchRound(ctx, gameweek)
	})
	if err != nil {
		return usecase.FeedSnapshot{}, err
	}

	snapshot, ok := value.(usecase.FeedSnapshot)
	if !ok {
		return usecase.FeedSnapshot{}, crerr.Newf("unexpected flight result type %T", value)
	}

	return snapshot, nil
}

func (c *Client) fetchRound(ctx context.Context, gameweek int) (usecase.FeedSnapshot, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats feed circuit breaker rejected request", "state", c.breaker.State())
			return usecase.FeedSnapshot{}, crerr.Wrap(err, "stats feed is temporarily unavailable")
		}
	}

	url := fmt.Sprintf("%s/rounds/%d/stats", c.baseURL, gameweek)

	var envelope roundEnvelope
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return usecase.FeedSnapshot{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		lastErr = c.doJSON(ctx, url, &envelope)
		if lastErr == nil {
			break
		}
		if !stderrors.Is(lastErr, errFeedTransient) {
			break
		}
		c.logger.WarnContext(ctx, "stats feed fetch retry",
			"gameweek", gameweek,
			"attempt", attempt+1,
			"error", lastErr,
		)
	}
	c.recordCircuitResult(lastErr)
	if lastErr != nil {
		return usecase.FeedSnapshot{}, crerr.Wrapf(lastErr, "fetch round %d", gameweek)
	}

	records := make([]playerstats.GameweekStats, 0, len(envelope.Data))
	prices := make([]usecase.PriceUpdate, 0)
	for _, item := range envelope.Data {
		playerID := strings.TrimSpace(item.PlayerID)
		if playerID == "" {
			continue
		}
		records = append(records, playerstats.GameweekStats{
			PlayerID:   playerID,
			Gameweek:   gameweek,
			Goals:      item.Goals,
			Assists:    item.Assists,
			Saves:      item.Saves,
			OwnGoals:   item.OwnGoals,
			CleanSheet: item.CleanSheet,
			Played:     item.Played,
		})
		if item.Price != nil && *item.Price > 0 {
			prices = append(prices, usecase.PriceUpdate{PlayerID: playerID, Price: *item.Price})
		}
	}

	return usecase.FeedSnapshot{
		Gameweek:  gameweek,
		Finalized: envelope.Finalized,
		Records:   records,
		Prices:    prices,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return crerr.Wrap(err, "create stats feed request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: call %s: %v", errFeedTransient, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("%w: read response from %s: %v", errFeedTransient, url, err)
	}

	if resp.StatusCode/100 != 2 {
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: call %s status=%d body=%s", errFeedTransient, url, resp.StatusCode, truncate(string(raw), 512))
		}
		return crerr.Newf("call %s status=%d body=%s", url, resp.StatusCode, truncate(string(raw), 512))
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return crerr.Wrapf(err, "decode response from %s", url)
	}

	return nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errFeedTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func truncate(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
