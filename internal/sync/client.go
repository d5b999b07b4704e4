package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cerfaos/analyse/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
)

const (
	perPage        = 200
	requestTimeout = 30 * time.Second
)

// Default retry settings
const (
	defaultMaxRetries     = 5
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 2 * time.Minute
)

// Activity is one activity as the export API returns it
type Activity struct {
	ID            int64     `json:"id"`
	Date          time.Time `json:"date"`
	Type          string    `json:"type"`
	SubSport      string    `json:"sub_sport"`
	Distance      float64   `json:"distance"`
	Duration      int       `json:"duration"`
	ElevationGain float64   `json:"elevation_gain"`
	Trimp         float64   `json:"trimp"`
	Calories      float64   `json:"calories"`
	AvgHeartRate  *float64  `json:"avg_heart_rate"`
	AvgSpeed      *float64  `json:"avg_speed"`
	HasGPS        bool      `json:"has_gps"`
}

// Record is one personal record as the export API returns it
type Record struct {
	ID            int64     `json:"id"`
	ActivityType  string    `json:"activity_type"`
	RecordType    string    `json:"record_type"`
	Value         float64   `json:"value"`
	Unit          string    `json:"unit"`
	AchievedAt    time.Time `json:"achieved_at"`
	PreviousValue *float64  `json:"previous_value"`
}

// Profile is the athlete profile as the export API returns it
type Profile struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	MaxHR     *int   `json:"fc_max"`
	RestingHR *int   `json:"fc_repos"`
}

type page[T any] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"has_more"`
}

// Config holds the export API endpoint and credentials
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Client talks to the export API with automatic retry and token refresh
type Client struct {
	httpClient *retryablehttp.Client
	tokens     oauth2.TokenSource
	baseURL    string
}

// NewClient creates an export API client. Access tokens are minted from the
// refresh token on demand and cached by the token source.
func NewClient(cfg Config) *Client {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL},
	}
	tokens := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.RefreshToken})

	client := retryablehttp.NewClient()
	client.RetryMax = defaultMaxRetries
	client.RetryWaitMin = defaultInitialBackoff
	client.RetryWaitMax = defaultMaxBackoff
	client.HTTPClient.Timeout = requestTimeout
	client.Logger = &logging.LeveledLogger{}

	// Retry on connection errors, 429 and 5xx; auth and client errors are final
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return true, nil
		}
		if resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}

	client.RequestLogHook = func(logger retryablehttp.Logger, req *http.Request, retry int) {
		if retry > 0 {
			logging.Info("retrying request", "url", req.URL.Path, "attempt", retry+1)
		}
		if logging.IsTraceEnabled() {
			logging.Debug("request", "method", req.Method, "url", req.URL.String())
		}
	}

	return &Client{
		httpClient: client,
		tokens:     tokens,
		baseURL:    cfg.BaseURL,
	}
}

// FetchActivities fetches the user's activities, paging until exhausted.
// A zero since fetches everything; otherwise only activities on or after
// that date are returned.
func (c *Client) FetchActivities(ctx context.Context, userID int64, since time.Time) ([]Activity, error) {
	var all []Activity
	pageNum := 1

	for {
		query := url.Values{}
		query.Set("page", strconv.Itoa(pageNum))
		query.Set("per_page", strconv.Itoa(perPage))
		if !since.IsZero() {
			query.Set("since", since.Format("2006-01-02"))
		}

		var result page[Activity]
		path := fmt.Sprintf("/v1/users/%d/activities", userID)
		if err := c.get(ctx, path, query, &result); err != nil {
			return all, fmt.Errorf("fetching activities page %d: %w", pageNum, err)
		}

		all = append(all, result.Items...)
		logging.Debug("fetched activities page", "page", pageNum, "count", len(result.Items), "total", len(all))

		if !result.HasMore || len(result.Items) == 0 {
			break
		}
		pageNum++
	}
	return all, nil
}

// FetchRecords fetches the user's personal records, paging until exhausted.
func (c *Client) FetchRecords(ctx context.Context, userID int64) ([]Record, error) {
	var all []Record
	pageNum := 1

	for {
		query := url.Values{}
		query.Set("page", strconv.Itoa(pageNum))
		query.Set("per_page", strconv.Itoa(perPage))

		var result page[Record]
		path := fmt.Sprintf("/v1/users/%d/records", userID)
		if err := c.get(ctx, path, query, &result); err != nil {
			return all, fmt.Errorf("fetching records page %d: %w", pageNum, err)
		}

		all = append(all, result.Items...)

		if !result.HasMore || len(result.Items) == 0 {
			break
		}
		pageNum++
	}
	return all, nil
}

// FetchProfile fetches the user's athlete profile.
func (c *Client) FetchProfile(ctx context.Context, userID int64) (Profile, error) {
	var profile Profile
	path := fmt.Sprintf("/v1/users/%d/profile", userID)
	if err := c.get(ctx, path, nil, &profile); err != nil {
		return Profile{}, fmt.Errorf("fetching profile: %w", err)
	}
	return profile, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("refreshing access token: %w", err)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	token.SetAuthHeader(req.Request)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
