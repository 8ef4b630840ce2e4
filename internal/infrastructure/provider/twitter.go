package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/solwatch/memetrader/internal/domain"
)

const (
	twitterBaseURL    = "https://api.twitter.com/2"
	twitterMaxResults = 50
)

type tweet struct {
	Text          string `json:"text"`
	PublicMetrics struct {
		LikeCount    int `json:"like_count"`
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
	} `json:"public_metrics"`
}

type twitterSearchResponse struct {
	Data []tweet `json:"data"`
}

// TwitterProvider pulls recent tweets for a ticker and scores them
// with a lexicon. Absence of a bearer token is the valid "disabled"
// state: lookups succeed with the explicit neutral summary instead of
// failing.
type TwitterProvider struct {
	baseURL     string
	bearerToken string
	client      *http.Client
	limiter     *rate.Limiter
}

func NewTwitterProvider(baseURL, bearerToken string) *TwitterProvider {
	if baseURL == "" {
		baseURL = twitterBaseURL
	}
	return &TwitterProvider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: 10 * time.Second},
		// Recent search is capped well below this; one request per
		// 2s keeps a multi-asset deployment inside the app quota.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Enabled reports whether credentials are configured.
func (p *TwitterProvider) Enabled() bool {
	return p.bearerToken != ""
}

// GetSentiment aggregates recent-tweet sentiment for the ticker.
func (p *TwitterProvider) GetSentiment(ctx context.Context, ticker string) (*domain.SentimentSummary, error) {
	if !p.Enabled() {
		return domain.NeutralSentiment(), nil
	}

	tweets, err := p.search(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(tweets) == 0 {
		return domain.NeutralSentiment(), nil
	}

	scores := make([]float64, len(tweets))
	engagement := 0.0
	for i, t := range tweets {
		scores[i] = scoreText(t.Text)
		engagement += float64(t.PublicMetrics.LikeCount + t.PublicMetrics.RetweetCount + t.PublicMetrics.ReplyCount)
	}

	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(scores))

	return &domain.SentimentSummary{
		AverageSentiment:    mean,
		SentimentVolatility: math.Sqrt(variance),
		SampleCount:         len(tweets),
		EngagementScore:     engagement / float64(len(tweets)),
	}, nil
}

// GetMetrics returns the recommendation engine's social inputs. The
// view/engagement platform has no configured source, so those fields
// stay at their zero-confidence values.
func (p *TwitterProvider) GetMetrics(ctx context.Context, ticker string) (*domain.SocialMetrics, error) {
	summary, err := p.GetSentiment(ctx, ticker)
	if err != nil {
		return nil, err
	}
	engagementRate := summary.EngagementScore / 100
	if engagementRate > 1 {
		engagementRate = 1
	}
	return &domain.SocialMetrics{
		TweetVolume:    summary.SampleCount,
		TweetSentiment: summary.AverageSentiment,
		ViewCount:      0,
		EngagementRate: engagementRate,
	}, nil
}

func (p *TwitterProvider) search(ctx context.Context, ticker string) ([]tweet, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &domain.ProviderError{Provider: "twitter", Err: err}
	}

	query := url.Values{}
	query.Set("query", fmt.Sprintf("#%s lang:en", strings.ToUpper(ticker)))
	query.Set("max_results", fmt.Sprintf("%d", twitterMaxResults))
	query.Set("tweet.fields", "public_metrics")

	endpoint := fmt.Sprintf("%s/tweets/search/recent?%s", p.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "twitter", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.bearerToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "twitter", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{Provider: "twitter", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "twitter", Err: fmt.Errorf("read response: %w", err)}
	}

	var search twitterSearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, &domain.ProviderError{Provider: "twitter", Err: fmt.Errorf("decode response: %w", err)}
	}
	return search.Data, nil
}

// Crypto-twitter lexicon, weighted by how strongly a word signals
// direction.
var positiveWords = map[string]float64{
	"moon": 1.0, "pump": 0.9, "bullish": 0.95, "rally": 0.9,
	"surge": 0.9, "breakout": 0.85, "gem": 0.8, "buy": 0.7,
	"hold": 0.5, "hodl": 0.6, "up": 0.5, "gain": 0.7,
	"profit": 0.7, "win": 0.6, "strong": 0.6, "lfg": 0.8,
}

var negativeWords = map[string]float64{
	"rug": 1.0, "scam": 1.0, "dump": 0.9, "bearish": 0.95,
	"crash": 0.95, "honeypot": 1.0, "sell": 0.7, "exit": 0.6,
	"down": 0.5, "loss": 0.7, "dead": 0.8, "avoid": 0.8,
	"warning": 0.7, "drop": 0.6, "rekt": 0.85,
}

// scoreText returns a sentiment score in [-1, 1] for one tweet.
func scoreText(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	positive, negative := 0.0, 0.0
	for _, w := range words {
		w = strings.Trim(w, ".,!?#$@()[]\"'")
		if weight, ok := positiveWords[w]; ok {
			positive += weight
		}
		if weight, ok := negativeWords[w]; ok {
			negative += weight
		}
	}
	total := positive + negative
	if total == 0 {
		return 0
	}
	return (positive - negative) / total
}
