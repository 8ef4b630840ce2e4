package domain

// SentimentSummary aggregates social sentiment for a ticker.
// A provider that has nothing to report returns NeutralSentiment(),
// never a nil or zero-filled summary, so callers can tell "no data"
// (SampleCount == 0) from a measured zero.
type SentimentSummary struct {
	AverageSentiment    float64 `json:"average_sentiment"`    // [-1, 1]
	SentimentVolatility float64 `json:"sentiment_volatility"` // >= 0
	SampleCount         int     `json:"sample_count"`         // >= 0
	EngagementScore     float64 `json:"engagement_score"`     // >= 0
}

// NeutralSentiment is the explicit zero-confidence summary used when a
// social provider is disabled or has no samples.
func NeutralSentiment() *SentimentSummary {
	return &SentimentSummary{}
}

// HasData reports whether the summary is backed by at least one sample.
func (s *SentimentSummary) HasData() bool {
	return s.SampleCount > 0
}

// SocialMetrics carries the per-platform inputs of the recommendation
// social sub-score. Rates are raw counts; normalization happens in the
// scorer.
type SocialMetrics struct {
	TweetVolume    int     `json:"tweet_volume"`
	TweetSentiment float64 `json:"tweet_sentiment"` // [-1, 1]
	ViewCount      int64   `json:"view_count"`
	EngagementRate float64 `json:"engagement_rate"` // [0, 1]
}
