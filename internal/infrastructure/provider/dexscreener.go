package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/solwatch/memetrader/internal/domain"
)

const (
	DexScreenerBaseURL = "https://api.dexscreener.com"

	// DexScreener allows 60 requests per minute on the pairs endpoints.
	dexScreenerRPM = 60

	historyCapacity = 288 // rolling window of observed samples per asset
	candleBucket    = 5 * time.Minute
)

// dexPair mirrors the fields of a DexScreener pair payload that we
// consume. priceUsd arrives as a string.
type dexPair struct {
	BaseToken struct {
		Symbol string `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD string `json:"priceUsd"`
	Volume   struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	Liquidity *struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	Txns struct {
		H24 struct {
			Buys  int `json:"buys"`
			Sells int `json:"sells"`
		} `json:"h24"`
	} `json:"txns"`
	PairCreatedAt int64 `json:"pairCreatedAt"` // unix millis
}

type dexResponse struct {
	Pairs []dexPair `json:"pairs"`
}

// DexScreenerProvider pulls pair snapshots from the DexScreener token
// endpoint. Calls are rate limited and wrapped in a circuit breaker so
// a flapping upstream trips fast instead of queueing timeouts.
//
// The provider also keeps a rolling in-memory history of the snapshots
// it has served, which backs GetPriceHistory and GetCandles:
// DexScreener has no history endpoint, so the window is built from our
// own observations.
type DexScreenerProvider struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	mu      sync.Mutex
	history map[string][]domain.PricePoint
	volumes map[string][]float64 // 24h volume gauge per history sample
}

func NewDexScreenerProvider(baseURL string) *DexScreenerProvider {
	if baseURL == "" {
		baseURL = DexScreenerBaseURL
	}
	return &DexScreenerProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Minute/dexScreenerRPM), 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "dexscreener",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		history: make(map[string][]domain.PricePoint),
		volumes: make(map[string][]float64),
	}
}

// GetSnapshot fetches the asset's pairs and returns the
// highest-liquidity one as a validated snapshot. Partial payloads are
// a ProviderError, never a zero-filled snapshot.
func (p *DexScreenerProvider) GetSnapshot(ctx context.Context, assetID string) (*domain.MarketSnapshot, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &domain.ProviderError{Provider: "dexscreener", Err: err}
	}

	body, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetch(ctx, assetID)
	})
	if err != nil {
		return nil, &domain.ProviderError{Provider: "dexscreener", Err: err}
	}

	var resp dexResponse
	if err := json.Unmarshal(body.([]byte), &resp); err != nil {
		return nil, &domain.ProviderError{Provider: "dexscreener", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(resp.Pairs) == 0 {
		return nil, &domain.ProviderError{Provider: "dexscreener", Err: fmt.Errorf("no pairs for %s", assetID)}
	}

	pair, err := bestPair(resp.Pairs, assetID)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "dexscreener", Err: err}
	}

	snap, err := pair.toSnapshot(assetID)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "dexscreener", Err: err}
	}

	p.record(assetID, snap)
	return snap, nil
}

// GetPriceHistory returns up to limit of the provider's observed
// price/liquidity samples for the asset, oldest first.
func (p *DexScreenerProvider) GetPriceHistory(ctx context.Context, assetID string, limit int) ([]domain.PricePoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	points := p.history[assetID]
	if len(points) > limit {
		points = points[len(points)-limit:]
	}
	out := make([]domain.PricePoint, len(points))
	copy(out, points)
	return out, nil
}

// GetCandles buckets the observed samples into fixed intervals.
// Candle volume carries the 24h volume gauge at the bucket's close; it
// is a level, not a per-candle sum.
func (p *DexScreenerProvider) GetCandles(ctx context.Context, assetID string, limit int) ([]domain.Candle, error) {
	p.mu.Lock()
	points := p.history[assetID]
	volumes := p.volumes[assetID]
	p.mu.Unlock()

	var candles []domain.Candle
	var current *domain.Candle
	for i, pt := range points {
		bucket := pt.Time.Truncate(candleBucket).Unix()
		if current == nil || current.Time != bucket {
			if current != nil {
				candles = append(candles, *current)
			}
			current = &domain.Candle{
				Time: bucket,
				Open: pt.Price, High: pt.Price, Low: pt.Price, Close: pt.Price,
			}
		}
		if pt.Price > current.High {
			current.High = pt.Price
		}
		if pt.Price < current.Low {
			current.Low = pt.Price
		}
		current.Close = pt.Price
		current.Volume = volumes[i]
	}
	if current != nil {
		candles = append(candles, *current)
	}

	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func (p *DexScreenerProvider) fetch(ctx context.Context, assetID string) ([]byte, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", p.baseURL, assetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return buf, nil
}

func (p *DexScreenerProvider) record(assetID string, snap *domain.MarketSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.history[assetID] = append(p.history[assetID], domain.PricePoint{
		Time:         snap.CapturedAt,
		Price:        snap.PriceUSD,
		LiquidityUSD: snap.LiquidityUSD,
	})
	p.volumes[assetID] = append(p.volumes[assetID], snap.Volume24hUSD)

	if len(p.history[assetID]) > historyCapacity {
		p.history[assetID] = p.history[assetID][1:]
		p.volumes[assetID] = p.volumes[assetID][1:]
	}
}

// bestPair picks the highest-liquidity pair; pairs without a liquidity
// block cannot be compared and are skipped. When the query is a ticker
// rather than an address, the token endpoint returns pairs for
// lookalike tokens too, so pairs whose base symbol matches the query
// are preferred.
func bestPair(pairs []dexPair, query string) (*dexPair, error) {
	pick := func(matchSymbol bool) *dexPair {
		var best *dexPair
		for i := range pairs {
			pair := &pairs[i]
			if pair.Liquidity == nil {
				continue
			}
			if matchSymbol && !strings.EqualFold(pair.BaseToken.Symbol, query) {
				continue
			}
			if best == nil || pair.Liquidity.USD > best.Liquidity.USD {
				best = pair
			}
		}
		return best
	}

	best := pick(true)
	if best == nil {
		best = pick(false)
	}
	if best == nil {
		return nil, fmt.Errorf("no pair with liquidity data")
	}
	return best, nil
}

func (d *dexPair) toSnapshot(assetID string) (*domain.MarketSnapshot, error) {
	if d.PriceUSD == "" {
		return nil, fmt.Errorf("pair missing priceUsd")
	}
	price, err := strconv.ParseFloat(d.PriceUSD, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed priceUsd %q: %w", d.PriceUSD, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("non-positive priceUsd %f", price)
	}
	if d.PairCreatedAt == 0 {
		return nil, fmt.Errorf("pair missing pairCreatedAt")
	}

	return &domain.MarketSnapshot{
		AssetID:           assetID,
		PriceUSD:          price,
		Volume24hUSD:      d.Volume.H24,
		LiquidityUSD:      d.Liquidity.USD,
		PriceChange24hPct: d.PriceChange.H24,
		BuyCount24h:       d.Txns.H24.Buys,
		SellCount24h:      d.Txns.H24.Sells,
		PairCreatedAt:     time.UnixMilli(d.PairCreatedAt),
		CapturedAt:        time.Now(),
	}, nil
}
