package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/config"
	"github.com/solwatch/memetrader/internal/domain"
)

// slowMarket delays snapshot fetches so a scoring pass is observably
// in flight.
type slowMarket struct {
	MockMarket
	delay time.Duration
}

func (m *slowMarket) GetSnapshot(ctx context.Context, assetID string) (*domain.MarketSnapshot, error) {
	time.Sleep(m.delay)
	return m.MockMarket.GetSnapshot(ctx, assetID)
}

func newSnapshotWorker(market domain.MarketDataProvider, assets []config.AssetConfig) *SnapshotWorker {
	analysis := newAnalysis(market, &MockSocial{Sentiment: domain.NeutralSentiment()})
	return NewSnapshotWorker(analysis, assets, zap.NewNop())
}

func TestSnapshotWorkerStopWaitsForInitialPass(t *testing.T) {
	market := &slowMarket{
		MockMarket: MockMarket{Snap: testSnapshot(), Candles: testCandles(24)},
		delay:      50 * time.Millisecond,
	}
	assets := []config.AssetConfig{{ID: "SOLMEME", Ticker: "MEME"}}
	w := newSnapshotWorker(market, assets)

	if err := w.Start("@every 1h"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()

	// Stop returned, so the immediate pass must have completed and
	// populated the cache.
	report, ok := w.Latest("SOLMEME")
	if !ok {
		t.Fatal("No report cached after Stop; initial pass not awaited")
	}
	if report.Risk == nil {
		t.Fatal("Cached report missing risk assessment")
	}
}

func TestSnapshotWorkerLatestUnknownAsset(t *testing.T) {
	w := newSnapshotWorker(&MockMarket{Snap: testSnapshot()}, nil)

	if _, ok := w.Latest("NEVERSCORED"); ok {
		t.Fatal("Latest returned a report for an unscored asset")
	}
}

func TestSnapshotWorkerConcurrentReads(t *testing.T) {
	market := &MockMarket{Snap: testSnapshot(), Candles: testCandles(24)}
	assets := []config.AssetConfig{{ID: "SOLMEME", Ticker: "MEME"}}
	w := newSnapshotWorker(market, assets)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				w.Latest("SOLMEME")
			}
		}()
	}
	w.runPass(context.Background())
	wg.Wait()

	if _, ok := w.Latest("SOLMEME"); !ok {
		t.Fatal("Pass did not populate the cache")
	}
}
