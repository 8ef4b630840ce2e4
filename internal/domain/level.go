package domain

import "time"

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// LevelStatus is the lifecycle state of an AutoLevel. Triggered and
// Cancelled are terminal: a level never leaves either state.
type LevelStatus string

const (
	LevelPending   LevelStatus = "PENDING"
	LevelTriggered LevelStatus = "TRIGGERED"
	LevelCancelled LevelStatus = "CANCELLED"
)

// AutoLevel is a stored conditional order: when a price tick satisfies
// the trigger condition, the scheduler dispatches exactly one execution
// for it. Owned by the scheduler for its asset; other components only
// see copies.
type AutoLevel struct {
	ID           string      `json:"id"`
	AssetID      string      `json:"asset_id"`
	Side         Side        `json:"side"`
	TriggerPrice float64     `json:"trigger_price"` // > 0
	Amount       float64     `json:"amount"`        // > 0
	Status       LevelStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// WatchStatus is the two-state lifecycle of a fixed-target watch.
type WatchStatus string

const (
	WatchActive WatchStatus = "ACTIVE"
	WatchDone   WatchStatus = "DONE"
)

// TargetWatch sells a whole position when price reaches the target or
// falls to the stop loss, then stops monitoring.
type TargetWatch struct {
	AssetID     string      `json:"asset_id"`
	TargetPrice float64     `json:"target_price"`
	StopLoss    float64     `json:"stop_loss"`
	Amount      float64     `json:"amount"`
	Status      WatchStatus `json:"status"`
}
