package events

import "time"

// Publisher emits domain events to an external broker. Publishing happens
// after the movement has committed and is best-effort: a publish failure
// never fails the operation.
type Publisher interface {
	// Publish emits one event. The key groups related events (per-account
	// ordering on partitioned brokers).
	Publish(key string, event any) error
	Close() error
}

// MovementCompleted is emitted once per committed ledger entry.
type MovementCompleted struct {
	EntryID       string    `json:"entry_id"`
	AccountID     string    `json:"account_id"`
	Kind          string    `json:"kind"`
	Amount        int64     `json:"amount"`
	CounterpartID string    `json:"counterpart_id,omitempty"`
	TransferID    string    `json:"transfer_id,omitempty"`
	NewBalance    int64     `json:"new_balance"`
	OccurredAt    time.Time `json:"occurred_at"`
}
