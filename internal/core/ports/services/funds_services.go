package services

import (
	"context"

	"github.com/finvault/ebank/internal/core/domain"
)

// MovementResult is the outcome of a successful single-account movement.
type MovementResult struct {
	NewBalance int64
	Entry      domain.LedgerEntry
}

// TransferResult is the outcome of a successful transfer. Entries[0] is the
// sender's TRANSFER_OUT leg, Entries[1] the receiver's TRANSFER_IN leg.
type TransferResult struct {
	SenderBalance   int64
	ReceiverBalance int64
	Entries         [2]domain.LedgerEntry
}

// FundsSvcFacade is the funds-movement engine: it validates and applies
// deposits, withdrawals, and transfers against account state, enforcing
// atomicity and the non-negative balance invariant. Amounts are minor
// currency units; callers convert decimals before invoking the engine.
type FundsSvcFacade interface {
	Deposit(ctx context.Context, accountID string, amount int64, description, category string) (*MovementResult, error)
	Withdraw(ctx context.Context, accountID string, amount int64, description, category string) (*MovementResult, error)
	Transfer(ctx context.Context, senderID, receiverID string, amount int64, description string) (*TransferResult, error)
}
