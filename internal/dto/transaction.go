package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvault/ebank/internal/core/domain"
	portssvc "github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/utils"
)

// MovementRequest defines the body of a deposit or withdrawal. The amount
// is a decimal in major units; the handler converts it to minor units at
// the single conversion boundary.
type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// TransferRequest defines the body of a transfer. The receiver is addressed
// by email, matching the dashboard's transfer form.
type TransferRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ReceiverEmail string          `json:"receiverEmail" binding:"required,email"`
	Description   string          `json:"description"`
}

// EntryResponse defines the data returned for one ledger entry.
type EntryResponse struct {
	EntryID       string             `json:"entryID"`
	AccountID     string             `json:"accountID"`
	Kind          domain.EntryKind   `json:"kind"`
	Amount        decimal.Decimal    `json:"amount"`
	CounterpartID string             `json:"counterpartID,omitempty"`
	TransferID    string             `json:"transferID,omitempty"`
	Status        domain.EntryStatus `json:"status"`
	Description   string             `json:"description,omitempty"`
	Category      string             `json:"category,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// MovementResponse is returned by deposit and withdraw.
type MovementResponse struct {
	NewBalance decimal.Decimal `json:"newBalance"`
	Entry      EntryResponse   `json:"entry"`
}

// TransferResponse is returned by transfer.
type TransferResponse struct {
	SenderBalance   decimal.Decimal `json:"senderBalance"`
	ReceiverBalance decimal.Decimal `json:"receiverBalance"`
	Entries         []EntryResponse `json:"entries"`
}

// HistoryParams defines query parameters for the history endpoint. When
// both dates are supplied the range filter applies; otherwise the most
// recent entries are returned.
type HistoryParams struct {
	Limit     int        `form:"limit,default=20"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02T15:04:05Z07:00"`
}

// HistoryResponse wraps the entry list.
type HistoryResponse struct {
	AccountID string          `json:"accountID"`
	Entries   []EntryResponse `json:"entries"`
}

// ToEntryResponse converts a domain.LedgerEntry to an EntryResponse DTO.
func ToEntryResponse(e domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:       e.EntryID,
		AccountID:     e.AccountID,
		Kind:          e.Kind,
		Amount:        utils.FromMinorUnits(e.Amount),
		CounterpartID: e.CounterpartID,
		TransferID:    e.TransferID,
		Status:        e.Status,
		Description:   e.Description,
		Category:      e.Category,
		CreatedAt:     e.CreatedAt,
	}
}

// ToListEntryResponse converts a slice of entries to DTOs.
func ToListEntryResponse(entries []domain.LedgerEntry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToEntryResponse(e)
	}
	return res
}

// ToMovementResponse converts an engine MovementResult to its DTO.
func ToMovementResponse(r *portssvc.MovementResult) MovementResponse {
	return MovementResponse{
		NewBalance: utils.FromMinorUnits(r.NewBalance),
		Entry:      ToEntryResponse(r.Entry),
	}
}

// ToTransferResponse converts an engine TransferResult to its DTO.
func ToTransferResponse(r *portssvc.TransferResult) TransferResponse {
	return TransferResponse{
		SenderBalance:   utils.FromMinorUnits(r.SenderBalance),
		ReceiverBalance: utils.FromMinorUnits(r.ReceiverBalance),
		Entries:         ToListEntryResponse(r.Entries[:]),
	}
}
