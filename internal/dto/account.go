package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvault/ebank/internal/core/domain"
	"github.com/finvault/ebank/internal/utils"
)

// AccountResponse defines the data returned for an account. The balance is
// converted from minor units to a decimal for presentation.
type AccountResponse struct {
	AccountID    string          `json:"accountID"`
	OwnerID      string          `json:"ownerID"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to an AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		OwnerID:      acc.OwnerID,
		Balance:      utils.FromMinorUnits(acc.Balance),
		CurrencyCode: acc.CurrencyCode,
		IsActive:     acc.IsActive,
		CreatedAt:    acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	AccountID    string          `json:"accountID"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
}

// SummaryResponse carries the dashboard aggregates per entry kind.
type SummaryResponse struct {
	AccountID         string          `json:"accountID"`
	TotalDeposits     decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals  decimal.Decimal `json:"totalWithdrawals"`
	TotalTransfersOut decimal.Decimal `json:"totalTransfersOut"`
	TotalTransfersIn  decimal.Decimal `json:"totalTransfersIn"`
}
