package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finvault/ebank/internal/apperrors"
	"github.com/finvault/ebank/internal/core/domain"
	portsrepo "github.com/finvault/ebank/internal/core/ports/repositories"
	"github.com/finvault/ebank/internal/models"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entry data and
// the balance mutations they belong to.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

func toModelEntry(d domain.LedgerEntry) models.LedgerEntry {
	m := models.LedgerEntry{
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Kind:        string(d.Kind),
		Amount:      d.Amount,
		Status:      string(d.Status),
		Description: d.Description,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
	}
	if d.CounterpartID != "" {
		m.CounterpartID = sql.NullString{String: d.CounterpartID, Valid: true}
	}
	if d.TransferID != "" {
		m.TransferID = sql.NullString{String: d.TransferID, Valid: true}
	}
	return m
}

func toDomainEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		AccountID:     m.AccountID,
		Kind:          domain.EntryKind(m.Kind),
		Amount:        m.Amount,
		CounterpartID: m.CounterpartID.String,
		TransferID:    m.TransferID.String,
		Status:        domain.EntryStatus(m.Status),
		Description:   m.Description,
		Category:      m.Category,
		CreatedAt:     m.CreatedAt,
	}
}

const insertEntryQuery = `
	INSERT INTO ledger_entries (entry_id, account_id, kind, amount, counterpart_id, transfer_id, status, description, category, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

const selectEntryColumns = `entry_id, account_id, kind, amount, counterpart_id, transfer_id, status, description, category, created_at`

// ApplyMovement commits the balance change and its entry in one database
// transaction: no split commit of a balance without its entry. The balance
// update is conditional on staying non-negative, which backstops the
// engine's own check under the account lock.
func (r *PgxLedgerRepository) ApplyMovement(ctx context.Context, accountID string, delta int64, entry domain.LedgerEntry) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	newBalance, err := r.adjustBalanceInTx(ctx, tx, accountID, delta, entry.CreatedAt)
	if err != nil {
		return 0, err
	}

	m := toModelEntry(entry)
	_, err = tx.Exec(ctx, insertEntryQuery,
		m.EntryID, m.AccountID, m.Kind, m.Amount, m.CounterpartID, m.TransferID, m.Status, m.Description, m.Category, m.CreatedAt,
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to insert ledger entry "+m.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// RevertMovement restores the balance and flips the entry to FAILED, atomically.
func (r *PgxLedgerRepository) RevertMovement(ctx context.Context, accountID string, delta int64, entryID string, now time.Time) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	newBalance, err := r.adjustBalanceInTx(ctx, tx, accountID, delta, now)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `UPDATE ledger_entries SET status = $2 WHERE entry_id = $1;`, entryID, string(domain.StatusFailed))
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to mark ledger entry failed "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// RecordEntry appends an entry without touching any balance.
func (r *PgxLedgerRepository) RecordEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := toModelEntry(entry)
	_, err := r.Pool.Exec(ctx, insertEntryQuery,
		m.EntryID, m.AccountID, m.Kind, m.Amount, m.CounterpartID, m.TransferID, m.Status, m.Description, m.Category, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record ledger entry "+m.EntryID, err)
	}
	return nil
}

// adjustBalanceInTx applies delta to the account balance inside tx,
// refusing to drive it negative, and returns the new balance.
func (r *PgxLedgerRepository) adjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta int64, now time.Time) (int64, error) {
	var newBalance int64
	err := tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3
		WHERE account_id = $1 AND balance + $2 >= 0
		RETURNING balance;
	`, accountID, delta, now).Scan(&newBalance)
	if err == nil {
		return newBalance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.NewAppError(500, "failed to update balance for account "+accountID, err)
	}

	// No row matched: either the account is missing or the guard refused
	// the delta. Distinguish for the caller.
	var exists bool
	if scanErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1);`, accountID).Scan(&exists); scanErr != nil {
		return 0, apperrors.NewAppError(500, "failed to check account existence "+accountID, scanErr)
	}
	if !exists {
		return 0, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return 0, fmt.Errorf("%w: delta %d refused for account %s", apperrors.ErrInsufficientFunds, delta, accountID)
}

func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM ledger_entries WHERE entry_id = $1;`
	var m models.LedgerEntry
	err := r.Pool.QueryRow(ctx, query, entryID).Scan(
		&m.EntryID, &m.AccountID, &m.Kind, &m.Amount, &m.CounterpartID, &m.TransferID, &m.Status, &m.Description, &m.Category, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query ledger entry %s: %w", entryID, err)
	}
	entry := toDomainEntry(m)
	return &entry, nil
}

func (r *PgxLedgerRepository) ListRecent(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + selectEntryColumns + `
		FROM ledger_entries
		WHERE account_id = $1 AND status = $2
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $3;
	`
	return r.queryEntries(ctx, query, accountID, string(domain.StatusCompleted), limit)
}

func (r *PgxLedgerRepository) ListByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + selectEntryColumns + `
		FROM ledger_entries
		WHERE account_id = $1 AND status = $2 AND created_at >= $3 AND created_at <= $4
		ORDER BY created_at DESC, entry_id DESC;
	`
	return r.queryEntries(ctx, query, accountID, string(domain.StatusCompleted), start, end)
}

func (r *PgxLedgerRepository) SumByKind(ctx context.Context, accountID string, kind domain.EntryKind) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE account_id = $1 AND kind = $2 AND status = $3;
	`
	var total int64
	if err := r.Pool.QueryRow(ctx, query, accountID, string(kind), string(domain.StatusCompleted)).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to aggregate entries for account %s: %w", accountID, err)
	}
	return total, nil
}

func (r *PgxLedgerRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + selectEntryColumns + `
		FROM ledger_entries
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $1 OFFSET $2;
	`
	return r.queryEntries(ctx, query, limit, offset)
}

func (r *PgxLedgerRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(&m.EntryID, &m.AccountID, &m.Kind, &m.Amount, &m.CounterpartID, &m.TransferID, &m.Status, &m.Description, &m.Category, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, toDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading ledger entry rows: %w", err)
	}
	return entries, nil
}
