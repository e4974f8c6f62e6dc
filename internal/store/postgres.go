package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/stockaura/internal/contracts"
)

// PostgresStore keeps snapshots as JSONB rows in signal_snapshots
// ⭐ SSOT: 스냅샷 DB 저장/조회는 여기서만
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on an existing pool (see database.DB.Migrate for the schema)
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Put upserts the snapshot for its ticker
func (r *PostgresStore) Put(ctx context.Context, snap *contracts.SignalSnapshot) error {
	ticker := NormalizeTicker(snap.Ticker)
	if ticker == "" {
		return fmt.Errorf("snapshot has no ticker")
	}

	cp := *snap
	cp.Ticker = ticker
	payload, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO signal_snapshots (ticker, final_signal, payload, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			final_signal = EXCLUDED.final_signal,
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, ticker, string(cp.FinalSignal), payload); err != nil {
		return fmt.Errorf("failed to upsert snapshot %s: %w", ticker, err)
	}
	return nil
}

// Get returns the snapshot for ticker or ErrNotFound
func (r *PostgresStore) Get(ctx context.Context, ticker string) (*contracts.SignalSnapshot, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM signal_snapshots WHERE ticker = $1`,
		NormalizeTicker(ticker),
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	var snap contracts.SignalSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", ticker, err)
	}
	return &snap, nil
}

// List returns every snapshot ordered by ticker
func (r *PostgresStore) List(ctx context.Context) ([]contracts.SignalSnapshot, error) {
	rows, err := r.pool.Query(ctx, `SELECT payload FROM signal_snapshots ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]contracts.SignalSnapshot, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		var snap contracts.SignalSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		out = append(out, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// Delete removes the snapshot for ticker
func (r *PostgresStore) Delete(ctx context.Context, ticker string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM signal_snapshots WHERE ticker = $1`, NormalizeTicker(ticker))
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
