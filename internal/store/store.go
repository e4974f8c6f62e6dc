// Package store persists the latest signal snapshot per ticker.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/wonny/stockaura/internal/contracts"
)

// ErrNotFound is returned when no snapshot exists for a ticker
var ErrNotFound = errors.New("snapshot not found")

// Store keeps the most recent snapshot per ticker
// ⭐ SSOT: 스냅샷 저장/조회 인터페이스
type Store interface {
	Put(ctx context.Context, snap *contracts.SignalSnapshot) error
	Get(ctx context.Context, ticker string) (*contracts.SignalSnapshot, error)
	List(ctx context.Context) ([]contracts.SignalSnapshot, error)
	Delete(ctx context.Context, ticker string) error
}

// NormalizeTicker upper-cases and trims a ticker symbol
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
