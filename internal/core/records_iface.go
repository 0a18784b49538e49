//go:generate go run go.uber.org/mock/mockgen -source=records_iface.go -destination=../mocks/mock_records.go -package=mocks
package core

import (
	"context"

	"github.com/dkeye/Meet/internal/domain"
)

// RecordChecker is the only view the relay has of the meeting-record store.
type RecordChecker interface {
	Exists(ctx context.Context, id domain.SessionID) (bool, error)
}
