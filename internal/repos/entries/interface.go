package entries

import (
	"context"
	"fmt"

	"github.com/fastprodman/fliprooms/internal/domain"
)

var ErrDuplicateEntry = fmt.Errorf("ledger entry key already used: %w", domain.ErrDuplicate)

type Entries interface {
	Insert(ctx context.Context, e domain.Entry) error
	// ListByAccount returns at most limit entries, newest first.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Entry, error)
}
