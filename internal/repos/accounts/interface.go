package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/fastprodman/fliprooms/internal/domain"
)

var (
	ErrAccountNotFound   = fmt.Errorf("account %w", domain.ErrNotFound)
	ErrAccountExists     = fmt.Errorf("account %w", domain.ErrDuplicate)
	ErrInsufficientFunds = domain.ErrInsufficientFunds
)

type Accounts interface {
	Insert(ctx context.Context, acc domain.Account) error
	GetByIdentity(ctx context.Context, identity string) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	UpdateDisplayName(ctx context.Context, identity, name string, at time.Time) (domain.Account, error)
	// LockAndGetBalance reads the balance and pins the row for the rest of the
	// enclosing transaction.
	LockAndGetBalance(ctx context.Context, identity string) (int64, error)
	// ApplyDelta adds delta only if the result stays non-negative and returns the
	// new balance. A rejected update returns ErrInsufficientFunds.
	ApplyDelta(ctx context.Context, identity string, delta int64, at time.Time) (int64, error)
}
