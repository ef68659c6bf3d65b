package accounts

import (
	"github.com/fastprodman/fliprooms/internal/infra/pgutils"
	"github.com/fastprodman/fliprooms/internal/repos/accounts"
)

var _ accounts.Accounts = (*accountsRepo)(nil)

type accountsRepo struct{ q pgutils.Querier }

func New(q pgutils.Querier) *accountsRepo {
	return &accountsRepo{q: q}
}

const accountColumns = `id, identity, display_name, balance, created_at, updated_at`
