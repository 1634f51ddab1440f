package postgres

import (
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
)

// NewTxManager returns a manager whose transactions are picked up by the
// storages through trmpgx.DefaultCtxGetter.
func NewTxManager(db trmpgx.Transactional) *manager.Manager {
	return manager.Must(trmpgx.NewDefaultFactory(db))
}
