package inventory

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"
)

type TxOperator interface {
	SetClient(newClient *gorm.DB) TxOperator
	GetClient() *gorm.DB
}

type (
	Tx struct {
		tx        *gorm.DB
		parent    *Tx
		inherited bool
		finished  bool
	}

	// TxCtx is the context key for inherited transaction
	TxCtx struct{}
)

// WithTx wraps the given inventory client with a transaction. If ctx already
// carries an unfinished transaction, the client joins it and Commit/Rollback
// become no-ops for the inner scope.
func WithTx[T TxOperator](ctx context.Context, c T) (T, *Tx, context.Context, error) {
	var txWrapper *Tx

	if txInherited, ok := ctx.Value(TxCtx{}).(*Tx); ok && !txInherited.finished {
		txWrapper = &Tx{inherited: true, tx: txInherited.tx, parent: txInherited}
	} else {
		tx := c.GetClient().Begin()
		if tx.Error != nil {
			return c, nil, ctx, fmt.Errorf("failed to create transaction: %w", tx.Error)
		}

		txWrapper = &Tx{inherited: false, tx: tx}
		ctx = context.WithValue(ctx, TxCtx{}, txWrapper)
	}

	return c.SetClient(txWrapper.tx).(T), txWrapper, ctx, nil
}

// InTx reports whether ctx carries an unfinished transaction.
func InTx(ctx context.Context) bool {
	tx, ok := ctx.Value(TxCtx{}).(*Tx)
	return ok && !tx.finished
}

func Rollback(tx *Tx) error {
	if !tx.inherited {
		tx.finished = true
		return tx.tx.Rollback().Error
	}

	return nil
}

func Commit(tx *Tx) error {
	if !tx.inherited {
		tx.finished = true
		return tx.tx.Commit().Error
	}
	return nil
}

// clientFromCtx returns the transaction carried by ctx if any, otherwise db.
func clientFromCtx(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(TxCtx{}).(*Tx); ok && !tx.finished {
		return tx.tx
	}
	return db
}
