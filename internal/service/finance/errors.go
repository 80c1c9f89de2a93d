package finance

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyPaid         = errors.New("transaction is already paid")
)
