package ledger

import "errors"

var (
	ErrLedgerRead    = errors.New("ledger read failed")
	ErrLedgerWrite   = errors.New("ledger write failed")
	ErrInvalidTable  = errors.New("invalid ledger table name")
	ErrLedgerStorage = errors.New("ledger storage error")
)
