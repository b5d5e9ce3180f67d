package utxo

import "errors"

var (
	// ErrDuplicateUTXO indicates the snapshot contains two outputs with the
	// same (txid, index) identity.
	ErrDuplicateUTXO = errors.New("utxo: duplicate utxo in snapshot")

	// ErrInvalidTxID indicates a transaction id is not 32 bytes of lowercase hex.
	ErrInvalidTxID = errors.New("utxo: invalid transaction id")

	// ErrInsufficientFunds indicates the pool cannot cover a selection
	// requirement even using every UTXO.
	ErrInsufficientFunds = errors.New("utxo: insufficient funds")

	// ErrNilPool indicates a nil Set was passed to Select.
	ErrNilPool = errors.New("utxo: nil pool")
)
