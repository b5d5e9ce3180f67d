package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrNoPayouts indicates an empty payout list.
	ErrNoPayouts = errors.New("tx: no payouts")

	// ErrInvalidPayout indicates a payout with a non-positive amount or a
	// malformed destination address.
	ErrInvalidPayout = errors.New("tx: invalid payout")

	// ErrInvalidAddress indicates a bech32 address that cannot be decoded
	// or carries an unknown prefix.
	ErrInvalidAddress = errors.New("tx: invalid address")

	// ErrInvalidParams indicates protocol parameters that cannot price a
	// transaction (zero linear coefficient).
	ErrInvalidParams = errors.New("tx: invalid protocol parameters")

	// ErrBelowMinUTXO indicates a change output whose lovelace is positive
	// but below the protocol minimum; the caller must absorb it by
	// selecting more inputs, never by dropping or rounding the change.
	ErrBelowMinUTXO = errors.New("tx: change below minimum utxo value")

	// ErrFeeConvergence indicates the fee/size fixed point did not
	// stabilize within the iteration ceiling. This signals a fee-model or
	// size-estimation bug, not a funding problem.
	ErrFeeConvergence = errors.New("tx: fee estimation did not converge")

	// ErrUnbalanced indicates the final conservation check failed: total
	// input value does not equal total output value plus fee. Always a
	// programming bug.
	ErrUnbalanced = errors.New("tx: conservation invariant violated")

	// ErrMetadataTooLong indicates a metadata message line over the
	// per-string ledger limit.
	ErrMetadataTooLong = errors.New("tx: metadata message line too long")

	// ErrSerialize indicates CBOR encoding of the draft failed.
	ErrSerialize = errors.New("tx: serialization failed")
)
