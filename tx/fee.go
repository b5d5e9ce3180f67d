package tx

import "fmt"

// ProtocolParameters are the externally supplied pricing constants. They
// are fetched from the ledger per run; there are no built-in defaults.
type ProtocolParameters struct {
	// MinFeeA is the linear fee coefficient in lovelace per byte.
	MinFeeA uint64

	// MinFeeB is the constant fee term in lovelace.
	MinFeeB uint64

	// MinUTXOValue is the smallest lovelace amount an output may carry.
	MinUTXOValue uint64
}

// Validate rejects parameter sets that cannot price a transaction. A zero
// linear coefficient would make every draft the same price regardless of
// size, which no live network uses and which hides serialization bugs.
func (p ProtocolParameters) Validate() error {
	if p.MinFeeA == 0 {
		return fmt.Errorf("%w: zero linear fee coefficient", ErrInvalidParams)
	}
	return nil
}

// EstimateFee prices a draft: MinFeeB + MinFeeA * serialized size of the
// full unsigned envelope, metadata included. The function is deterministic
// and monotonic in byte size -- a larger draft never prices lower -- which
// the assembler's fixed-point iteration depends on.
//
// The draft's Fee field participates in its own encoding, so the assembler
// re-estimates after writing a new fee until the value stabilizes.
func EstimateFee(d *Draft, params ProtocolParameters) (uint64, error) {
	if d == nil {
		return 0, fmt.Errorf("%w: draft", ErrNilParam)
	}
	if err := params.Validate(); err != nil {
		return 0, err
	}
	data, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	return params.MinFeeB + params.MinFeeA*uint64(len(data)), nil
}
