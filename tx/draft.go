// Package tx assembles balanced, unsigned fund-distribution transactions:
// it drafts recipient and change outputs over a selected input set, prices
// the draft with the protocol fee model, and iterates selection until every
// unit of every asset class is accounted for across inputs, outputs and fee.
// Signing and submission are out of scope; the product is a serialized
// unsigned transaction body a wallet can verify and sign.
package tx

import (
	"fmt"

	"github.com/bomlabs/airdrop-go/asset"
	"github.com/bomlabs/airdrop-go/utxo"
)

// Payout is one requested disbursement: a destination address and a
// positive lovelace amount.
type Payout struct {
	Address string
	Amount  uint64
}

// validate rejects non-positive amounts and undecodable addresses.
func (p Payout) validate() error {
	if p.Amount == 0 {
		return fmt.Errorf("%w: zero amount for %s", ErrInvalidPayout, p.Address)
	}
	if _, err := DecodeAddress(p.Address); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayout, err)
	}
	return nil
}

// Input references one spent UTXO.
type Input struct {
	TxID  string
	Index uint32
}

// Output pays a value bundle to an address.
type Output struct {
	Address string
	Value   asset.Bag
}

// Draft is an unsigned transaction body under construction. Inputs appear
// in selection order and outputs in payout order with the change output, if
// any, last; both orderings are deterministic so identical inputs always
// serialize to identical bytes.
type Draft struct {
	Inputs  []Input
	Outputs []Output
	Fee     uint64

	// TTL is the last slot the transaction is valid in, nil for no bound.
	// It affects serialized size (and thus fee) but not value accounting.
	TTL *uint64

	// Metadata is the optional auxiliary payload attached to the
	// transaction; it too contributes to serialized size.
	Metadata *Metadata

	// hasChange records whether the last output returns residual value to
	// the sender. A balanced draft without change is permitted only when
	// the fee absorbs all slack exactly.
	hasChange bool
}

// HasChange reports whether the draft's last output is the change output.
func (d *Draft) HasChange() bool {
	return d.hasChange
}

// ChangeOutput returns the change output, or false if the draft has none.
func (d *Draft) ChangeOutput() (Output, bool) {
	if !d.hasChange {
		return Output{}, false
	}
	return d.Outputs[len(d.Outputs)-1], true
}

// inputsFrom converts selected UTXOs into draft inputs, preserving order.
func inputsFrom(selected []utxo.UTXO) []Input {
	inputs := make([]Input, len(selected))
	for i, u := range selected {
		inputs[i] = Input{TxID: u.TxID, Index: u.Index}
	}
	return inputs
}

// totalOutputValue merges the value of every output in the draft.
func (d *Draft) totalOutputValue() asset.Bag {
	total := asset.NewBag()
	for _, o := range d.Outputs {
		total = total.Merge(o.Value)
	}
	return total
}

// VerifyConservation asserts the accounting identity over the finalized
// draft: the merged input value must equal the merged output value plus the
// fee in native currency, with every non-native class conserved exactly. A
// violation is reported as ErrUnbalanced and always indicates a bug.
func (d *Draft) VerifyConservation(selected []utxo.UTXO) error {
	inputTotal := asset.NewBag()
	for _, u := range selected {
		inputTotal = inputTotal.Merge(u.Value)
	}
	spent := d.totalOutputValue().Merge(asset.FromNative(d.Fee))
	if !inputTotal.Equal(spent) {
		return fmt.Errorf("%w: inputs %s, outputs+fee %s", ErrUnbalanced, inputTotal, spent)
	}
	return nil
}
