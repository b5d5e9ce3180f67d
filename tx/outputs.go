package tx

import (
	"fmt"

	"github.com/bomlabs/airdrop-go/asset"
	"github.com/bomlabs/airdrop-go/utxo"
)

// BelowMinUTXOError reports a change output whose lovelace is under the
// protocol minimum. It matches ErrBelowMinUTXO under errors.Is; the
// assembler reads the shortfall to grow the next selection round.
type BelowMinUTXOError struct {
	ChangeNative uint64
	MinUTXO      uint64
}

func (e *BelowMinUTXOError) Error() string {
	return fmt.Sprintf("tx: change of %d lovelace is below the %d minimum",
		e.ChangeNative, e.MinUTXO)
}

// Is lets errors.Is(err, ErrBelowMinUTXO) match the structured error.
func (e *BelowMinUTXOError) Is(target error) bool {
	return target == ErrBelowMinUTXO
}

// Shortfall returns the lovelace missing to make the change spendable.
func (e *BelowMinUTXOError) Shortfall() uint64 {
	return e.MinUTXO - e.ChangeNative
}

// BuildOutputs drafts the output side of a transaction over the selected
// inputs: one output per payout in payout order, then a single change
// output returning the entire residual value -- every token and NFT riding
// on the selected inputs included -- to the sender. The draft is unbalanced:
// its fee is zero and the change still contains the future fee as slack.
//
// When the residual is empty no change output is emitted; the draft reports
// HasChange() == false so the assembler knows there is zero slack for the
// fee and must select further inputs.
//
// BuildOutputs fails with a BelowMinUTXOError when the change output's
// lovelace is below minUTXO: dust change is never silently dropped or
// rounded, the caller must absorb it by selecting more inputs.
func BuildOutputs(payouts []Payout, selected []utxo.UTXO, changeAddress string, minUTXO uint64) (*Draft, error) {
	if len(payouts) == 0 {
		return nil, ErrNoPayouts
	}
	for _, p := range payouts {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	if _, err := DecodeAddress(changeAddress); err != nil {
		return nil, fmt.Errorf("change address: %w", err)
	}

	inputTotal := asset.NewBag()
	for _, u := range selected {
		inputTotal = inputTotal.Merge(u.Value)
	}

	outputs := make([]Output, 0, len(payouts)+1)
	paid := asset.NewBag()
	for _, p := range payouts {
		outputs = append(outputs, Output{Address: p.Address, Value: asset.FromNative(p.Amount)})
		paid = paid.Merge(asset.FromNative(p.Amount))
	}

	// Underflow here means the selection did not cover the payouts, which
	// the selector guarantees against; surface it as the accounting bug it is.
	changeBag, err := inputTotal.Subtract(paid)
	if err != nil {
		return nil, err
	}

	draft := &Draft{Inputs: inputsFrom(selected), Outputs: outputs}
	if changeBag.IsEmpty() {
		return draft, nil
	}

	if native := changeBag.NativeAmount(); native < minUTXO {
		return nil, &BelowMinUTXOError{ChangeNative: native, MinUTXO: minUTXO}
	}

	draft.Outputs = append(draft.Outputs, Output{Address: changeAddress, Value: changeBag})
	draft.hasChange = true
	return draft, nil
}
