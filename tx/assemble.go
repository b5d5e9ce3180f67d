package tx

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/bomlabs/airdrop-go/asset"
	"github.com/bomlabs/airdrop-go/utxo"
)

// maxBalanceRounds bounds the fee/size fixed-point iteration. Every retry
// strictly raises the native requirement, so hitting the ceiling means the
// fee model or size estimation is oscillating, not that funds ran out.
const maxBalanceRounds = 16

// Assembler builds balanced, unsigned transactions from a UTXO snapshot and
// a payout list. It is a pure function of its inputs: no state is cached
// between Assemble calls, and the same snapshot, payouts and parameters
// always produce byte-identical output.
type Assembler struct {
	params   ProtocolParameters
	ttl      *uint64
	metadata *Metadata
}

// NewAssembler creates an assembler priced by the given protocol parameters.
func NewAssembler(params ProtocolParameters) (*Assembler, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Assembler{params: params}, nil
}

// SetTTL sets the last valid slot for assembled transactions.
func (a *Assembler) SetTTL(slot uint64) {
	a.ttl = &slot
}

// SetMetadata attaches auxiliary metadata to assembled transactions.
func (a *Assembler) SetMetadata(m *Metadata) {
	a.metadata = m
}

// Result is a finalized, conservation-checked unsigned transaction.
type Result struct {
	Draft    *Draft
	Selected []utxo.UTXO
	TxID     string
	Raw      []byte
}

// CborHex returns the serialized unsigned transaction as lowercase hex,
// the form wallet import files carry.
func (r *Result) CborHex() string {
	return hex.EncodeToString(r.Raw)
}

// Assemble runs the balancing loop: select inputs, draft outputs, price the
// draft, and widen the selection until the fee fits inside the change. Each
// round either terminates or raises the native requirement to exactly what
// the round proved necessary, so the loop converges or fails fast.
//
// Residual value -- lovelace slack and every non-native asset on the
// selected inputs -- returns to changeAddress in a single change output. A
// draft is accepted without change only when the fee absorbs the slack
// exactly. Before returning, the full conservation invariant is re-verified
// against the selected inputs.
func (a *Assembler) Assemble(pool *utxo.Set, payouts []Payout, changeAddress string) (*Result, error) {
	if pool == nil {
		return nil, fmt.Errorf("%w: pool", ErrNilParam)
	}
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

	var payoutNative uint64
	for _, p := range payouts {
		next := payoutNative + p.Amount
		if next < payoutNative {
			return nil, fmt.Errorf("%w: payout total overflows", ErrInvalidPayout)
		}
		payoutNative = next
	}

	var (
		requiredNative = payoutNative
		requiredAssets = asset.NewBag()
		fee            uint64
	)

	for round := 0; round < maxBalanceRounds; round++ {
		selected, err := utxo.Select(pool, requiredNative, requiredAssets)
		if err != nil {
			return nil, err
		}

		// Draft with no dust floor: the provisional change still carries the
		// future fee as slack and may legitimately collapse to zero. The
		// floor is enforced below, on the post-fee change.
		draft, err := BuildOutputs(payouts, selected, changeAddress, 0)
		if err != nil {
			return nil, err
		}
		draft.TTL = a.ttl
		draft.Metadata = a.metadata
		draft.Fee = fee // previous estimate, so the fee field's encoded width is realistic

		newFee, err := EstimateFee(draft, a.params)
		if err != nil {
			return nil, err
		}
		if newFee > fee {
			// A larger fee may widen its own encoding; re-price before
			// trusting the number.
			fee = newFee
			continue
		}

		var selectedNative uint64
		for _, u := range selected {
			selectedNative += u.Value.NativeAmount()
		}

		changeOut, hasChange := draft.ChangeOutput()
		changeAssets := asset.NewBag()
		if hasChange {
			changeAssets = changeOut.Value.WithoutNative()
		}

		switch {
		case selectedNative < payoutNative+fee:
			// Fee pushed the change negative; require full coverage, plus a
			// spendable change output if assets must ride home.
			needed := payoutNative + fee
			if !changeAssets.IsEmpty() {
				needed += a.params.MinUTXOValue
			}
			requiredNative = needed

		default:
			changeNative := selectedNative - payoutNative - fee
			switch {
			case changeNative == 0 && changeAssets.IsEmpty():
				// Change collapsed to nothing once the fee is taken out:
				// exact consumption, the fee absorbs all slack.
				if hasChange {
					draft.Outputs = draft.Outputs[:len(draft.Outputs)-1]
					draft.hasChange = false
				}
				draft.Fee = fee
				return a.finalize(draft, selected)

			case changeNative < a.params.MinUTXOValue:
				// Dust change: absorb it by selecting more, never drop it.
				requiredNative = payoutNative + fee + a.params.MinUTXOValue

			default:
				finalChange, err := changeAssets.WithQuantity(asset.Lovelace, quantity(changeNative))
				if err != nil {
					return nil, err
				}
				draft.Outputs[len(draft.Outputs)-1].Value = finalChange
				draft.Fee = fee
				return a.finalize(draft, selected)
			}
		}
	}

	return nil, fmt.Errorf("%w: gave up after %d rounds", ErrFeeConvergence, maxBalanceRounds)
}

// quantity lifts a lovelace amount into a Bag quantity.
func quantity(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// finalize re-verifies conservation and serializes the balanced draft.
func (a *Assembler) finalize(draft *Draft, selected []utxo.UTXO) (*Result, error) {
	if err := draft.VerifyConservation(selected); err != nil {
		return nil, err
	}
	raw, err := draft.Bytes()
	if err != nil {
		return nil, err
	}
	txid, err := draft.TxID()
	if err != nil {
		return nil, err
	}
	return &Result{Draft: draft, Selected: selected, TxID: txid, Raw: raw}, nil
}
