package utxo

import (
	"fmt"
	"math/big"

	"github.com/bomlabs/airdrop-go/asset"
)

// InsufficientFundsError reports that the pool cannot cover a selection
// requirement even when every UTXO is spent. It matches ErrInsufficientFunds
// under errors.Is and carries the exact shortfall for user remediation.
type InsufficientFundsError struct {
	ShortfallNative uint64
	ShortfallAssets asset.Bag
}

func (e *InsufficientFundsError) Error() string {
	if e.ShortfallAssets.IsEmpty() {
		return fmt.Sprintf("utxo: insufficient funds: short %d lovelace", e.ShortfallNative)
	}
	return fmt.Sprintf("utxo: insufficient funds: short %d lovelace and %s",
		e.ShortfallNative, e.ShortfallAssets)
}

// Is lets errors.Is(err, ErrInsufficientFunds) match the structured error.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Select picks UTXOs from the pool sufficient to cover requiredNative
// lovelace and a per-class superset of requiredAssets. Candidates are
// scanned largest lovelace first (ties by txid then index), so the common
// all-native case funds itself with the fewest inputs and therefore the
// smallest fee.
//
// Two phases over the same ordering: first accumulate until the native
// target is met, taking asset coverage along the way; then, if classes are
// still missing, keep scanning but add only UTXOs that carry at least one
// missing class. Assets riding on already-selected outputs count toward
// coverage, so a token is never picked up twice.
//
// Selecting zero inputs is valid only for a zero requirement. Select fails
// with an InsufficientFundsError if the whole pool cannot cover the
// requirement.
func Select(pool *Set, requiredNative uint64, requiredAssets asset.Bag) ([]UTXO, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	if requiredNative == 0 && requiredAssets.IsEmpty() {
		return nil, nil
	}

	var (
		selected    []UTXO
		accumulated = asset.NewBag()
		nativeSum   uint64
	)

	for _, u := range pool.sortedByNativeDesc() {
		nativeMet := nativeSum >= requiredNative
		assetsMet := accumulated.Covers(requiredAssets)
		if nativeMet && assetsMet {
			break
		}
		if nativeMet && !carriesMissing(u, requiredAssets, accumulated) {
			// Native is funded; only outputs holding a still-missing
			// class are worth the extra input.
			continue
		}
		selected = append(selected, u)
		accumulated = accumulated.Merge(u.Value)
		nativeSum += u.Value.NativeAmount()
	}

	if nativeSum >= requiredNative && accumulated.Covers(requiredAssets) {
		return selected, nil
	}

	// Even the full pool cannot cover the requirement; report what is missing.
	total := pool.TotalAssets()
	shortNative := uint64(0)
	if tn := total.NativeAmount(); tn < requiredNative {
		shortNative = requiredNative - tn
	}
	return nil, &InsufficientFundsError{
		ShortfallNative: shortNative,
		ShortfallAssets: missingAssets(requiredAssets, total),
	}
}

// carriesMissing reports whether u holds any class still uncovered.
func carriesMissing(u UTXO, required, accumulated asset.Bag) bool {
	for _, c := range required.Classes() {
		if c.IsNative() {
			continue
		}
		if accumulated.Quantity(c).Cmp(required.Quantity(c)) >= 0 {
			continue
		}
		if u.Value.Quantity(c).Sign() > 0 {
			return true
		}
	}
	return false
}

// missingAssets returns the non-native per-class deficit of available
// against required.
func missingAssets(required, available asset.Bag) asset.Bag {
	missing := asset.NewBag()
	for _, c := range required.Classes() {
		if c.IsNative() {
			continue
		}
		deficit := new(big.Int).Sub(required.Quantity(c), available.Quantity(c))
		if deficit.Sign() > 0 {
			// WithQuantity only fails on nil/negative, neither possible here.
			missing, _ = missing.WithQuantity(c, deficit)
		}
	}
	return missing
}
