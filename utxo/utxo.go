// Package utxo holds the wallet's spendable-output snapshot and the input
// selection algorithm that picks outputs to fund a transaction. A Set is an
// immutable candidate pool: removing spent outputs yields a new Set, the
// original is never touched.
package utxo

import (
	"fmt"
	"sort"

	"github.com/bomlabs/airdrop-go/asset"
)

// TxIDHexLen is the length of a hex-encoded transaction id (32 bytes).
const TxIDHexLen = 64

// Ref uniquely identifies an unspent output by its producing transaction
// and output index.
type Ref struct {
	TxID  string
	Index uint32
}

// String renders the ref in the conventional "txid#index" form.
func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.TxID, r.Index)
}

// UTXO is one unspent output: its identity, the address that owns it and
// the full value it carries (lovelace included). UTXOs are immutable once
// observed; spending one removes it from the pool, it is never mutated.
type UTXO struct {
	TxID    string
	Index   uint32
	Address string
	Value   asset.Bag
}

// Ref returns the output's identity.
func (u UTXO) Ref() Ref {
	return Ref{TxID: u.TxID, Index: u.Index}
}

// validate checks the identity shape of a single UTXO.
func (u UTXO) validate() error {
	if len(u.TxID) != TxIDHexLen {
		return fmt.Errorf("%w: txid %q", ErrInvalidTxID, u.TxID)
	}
	for _, r := range u.TxID {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return fmt.Errorf("%w: txid %q", ErrInvalidTxID, u.TxID)
		}
	}
	return nil
}

// Set is an immutable pool of candidate UTXOs. The zero value is not usable;
// construct one with NewSet.
type Set struct {
	utxos []UTXO
	byRef map[Ref]struct{}
}

// NewSet builds a Set from a snapshot of unspent outputs. Construction fails
// with ErrDuplicateUTXO if two entries share a (txid, index) pair: a
// duplicated snapshot is malformed input and is never deduplicated silently.
func NewSet(utxos []UTXO) (*Set, error) {
	s := &Set{
		utxos: make([]UTXO, 0, len(utxos)),
		byRef: make(map[Ref]struct{}, len(utxos)),
	}
	for _, u := range utxos {
		if err := u.validate(); err != nil {
			return nil, err
		}
		ref := u.Ref()
		if _, ok := s.byRef[ref]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUTXO, ref)
		}
		s.byRef[ref] = struct{}{}
		s.utxos = append(s.utxos, u)
	}
	return s, nil
}

// Size returns the number of UTXOs in the pool.
func (s *Set) Size() int {
	return len(s.utxos)
}

// IsEmpty reports whether the pool holds no UTXOs.
func (s *Set) IsEmpty() bool {
	return len(s.utxos) == 0
}

// TotalNative sums the lovelace quantity across the pool.
func (s *Set) TotalNative() uint64 {
	var total uint64
	for _, u := range s.utxos {
		total += u.Value.NativeAmount()
	}
	return total
}

// TotalAssets merges the value of every UTXO in the pool into one Bag.
func (s *Set) TotalAssets() asset.Bag {
	total := asset.NewBag()
	for _, u := range s.utxos {
		total = total.Merge(u.Value)
	}
	return total
}

// Contains reports whether the pool holds the given output.
func (s *Set) Contains(ref Ref) bool {
	_, ok := s.byRef[ref]
	return ok
}

// UTXOs returns a copy of the pool contents in construction order.
func (s *Set) UTXOs() []UTXO {
	out := make([]UTXO, len(s.utxos))
	copy(out, s.utxos)
	return out
}

// Remove returns a new Set excluding the given outputs. The receiver is
// unchanged. Removing a ref that is not present is a no-op.
func (s *Set) Remove(refs ...Ref) *Set {
	drop := make(map[Ref]struct{}, len(refs))
	for _, r := range refs {
		drop[r] = struct{}{}
	}
	out := &Set{
		utxos: make([]UTXO, 0, len(s.utxos)),
		byRef: make(map[Ref]struct{}, len(s.utxos)),
	}
	for _, u := range s.utxos {
		if _, gone := drop[u.Ref()]; gone {
			continue
		}
		out.byRef[u.Ref()] = struct{}{}
		out.utxos = append(out.utxos, u)
	}
	return out
}

// sortedByNativeDesc returns the pool ordered largest lovelace quantity
// first, ties broken by txid then index so identical snapshots always
// produce the same ordering.
func (s *Set) sortedByNativeDesc() []UTXO {
	out := s.UTXOs()
	sort.Slice(out, func(i, j int) bool {
		ni, nj := out[i].Value.NativeAmount(), out[j].Value.NativeAmount()
		if ni != nj {
			return ni > nj
		}
		if out[i].TxID != out[j].TxID {
			return out[i].TxID < out[j].TxID
		}
		return out[i].Index < out[j].Index
	})
	return out
}
