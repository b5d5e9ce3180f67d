// Package asset models multi-asset ledger value: the native currency
// (lovelace) plus any number of policy-scoped token classes. A Bag is an
// immutable, normalized bundle of per-class quantities; every operation
// returns a new Bag and never mutates its receiver or arguments.
package asset

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

const (
	// PolicyIDHexLen is the length of a hex-encoded minting policy id (28 bytes).
	PolicyIDHexLen = 56

	// LovelacePerADA is the number of base units per whole ADA.
	LovelacePerADA = 1_000_000
)

// Class identifies one asset class. PolicyID and Name are lowercase hex.
// The zero Class is the native currency (lovelace), which has no policy.
type Class struct {
	PolicyID string
	Name     string
}

// Lovelace is the distinguished native-currency class.
var Lovelace = Class{}

// IsNative reports whether the class is the native currency.
func (c Class) IsNative() bool {
	return c.PolicyID == "" && c.Name == ""
}

// String renders the class as "policyid.assetname", or "lovelace" for the
// native class.
func (c Class) String() string {
	if c.IsNative() {
		return "lovelace"
	}
	if c.Name == "" {
		return c.PolicyID
	}
	return c.PolicyID + "." + c.Name
}

// Validate checks the class identifier shape: native classes are always
// valid; non-native classes need a well-formed policy id.
func (c Class) Validate() error {
	if c.IsNative() {
		return nil
	}
	if len(c.PolicyID) != PolicyIDHexLen || !isHex(c.PolicyID) {
		return fmt.Errorf("%w: policy id %q", ErrInvalidClass, c.PolicyID)
	}
	if c.Name != "" && !isHex(c.Name) {
		return fmt.Errorf("%w: asset name %q", ErrInvalidClass, c.Name)
	}
	return nil
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return len(s)%2 == 0
}

// Bag is a normalized mapping of asset classes to positive quantities.
// The zero Bag is empty and ready to use. Quantities are arbitrary-precision
// non-negative integers; a normalized Bag holds no zero entries.
type Bag struct {
	quantities map[Class]*big.Int
}

// NewBag returns an empty Bag.
func NewBag() Bag {
	return Bag{}
}

// FromNative returns a Bag holding only the given lovelace quantity.
func FromNative(lovelace uint64) Bag {
	if lovelace == 0 {
		return Bag{}
	}
	return Bag{quantities: map[Class]*big.Int{
		Lovelace: new(big.Int).SetUint64(lovelace),
	}}
}

// WithQuantity returns a copy of the bag with the class quantity replaced.
// A zero quantity removes the entry. Negative quantities are rejected.
func (b Bag) WithQuantity(c Class, qty *big.Int) (Bag, error) {
	if qty == nil {
		return Bag{}, fmt.Errorf("%w: quantity for %s", ErrNilQuantity, c)
	}
	if qty.Sign() < 0 {
		return Bag{}, fmt.Errorf("%w: %s for %s", ErrNegativeQuantity, qty, c)
	}
	out := b.clone()
	if qty.Sign() == 0 {
		delete(out.quantities, c)
	} else {
		if out.quantities == nil {
			out.quantities = make(map[Class]*big.Int, 1)
		}
		out.quantities[c] = new(big.Int).Set(qty)
	}
	return out.normalized(), nil
}

// Quantity returns the quantity of the given class, zero if absent.
// The returned value is a copy.
func (b Bag) Quantity(c Class) *big.Int {
	if q, ok := b.quantities[c]; ok {
		return new(big.Int).Set(q)
	}
	return new(big.Int)
}

// NativeAmount returns the lovelace quantity, 0 if absent. Ledger native
// supply fits comfortably in a uint64.
func (b Bag) NativeAmount() uint64 {
	if q, ok := b.quantities[Lovelace]; ok {
		return q.Uint64()
	}
	return 0
}

// IsEmpty reports whether the bag holds no quantities at all.
func (b Bag) IsEmpty() bool {
	return len(b.quantities) == 0
}

// Len returns the number of distinct classes in the bag.
func (b Bag) Len() int {
	return len(b.quantities)
}

// Classes returns the classes present in the bag, native first, then
// sorted by policy id and asset name.
func (b Bag) Classes() []Class {
	out := make([]Class, 0, len(b.quantities))
	for c := range b.quantities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsNative() != out[j].IsNative() {
			return out[i].IsNative()
		}
		if out[i].PolicyID != out[j].PolicyID {
			return out[i].PolicyID < out[j].PolicyID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Merge returns a new Bag with per-class quantities summed.
func (b Bag) Merge(other Bag) Bag {
	out := b.clone()
	for c, q := range other.quantities {
		if out.quantities == nil {
			out.quantities = make(map[Class]*big.Int, len(other.quantities))
		}
		if cur, ok := out.quantities[c]; ok {
			out.quantities[c] = new(big.Int).Add(cur, q)
		} else {
			out.quantities[c] = new(big.Int).Set(q)
		}
	}
	return out.normalized()
}

// Subtract returns b minus other. It fails with ErrInsufficientAsset if any
// resulting quantity would go negative; a subtraction underflow means the
// caller's accounting is broken, so nothing is returned in that case.
func (b Bag) Subtract(other Bag) (Bag, error) {
	out := b.clone()
	for c, q := range other.quantities {
		cur, ok := out.quantities[c]
		if !ok {
			return Bag{}, fmt.Errorf("%w: %s not present, need %s", ErrInsufficientAsset, c, q)
		}
		diff := new(big.Int).Sub(cur, q)
		if diff.Sign() < 0 {
			return Bag{}, fmt.Errorf("%w: %s has %s, need %s", ErrInsufficientAsset, c, cur, q)
		}
		if diff.Sign() == 0 {
			delete(out.quantities, c)
		} else {
			out.quantities[c] = diff
		}
	}
	return out.normalized(), nil
}

// Covers reports whether b holds at least the quantity of every class in
// required.
func (b Bag) Covers(required Bag) bool {
	for c, q := range required.quantities {
		cur, ok := b.quantities[c]
		if !ok || cur.Cmp(q) < 0 {
			return false
		}
	}
	return true
}

// WithoutNative returns a copy of the bag with the native entry removed.
func (b Bag) WithoutNative() Bag {
	if _, ok := b.quantities[Lovelace]; !ok {
		return b.clone()
	}
	out := b.clone()
	delete(out.quantities, Lovelace)
	return out
}

// Equal reports structural equality over the normalized mappings.
func (b Bag) Equal(other Bag) bool {
	if len(b.quantities) != len(other.quantities) {
		return false
	}
	for c, q := range b.quantities {
		oq, ok := other.quantities[c]
		if !ok || q.Cmp(oq) != 0 {
			return false
		}
	}
	return true
}

// String renders the bag as "q1 class1 + q2 class2 ..." in Classes order,
// or "empty" for an empty bag. Intended for error messages and logs.
func (b Bag) String() string {
	if b.IsEmpty() {
		return "empty"
	}
	var sb strings.Builder
	for i, c := range b.Classes() {
		if i > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%s %s", b.quantities[c], c)
	}
	return sb.String()
}

// clone makes a deep copy so callers can never observe shared state.
func (b Bag) clone() Bag {
	if len(b.quantities) == 0 {
		return Bag{}
	}
	m := make(map[Class]*big.Int, len(b.quantities))
	for c, q := range b.quantities {
		m[c] = new(big.Int).Set(q)
	}
	return Bag{quantities: m}
}

// normalized strips zero entries and collapses the empty map to the zero Bag.
func (b Bag) normalized() Bag {
	for c, q := range b.quantities {
		if q.Sign() == 0 {
			delete(b.quantities, c)
		}
	}
	if len(b.quantities) == 0 {
		return Bag{}
	}
	return b
}
