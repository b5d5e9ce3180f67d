package chain

import (
	"context"

	"github.com/bomlabs/airdrop-go/tx"
	"github.com/bomlabs/airdrop-go/utxo"
)

// MockLedger is a test double for Ledger. All function fields must be set
// before the corresponding method is called.
type MockLedger struct {
	UTXOsFn              func(ctx context.Context, address string) (*utxo.Set, error)
	ProtocolParametersFn func(ctx context.Context) (tx.ProtocolParameters, error)
}

// Compile-time interface check.
var _ Ledger = (*MockLedger)(nil)

func (m *MockLedger) UTXOs(ctx context.Context, address string) (*utxo.Set, error) {
	return m.UTXOsFn(ctx, address)
}

func (m *MockLedger) ProtocolParameters(ctx context.Context) (tx.ProtocolParameters, error) {
	return m.ProtocolParametersFn(ctx)
}
