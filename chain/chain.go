// Package chain is the ledger query collaborator: it fetches a wallet's
// UTXO snapshot and the protocol pricing parameters from a Blockfrost-style
// HTTP API. Failures are fatal for the current run and propagate unchanged;
// the client never retries internally.
package chain

import (
	"context"

	"github.com/bomlabs/airdrop-go/tx"
	"github.com/bomlabs/airdrop-go/utxo"
)

// Ledger is the query surface the transaction core consumes. Implementations
// must return a validated snapshot (duplicate outputs rejected at
// construction) and the current pricing constants.
type Ledger interface {
	// UTXOs fetches the full spendable snapshot for an address. An address
	// the ledger has never seen yields an empty set, not an error.
	UTXOs(ctx context.Context, address string) (*utxo.Set, error)

	// ProtocolParameters fetches the current fee and minimum-output
	// constants.
	ProtocolParameters(ctx context.Context) (tx.ProtocolParameters, error)
}
