package tx

import "fmt"

const (
	// MetadataLabelMsg is the registered label for wallet-visible message
	// metadata (CIP-20).
	MetadataLabelMsg = uint64(674)

	// MaxMetadatumStringLen is the ledger's per-string metadata limit in bytes.
	MaxMetadatumStringLen = 64
)

// Metadata is the optional auxiliary payload attached to a transaction:
// a list of wallet-visible message lines under the msg label.
type Metadata struct {
	Messages []string
}

// NewMetadata validates message lines against the ledger string limit.
func NewMetadata(messages ...string) (*Metadata, error) {
	for i, m := range messages {
		if len(m) > MaxMetadatumStringLen {
			return nil, fmt.Errorf("%w: line %d is %d bytes", ErrMetadataTooLong, i, len(m))
		}
	}
	return &Metadata{Messages: messages}, nil
}

// IsEmpty reports whether there is nothing to attach.
func (m *Metadata) IsEmpty() bool {
	return m == nil || len(m.Messages) == 0
}
