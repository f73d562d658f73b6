package ledger

import (
	"errors"
	"fmt"
)

// ErrChainTampered is returned when a block no longer matches its stored hash
// or no longer links to its parent.
var ErrChainTampered = errors.New("chain tampered")

// ValidateChain recomputes the hash of every block after genesis and checks
// it against the stored hash and the next block's link. The first violation
// found is returned. The genesis block is trusted by construction and isn't
// checked.
func (l *Ledger) ValidateChain() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := 1; i < len(l.chain); i++ {
		if err := l.chain[i].ValidateBlock(l.chain[i-1], l.evHandler); err != nil {
			l.evHandler("ledger: ValidateChain: WARNING: blk[%d]: %s", i, err)
			return fmt.Errorf("%w: block %d: %w", ErrChainTampered, i, err)
		}
	}

	return nil
}

// IsChainValid reports whether every block in the chain still matches its
// stored hash and links to its parent.
func (l *Ledger) IsChainValid() bool {
	return l.ValidateChain() == nil
}
