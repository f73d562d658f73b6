package ledger

import (
	"errors"

	"github.com/minichain/node/foundation/blockchain/balance"
	"github.com/minichain/node/foundation/blockchain/database"
)

// ErrBlockNotFound is returned when a block is requested by an index that
// isn't in the chain.
var ErrBlockNotFound = errors.New("block not found")

// SnapshotChain returns a copy of every block in the chain starting with the
// genesis block.
func (l *Ledger) SnapshotChain() []database.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.copyChain()
}

// SnapshotPending returns a copy of the transactions waiting to be mined.
func (l *Ledger) SnapshotPending() []database.Tx {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.mempool.Copy()
}

// QueryBlock returns a copy of the block at the specified index.
func (l *Ledger) QueryBlock(index uint64) (database.Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index >= uint64(len(l.chain)) {
		return database.Block{}, ErrBlockNotFound
	}

	return l.chain[index].Copy(), nil
}

// LatestBlock returns a copy of the last block in the chain.
func (l *Ledger) LatestBlock() database.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.chain[len(l.chain)-1].Copy()
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.chain)
}

// PendingCount returns the number of transactions waiting to be mined.
func (l *Ledger) PendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.mempool.Count()
}

// AllBalances replays every transaction in the chain and returns the net
// balance of every address. Balances are never cached so they can't drift
// from the chain.
func (l *Ledger) AllBalances() map[database.Address]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return balance.Aggregate(l.chain)
}

// BalanceOf returns the balance for the address, zero if the address has
// never been part of a transaction.
func (l *Ledger) BalanceOf(address database.Address) float64 {
	return l.AllBalances()[address]
}

// Difficulty returns the number of leading zeros required in a block hash.
func (l *Ledger) Difficulty() uint {
	return l.difficulty
}

// MiningReward returns the amount credited to the miner of a block.
func (l *Ledger) MiningReward() float64 {
	return l.miningReward
}

// =============================================================================

// copyChain returns a deep copy of the chain. The caller must hold the lock.
func (l *Ledger) copyChain() []database.Block {
	blocks := make([]database.Block, len(l.chain))
	for i, block := range l.chain {
		blocks[i] = block.Copy()
	}
	return blocks
}
