package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/minichain/node/foundation/blockchain/database"
)

// ErrNoPendingTransactions is returned by MinePending when there is nothing
// waiting to be mined.
var ErrNoPendingTransactions = errors.New("no pending transactions to mine")

// MineCurrentPending bundles the pending transactions and a reward for the
// miner into a new block, solves the proof of work for it and appends it to
// the chain. The transactions included in the block are removed from the
// mempool. Transactions added while the search is running stay pending for
// the next block.
//
// The search is unbounded unless the context is cancelled, in which case
// database.ErrMiningCancelled is returned and nothing changes. An empty
// mempool produces a block holding only the reward.
func (l *Ledger) MineCurrentPending(ctx context.Context, miner database.Address) (database.Block, error) {
	return l.mine(ctx, miner, true)
}

// MinePending works like MineCurrentPending but returns
// ErrNoPendingTransactions instead of mining a reward only block. The check
// and the mine happen under the same lock, so another miner can't empty the
// mempool in between.
func (l *Ledger) MinePending(ctx context.Context, miner database.Address) (database.Block, error) {
	return l.mine(ctx, miner, false)
}

func (l *Ledger) mine(ctx context.Context, miner database.Address, allowEmpty bool) (database.Block, error) {
	l.mineMu.Lock()
	defer l.mineMu.Unlock()

	l.evHandler("ledger: MineCurrentPending: MINING: started: miner[%s]", miner)
	defer l.evHandler("ledger: MineCurrentPending: MINING: completed")

	// Capture the work for this block. Only mining changes the tip of the
	// chain or removes transactions, and mineMu is held.
	l.mu.RLock()
	pending := l.mempool.Copy()
	latest := l.chain[len(l.chain)-1]
	l.mu.RUnlock()

	if len(pending) == 0 && !allowEmpty {
		return database.Block{}, ErrNoPendingTransactions
	}

	trans := append(pending, database.NewRewardTx(miner, l.miningReward))

	l.evHandler("ledger: MineCurrentPending: MINING: perform POW: txs[%d]", len(trans))

	// The search happens outside the lock so queries aren't blocked.
	block, err := database.POW(ctx, database.POWArgs{
		PrevBlock:  latest,
		Trans:      trans,
		Difficulty: l.difficulty,
		EvHandler:  l.evHandler,
	})
	if err != nil {
		return database.Block{}, err
	}

	l.evHandler("ledger: MineCurrentPending: MINING: update local state: blk[%s]", block)

	if err := l.appendBlock(block, len(pending)); err != nil {
		return database.Block{}, err
	}

	return block.Copy(), nil
}

// appendBlock adds the block to the chain and removes the transactions it
// was built from as a single change.
func (l *Ledger) appendBlock(block database.Block, included int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := block.ValidateBlock(l.chain[len(l.chain)-1], l.evHandler); err != nil {
		return fmt.Errorf("appending block %d: %w", block.Index, err)
	}

	l.chain = append(l.chain, block)
	l.mempool.Remove(included)

	return nil
}
