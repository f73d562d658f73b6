// Package ledger is the core API for the blockchain and implements all the
// business rules for adding transactions, mining blocks, validating the
// chain and deriving balances.
package ledger

import (
	"sync"
	"time"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/genesis"
	"github.com/minichain/node/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events occur in the
// processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining in the background.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// =============================================================================

// Config represents the configuration required to start a ledger.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// Ledger manages the chain of blocks and the transactions waiting to be
// mined. The chain is append only and held in memory.
type Ledger struct {
	difficulty   uint
	miningReward float64
	evHandler    EventHandler

	// mu guards the chain and the publication of a mined block. A block is
	// appended and its transactions removed from the mempool while holding
	// the write lock, so readers never see one change without the other.
	mu      sync.RWMutex
	chain   []database.Block
	mempool *mempool.Mempool

	// mineMu makes sure only one proof of work search is in flight.
	mineMu sync.Mutex

	// Worker is registered by the worker package when background mining
	// is enabled. It can be nil.
	Worker Worker
}

// New constructs a new ledger holding only the genesis block.
func New(cfg Config) (*Ledger, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	genesisBlock := database.NewGenesisBlock(cfg.Genesis.Transactions(), time.Now())
	ev("ledger: New: genesis: blk[%s]: difficulty[%d]: reward[%v]", genesisBlock, cfg.Genesis.Difficulty, cfg.Genesis.MiningReward)

	l := Ledger{
		difficulty:   cfg.Genesis.Difficulty,
		miningReward: cfg.Genesis.MiningReward,
		evHandler:    ev,
		chain:        []database.Block{genesisBlock},
		mempool:      mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start mining in the background.

	return &l, nil
}

// Shutdown cleanly brings the ledger down.
func (l *Ledger) Shutdown() {
	l.evHandler("ledger: Shutdown: started")
	defer l.evHandler("ledger: Shutdown: completed")

	// Stop any background mining activity.
	if l.Worker != nil {
		l.Worker.Shutdown()
	}
}
