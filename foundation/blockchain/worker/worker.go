// Package worker implements background mining for the ledger.
package worker

import (
	"context"
	"sync"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/ledger"
)

// Worker manages the POW workflows for the ledger.
type Worker struct {
	ledger      *ledger.Ledger
	miner       database.Address
	wg          sync.WaitGroup
	shut        chan struct{}
	startMining chan bool
	evHandler   ledger.EventHandler

	// ctx is cancelled on shutdown to stop an in-flight search.
	ctx    context.Context
	cancel context.CancelFunc
}

// Run creates a worker, registers the worker with the ledger, and starts up
// the background mining goroutine. Blocks are mined for the specified miner.
func Run(l *ledger.Ledger, miner database.Address, evHandler ledger.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		ledger:      l,
		miner:       miner,
		shut:        make(chan struct{}),
		startMining: make(chan bool, 1),
		evHandler:   evHandler,
		ctx:         ctx,
		cancel:      cancel,
	}

	// Register this worker with the ledger.
	l.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	// Pick up anything that was pending before the worker started.
	if l.PendingCount() > 0 {
		w.SignalStartMining()
	}

	return &w
}

// =============================================================================
// These methods implement the ledger.Worker interface.

// Shutdown cancels any mining in progress and terminates the goroutines
// performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: signal cancel mining")
	w.cancel()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	if w.isShutdown() {
		return
	}

	select {
	case w.startMining <- true:
		w.evHandler("worker: SignalStartMining: mining signaled")
	default:
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
