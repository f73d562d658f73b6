package ledger

import "github.com/minichain/node/foundation/blockchain/database"

// AddTransaction adds a transaction to the end of the mempool and returns
// the number of transactions waiting to be mined. No balance or amount checks
// are performed, the caller is trusted to provide a positive amount.
func (l *Ledger) AddTransaction(from database.Address, to database.Address, amount float64) int {
	tx := database.NewTx(from, to, amount)

	l.mu.RLock()
	n := l.mempool.Add(tx)
	l.mu.RUnlock()

	l.evHandler("ledger: AddTransaction: tx[%s]: pending[%d]", tx, n)

	// Let the background worker know there is work to do.
	if l.Worker != nil {
		l.Worker.SignalStartMining()
	}

	return n
}
