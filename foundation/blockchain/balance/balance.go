// Package balance derives account balances by replaying the transactions
// recorded in the chain.
package balance

import (
	"sort"

	"github.com/minichain/node/foundation/blockchain/database"
)

// Sheet represents the net balance of every address seen while replaying
// transactions. A sheet is built for a single replay and isn't safe for
// concurrent use.
type Sheet struct {
	sheet map[database.Address]float64
}

// NewSheet constructs an empty balance sheet.
func NewSheet() *Sheet {
	return &Sheet{
		sheet: make(map[database.Address]float64),
	}
}

// ApplyTransaction debits the sender and credits the receiver. The system
// address is never recorded on the sheet.
func (bs *Sheet) ApplyTransaction(tx database.Tx) {
	if !tx.From.IsSystem() {
		bs.sheet[tx.From] -= tx.Amount
	}

	if !tx.To.IsSystem() {
		bs.sheet[tx.To] += tx.Amount
	}
}

// ApplyBlock applies every transaction in the block in order.
func (bs *Sheet) ApplyBlock(block database.Block) {
	for _, tx := range block.Transactions {
		bs.ApplyTransaction(tx)
	}
}

// Balance returns the balance for the address, zero if it was never seen.
func (bs *Sheet) Balance(address database.Address) float64 {
	return bs.sheet[address]
}

// Copy returns a copy of the balances on the sheet.
func (bs *Sheet) Copy() map[database.Address]float64 {
	sheet := make(map[database.Address]float64, len(bs.sheet))
	for address, value := range bs.sheet {
		sheet[address] = value
	}
	return sheet
}

// =============================================================================

// Aggregate replays the blocks in order and returns the resulting balance
// for every address that took part in a transaction.
func Aggregate(blocks []database.Block) map[database.Address]float64 {
	bs := NewSheet()
	for _, block := range blocks {
		bs.ApplyBlock(block)
	}

	return bs.Copy()
}

// Entry is a single address and its balance.
type Entry struct {
	Address database.Address
	Balance float64
}

// Sorted returns the balances ordered from the highest balance to the
// lowest. Ties are ordered by address so the result is stable.
func Sorted(balances map[database.Address]float64) []Entry {
	entries := make([]Entry, 0, len(balances))
	for address, value := range balances {
		entries = append(entries, Entry{Address: address, Balance: value})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Balance != entries[j].Balance {
			return entries[i].Balance > entries[j].Balance
		}
		return entries[i].Address < entries[j].Address
	})

	return entries
}
