package public

import "github.com/minichain/node/foundation/blockchain/database"

// NewTx is what a client sends to add a transaction to the mempool.
type NewTx struct {
	From   string  `json:"from" validate:"required"`
	To     string  `json:"to" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

// MineRequest names the address credited with the mining reward. An
// empty miner uses the node's default miner.
type MineRequest struct {
	Miner string `json:"miner"`
}

type health struct {
	Status      string `json:"status"`
	ChainLength int    `json:"chain_length"`
}

type blocks struct {
	Blocks []database.Block `json:"blocks"`
	Length int              `json:"length"`
}

type pending struct {
	Transactions []database.Tx `json:"transactions"`
	Count        int           `json:"count"`
}

type addressBalance struct {
	Address database.Address `json:"address"`
	Name    string           `json:"name"`
	Balance float64          `json:"balance"`
}

type balances struct {
	Balances []addressBalance `json:"balances"`
	Count    int       `json:"count"`
}

type txAdded struct {
	Message      string `json:"message"`
	PendingCount int    `json:"pending_count"`
}

type mined struct {
	Message string         `json:"message"`
	Hash    string         `json:"hash"`
	Block   database.Block `json:"block"`
	IsValid bool           `json:"isValid"`
}

type chainStatus struct {
	IsValid bool `json:"isValid"`
	Length  int  `json:"length"`
}
