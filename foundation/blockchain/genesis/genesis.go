// Package genesis maintains access to the genesis settings of a ledger.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/minichain/node/foundation/blockchain/database"
)

// Settings used when no genesis file is provided.
const (
	DefaultDifficulty   = 4
	DefaultMiningReward = 10
)

// placeholder is the receiver of the zero value credit recorded in the
// genesis block when there are no starting balances.
const placeholder database.Address = "genesis"

// Genesis represents the genesis file.
type Genesis struct {
	Difficulty   uint               `json:"difficulty"`    // Number of leading zeros required in a block hash.
	MiningReward float64            `json:"mining_reward"` // Reward credited to the miner of a block.
	Balances     map[string]float64 `json:"balances"`      // Starting balances credited by the system.
}

// Default returns a genesis with the specified settings and no starting
// balances.
func Default(difficulty uint, miningReward float64) Genesis {
	return Genesis{
		Difficulty:   difficulty,
		MiningReward: miningReward,
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the starting balances can be recorded.
func (g Genesis) Validate() error {
	for address, value := range g.Balances {
		if address == "" {
			return fmt.Errorf("genesis balance for empty address")
		}

		if value < 0 {
			return fmt.Errorf("genesis balance for %q is negative: %v", address, value)
		}
	}

	return nil
}

// Transactions returns the system credits recorded in the genesis block,
// ordered by address. A genesis without balances records a single zero
// value credit.
func (g Genesis) Transactions() []database.Tx {
	if len(g.Balances) == 0 {
		return []database.Tx{database.NewTx(database.System, placeholder, 0)}
	}

	addresses := make([]string, 0, len(g.Balances))
	for address := range g.Balances {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	trans := make([]database.Tx, len(addresses))
	for i, address := range addresses {
		trans[i] = database.NewTx(database.System, database.Address(address), g.Balances[address])
	}

	return trans
}
