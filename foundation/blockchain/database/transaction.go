package database

import (
	"encoding/json"
	"fmt"
)

// Address identifies a participant in a transaction. The empty address
// represents the system, the origin of genesis credits and mining rewards.
type Address string

// System is the address used as the origin of system credits.
const System Address = ""

// IsSystem reports whether the address represents the system.
func (a Address) IsSystem() bool {
	return a == System
}

// MarshalJSON implements the json.Marshaler interface. The system address
// is written as null.
func (a Address) MarshalJSON() ([]byte, error) {
	if a.IsSystem() {
		return []byte("null"), nil
	}
	return json.Marshal(string(a))
}

// UnmarshalJSON implements the json.Unmarshaler interface. A null value
// is read as the system address.
func (a *Address) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = System
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = Address(s)

	return nil
}

// =============================================================================

// Tx is the transactional information between two parties. Order within a
// block is the only identity a transaction has.
type Tx struct {
	Amount float64 `json:"amount"` // Value moved from the sender to the receiver.
	From   Address `json:"from"`   // Account debited, null for system credits.
	To     Address `json:"to"`     // Account credited.
}

// NewTx constructs a new transaction. The amount is not validated, callers
// are expected to reject non-positive values before they reach the ledger.
func NewTx(from Address, to Address, amount float64) Tx {
	return Tx{
		Amount: amount,
		From:   from,
		To:     to,
	}
}

// NewRewardTx constructs the system credit paid to a miner for a block.
func NewRewardTx(miner Address, reward float64) Tx {
	return NewTx(System, miner, reward)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	from := string(tx.From)
	if tx.From.IsSystem() {
		from = "system"
	}

	return fmt.Sprintf("%s->%s:%v", from, tx.To, tx.Amount)
}

// copyTrans returns a copy of the transactions so the caller can't
// modify the backing array of a stored block.
func copyTrans(trans []Tx) []Tx {
	if trans == nil {
		return nil
	}

	cpy := make([]Tx, len(trans))
	copy(cpy, trans)
	return cpy
}
