package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/minichain/node/foundation/blockchain/hasher"
)

// GenesisPreviousHash is the sentinel stored as the previous hash of the
// genesis block. It is not the hash of any block.
const GenesisPreviousHash = "0"

// Set of errors returned when a block doesn't fit the chain it's checked against.
var (
	ErrHashMismatch = errors.New("stored hash doesn't match block content")
	ErrBrokenLink   = errors.New("previous hash doesn't match parent block")
	ErrEncoding     = errors.New("block content can't be encoded")
)

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	Index        uint64  `json:"index"`         // Position of the block in the chain, 0 is genesis.
	Transactions []Tx    `json:"transactions"`  // Ordered transactions, the last one is the mining reward.
	TimeStamp    float64 `json:"timestamp"`     // Seconds since epoch the block was created.
	PreviousHash string  `json:"previous_hash"` // Hash of the parent block.
	Nonce        uint64  `json:"nonce"`         // Value identified to solve the hash solution.
	Hash         string  `json:"hash"`          // Hash of the other fields when last computed.
}

// content is the set of fields covered by the block hash.
type content struct {
	Index        uint64  `json:"index"`
	Transactions []Tx    `json:"transactions"`
	TimeStamp    float64 `json:"timestamp"`
	PreviousHash string  `json:"previous_hash"`
	Nonce        uint64  `json:"nonce"`
}

// NewGenesisBlock constructs the first block of a chain. The genesis block
// isn't mined, its hash is computed once from the provided transactions.
func NewGenesisBlock(trans []Tx, now time.Time) Block {
	b := Block{
		Index:        0,
		Transactions: copyTrans(trans),
		TimeStamp:    TimeStamp(now),
		PreviousHash: GenesisPreviousHash,
		Nonce:        0,
	}
	b.Hash = b.ComputeHash()

	return b
}

// ComputeHash returns the hash of the block's content as it is now. It
// doesn't update the stored Hash field.
func (b Block) ComputeHash() string {
	hash, _ := b.Sum()
	return hash
}

// Sum returns the hash of the block's content as it is now, or ErrEncoding
// when the content can't be encoded, such as a NaN or infinite amount.
func (b Block) Sum() (string, error) {
	hash, err := hasher.Sum(content{
		Index:        b.Index,
		Transactions: b.Transactions,
		TimeStamp:    b.TimeStamp,
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
	})
	if err != nil {
		return "", fmt.Errorf("%w: blk[%d]: %w", ErrEncoding, b.Index, err)
	}

	return hash, nil
}

// IsGenesis reports whether this is the first block of a chain.
func (b Block) IsGenesis() bool {
	return b.Index == 0
}

// Copy returns a deep copy of the block.
func (b Block) Copy() Block {
	b.Transactions = copyTrans(b.Transactions)
	return b
}

// ValidateBlock checks the block's stored hash still matches its content
// and that it links to the specified parent block.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	ev := safeHandler(evHandler)

	ev("database: ValidateBlock: validate: blk[%d]: check: stored hash matches content", b.Index)

	hash, err := b.Sum()
	if err != nil {
		return err
	}

	if len(b.Hash) != hasher.Size || b.Hash != hash {
		return fmt.Errorf("%w, got %s, exp %s", ErrHashMismatch, b.Hash, hash)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: previous hash matches parent block", b.Index)

	if b.PreviousHash != previousBlock.Hash {
		return fmt.Errorf("%w, got %s, exp %s", ErrBrokenLink, b.PreviousHash, previousBlock.Hash)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("%d:%s", b.Index, b.Hash)
}

// TimeStamp converts the time into seconds since epoch with sub-second
// precision, the representation stored in a block.
func TimeStamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// =============================================================================

// safeHandler returns a handler that can always be called.
func safeHandler(evHandler func(v string, args ...any)) func(v string, args ...any) {
	if evHandler == nil {
		return func(string, ...any) {}
	}
	return evHandler
}
