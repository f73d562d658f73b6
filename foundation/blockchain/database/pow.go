package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMiningCancelled is returned when a proof of work search is stopped
// before a solution is found.
var ErrMiningCancelled = errors.New("mining cancelled")

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	PrevBlock  Block
	Trans      []Tx
	Difficulty uint
	EvHandler  func(v string, args ...any)
}

// POW constructs a new Block on top of the previous block and performs the
// work to find a nonce that solves the cryptographic POW puzzle.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	nb := Block{
		Index:        args.PrevBlock.Index + 1,
		Transactions: copyTrans(args.Trans),
		TimeStamp:    TimeStamp(time.Now()),
		PreviousHash: args.PrevBlock.Hash,
		Nonce:        0, // Will be identified by the POW algorithm.
	}

	hash, err := Solve(ctx, &nb, args.Difficulty, args.EvHandler)
	if err != nil {
		return Block{}, err
	}
	nb.Hash = hash

	return nb, nil
}

// Solve does the work of mining to find a valid hash for the specified
// block. The block's nonce is incremented until its hash starts with
// difficulty zeros, and it's left holding the winning value. There is no
// limit on the number of attempts, only a cancelled context stops the search.
// A block that can't be encoded fails right away with ErrEncoding.
func Solve(ctx context.Context, b *Block, difficulty uint, evHandler func(v string, args ...any)) (string, error) {
	ev := safeHandler(evHandler)

	ev("database: Solve: MINING: started: blk[%d]: difficulty[%d]", b.Index, difficulty)
	defer ev("database: Solve: MINING: completed")

	// Log the transactions that are a part of this potential block.
	for _, tx := range b.Transactions {
		ev("database: Solve: MINING: tx[%s]", tx)
	}

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Solve: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if err := ctx.Err(); err != nil {
			ev("database: Solve: MINING: CANCELLED: attempts[%d]", attempts)
			return "", fmt.Errorf("%w: %w", ErrMiningCancelled, err)
		}

		// Hash the block and check if we have solved the puzzle.
		hash, err := b.Sum()
		if err != nil {
			ev("database: Solve: MINING: ERROR: %s", err)
			return "", err
		}

		if !IsHashSolved(difficulty, hash) {
			b.Nonce++
			continue
		}

		ev("database: Solve: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PreviousHash, hash, b.Nonce)
		ev("database: Solve: MINING: attempts[%d]", attempts)

		return hash, nil
	}
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// The first difficulty characters of the hash need to be zeros.
func IsHashSolved(difficulty uint, hash string) bool {
	if hash == "" || uint(len(hash)) < difficulty {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == int(difficulty)
}
