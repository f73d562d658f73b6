package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_TamperDetection(t *testing.T) {
	type table struct {
		name    string
		tamper  func(b *database.Block) func()
		wantErr error
	}

	tt := []table{
		{
			name: "amount",
			tamper: func(b *database.Block) func() {
				org := b.Transactions[0].Amount
				b.Transactions[0].Amount = 5000
				return func() { b.Transactions[0].Amount = org }
			},
			wantErr: database.ErrHashMismatch,
		},
		{
			name: "receiver",
			tamper: func(b *database.Block) func() {
				org := b.Transactions[0].To
				b.Transactions[0].To = "X"
				return func() { b.Transactions[0].To = org }
			},
			wantErr: database.ErrHashMismatch,
		},
		{
			name: "nonce",
			tamper: func(b *database.Block) func() {
				b.Nonce++
				return func() { b.Nonce-- }
			},
			wantErr: database.ErrHashMismatch,
		},
		{
			name: "timestamp",
			tamper: func(b *database.Block) func() {
				org := b.TimeStamp
				b.TimeStamp += 1
				return func() { b.TimeStamp = org }
			},
			wantErr: database.ErrHashMismatch,
		},
		{
			name: "hash",
			tamper: func(b *database.Block) func() {
				org := b.Hash
				b.Hash = "f" + org[1:]
				return func() { b.Hash = org }
			},
			wantErr: database.ErrHashMismatch,
		},
		{
			name: "link",
			tamper: func(b *database.Block) func() {
				org := *b
				b.PreviousHash = "0"
				b.Hash = b.ComputeHash()
				return func() { *b = org }
			},
			wantErr: database.ErrBrokenLink,
		},
	}

	t.Log("Given the need to detect changes to mined blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen changing the %s of a block.", testID, tst.name)
			{
				f := func(t *testing.T) {
					l, err := New(Config{Genesis: genesis.Default(1, 10)})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %v", failed, testID, err)
					}

					for i := 0; i < 2; i++ {
						l.AddTransaction("A", "B", 5)
						if _, err := l.MineCurrentPending(context.Background(), "M"); err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %v", failed, testID, err)
						}
					}

					if !l.IsChainValid() {
						t.Fatalf("\t%s\tTest %d:\tShould start with a valid chain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould start with a valid chain.", success, testID)

					restore := tst.tamper(&l.chain[1])

					err = l.ValidateChain()
					if !errors.Is(err, ErrChainTampered) || !errors.Is(err, tst.wantErr) {
						t.Fatalf("\t%s\tTest %d:\tShould detect the change: %v", failed, testID, err)
					}
					if l.IsChainValid() {
						t.Fatalf("\t%s\tTest %d:\tShould report an invalid chain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould detect the change: %v", success, testID, err)

					restore()

					if !l.IsChainValid() {
						t.Fatalf("\t%s\tTest %d:\tShould be valid again once restored: %v", failed, testID, l.ValidateChain())
					}
					t.Logf("\t%s\tTest %d:\tShould be valid again once restored.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_RecomputedHashBreaksLink(t *testing.T) {
	t.Log("Given the need to detect a rewritten block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a block's hash is recomputed after a change.", testID)
		{
			l, err := New(Config{Genesis: genesis.Default(1, 10)})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %v", failed, testID, err)
			}

			for i := 0; i < 2; i++ {
				l.AddTransaction("A", "B", 5)
				if _, err := l.MineCurrentPending(context.Background(), "M"); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %v", failed, testID, err)
				}
			}

			l.chain[1].Transactions[0].Amount = 1
			l.chain[1].Hash = l.chain[1].ComputeHash()

			if err := l.ValidateChain(); !errors.Is(err, database.ErrBrokenLink) {
				t.Fatalf("\t%s\tTest %d:\tShould detect the child no longer links: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould detect the child no longer links.", success, testID)
		}
	}
}
