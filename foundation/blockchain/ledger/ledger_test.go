package ledger_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/genesis"
	"github.com/minichain/node/foundation/blockchain/ledger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newLedger(t *testing.T, difficulty uint, reward float64) *ledger.Ledger {
	l, err := ledger.New(ledger.Config{
		Genesis: genesis.Default(difficulty, reward),
	})
	ifErrFailNow(t, err)

	return l
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a new ledger.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen constructing a ledger.", testID)
		{
			l := newLedger(t, 2, 10)

			chain := l.SnapshotChain()
			if len(chain) != 1 || l.Length() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have a single block: %d", failed, testID, len(chain))
			}
			t.Logf("\t%s\tTest %d:\tShould have a single block.", success, testID)

			if chain[0].Index != 0 || chain[0].PreviousHash != "0" {
				t.Fatalf("\t%s\tTest %d:\tShould start with the genesis block: %s", failed, testID, chain[0])
			}
			t.Logf("\t%s\tTest %d:\tShould start with the genesis block.", success, testID)

			if len(chain[0].Transactions) != 1 || chain[0].Transactions[0].Amount != 0 || !chain[0].Transactions[0].From.IsSystem() {
				t.Fatalf("\t%s\tTest %d:\tShould hold a single zero value system credit: %v", failed, testID, chain[0].Transactions)
			}
			t.Logf("\t%s\tTest %d:\tShould hold a single zero value system credit.", success, testID)

			if !l.IsChainValid() {
				t.Fatalf("\t%s\tTest %d:\tShould be a valid chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be a valid chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen constructing a ledger with starting balances.", testID)
		{
			l, err := ledger.New(ledger.Config{
				Genesis: genesis.Genesis{
					Difficulty:   1,
					MiningReward: 10,
					Balances:     map[string]float64{"A": 100, "B": 50},
				},
			})
			ifErrFailNow(t, err)

			if l.BalanceOf("A") != 100 || l.BalanceOf("B") != 50 {
				t.Fatalf("\t%s\tTest %d:\tShould credit the starting balances: %v", failed, testID, l.AllBalances())
			}
			t.Logf("\t%s\tTest %d:\tShould credit the starting balances.", success, testID)
		}
	}
}

func Test_MineScenario(t *testing.T) {
	t.Log("Given the need to mine pending transactions.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining one transaction at difficulty 2.", testID)
		{
			l := newLedger(t, 2, 10)

			if n := l.AddTransaction("A", "B", 5); n != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have one pending transaction: %d", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould have one pending transaction.", success, testID)

			block, err := l.MineCurrentPending(context.Background(), "M")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine a block.", success, testID)

			if len(block.Transactions) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould hold the transaction and the reward: %d", failed, testID, len(block.Transactions))
			}
			t.Logf("\t%s\tTest %d:\tShould hold the transaction and the reward.", success, testID)

			reward := block.Transactions[1]
			if !reward.From.IsSystem() || reward.To != "M" || reward.Amount != 10 {
				t.Fatalf("\t%s\tTest %d:\tShould end with the reward for the miner: %s", failed, testID, reward)
			}
			t.Logf("\t%s\tTest %d:\tShould end with the reward for the miner.", success, testID)

			if !strings.HasPrefix(block.Hash, "00") {
				t.Fatalf("\t%s\tTest %d:\tShould have a hash starting with 00: %s", failed, testID, block.Hash)
			}
			t.Logf("\t%s\tTest %d:\tShould have a hash starting with 00.", success, testID)

			if l.PendingCount() != 0 || len(l.SnapshotPending()) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould clear the pending transactions.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould clear the pending transactions.", success, testID)

			exp := map[database.Address]float64{"A": -5, "B": 5, "M": 10, "genesis": 0}
			balances := l.AllBalances()
			if len(balances) != len(exp) {
				t.Fatalf("\t%s\tTest %d:\tShould have %d balances: %v", failed, testID, len(exp), balances)
			}
			for address, value := range exp {
				if balances[address] != value {
					t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, balances[address])
					t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, value)
					t.Fatalf("\t%s\tTest %d:\tShould have correct balance for %s.", failed, testID, address)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould have correct balances.", success, testID)

			if l.BalanceOf("nobody") != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould have a zero balance for an unknown address.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have a zero balance for an unknown address.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining with nothing pending.", testID)
		{
			l := newLedger(t, 1, 10)

			block, err := l.MineCurrentPending(context.Background(), "M")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %v", failed, testID, err)
			}

			if len(block.Transactions) != 1 || block.Transactions[0].To != "M" {
				t.Fatalf("\t%s\tTest %d:\tShould hold only the reward: %v", failed, testID, block.Transactions)
			}
			t.Logf("\t%s\tTest %d:\tShould hold only the reward.", success, testID)
		}
	}
}

func Test_ChainProperties(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		reward     float64
		rounds     []int
	}

	tt := []table{
		{name: "easy", difficulty: 1, reward: 10, rounds: []int{1, 3, 0, 2}},
		{name: "basic", difficulty: 2, reward: 12.5, rounds: []int{2, 2}},
		{name: "hard", difficulty: 3, reward: 50, rounds: []int{1}},
	}

	t.Log("Given the need to maintain the chain invariants.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen mining %d blocks at difficulty %d.", testID, len(tst.rounds), tst.difficulty)
			{
				f := func(t *testing.T) {
					l := newLedger(t, tst.difficulty, tst.reward)

					for round, n := range tst.rounds {
						for i := 0; i < n; i++ {
							l.AddTransaction("A", "B", float64(i+1))
						}

						block, err := l.MineCurrentPending(context.Background(), "M")
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to mine block %d: %v", failed, testID, round+1, err)
						}

						if len(block.Transactions) != n+1 {
							t.Fatalf("\t%s\tTest %d:\tShould include %d transactions, got %d.", failed, testID, n+1, len(block.Transactions))
						}

						if l.PendingCount() != 0 {
							t.Fatalf("\t%s\tTest %d:\tShould empty the mempool.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould consume the pending transactions plus a reward per block.", success, testID)

					chain := l.SnapshotChain()
					if len(chain) != len(tst.rounds)+1 {
						t.Fatalf("\t%s\tTest %d:\tShould have %d blocks, got %d.", failed, testID, len(tst.rounds)+1, len(chain))
					}

					prefix := strings.Repeat("0", int(tst.difficulty))
					for i := 1; i < len(chain); i++ {
						if chain[i].PreviousHash != chain[i-1].Hash {
							t.Fatalf("\t%s\tTest %d:\tShould link block %d to its parent.", failed, testID, i)
						}

						if !strings.HasPrefix(chain[i].Hash, prefix) {
							t.Fatalf("\t%s\tTest %d:\tShould satisfy the difficulty for block %d: %s", failed, testID, i, chain[i].Hash)
						}

						if chain[i].Index != uint64(i) {
							t.Fatalf("\t%s\tTest %d:\tShould number block %d correctly: %d", failed, testID, i, chain[i].Index)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould link every block and satisfy the difficulty.", success, testID)

					if !l.IsChainValid() {
						t.Fatalf("\t%s\tTest %d:\tShould be a valid chain: %v", failed, testID, l.ValidateChain())
					}
					t.Logf("\t%s\tTest %d:\tShould be a valid chain.", success, testID)

					var sum float64
					for _, value := range l.AllBalances() {
						sum += value
					}

					exp := tst.reward * float64(len(tst.rounds))
					if sum != exp {
						t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, sum)
						t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, exp)
						t.Fatalf("\t%s\tTest %d:\tShould conserve value across all balances.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould conserve value across all balances.", success, testID)

					// Changing a snapshot must not change the chain.
					chain[len(chain)-1].Transactions[0].Amount = 1_000_000
					if !l.IsChainValid() {
						t.Fatalf("\t%s\tTest %d:\tShould not be affected by changes to a snapshot.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not be affected by changes to a snapshot.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_ValidThreeBlocks(t *testing.T) {
	t.Log("Given the need to validate an unmodified chain.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the chain has 3 blocks.", testID)
		{
			l := newLedger(t, 2, 10)

			for i := 0; i < 2; i++ {
				l.AddTransaction("A", "B", 1)
				_, err := l.MineCurrentPending(context.Background(), "M")
				ifErrFailNow(t, err)
			}

			if l.Length() != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould have 3 blocks: %d", failed, testID, l.Length())
			}

			if !l.IsChainValid() {
				t.Fatalf("\t%s\tTest %d:\tShould be a valid chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be a valid chain.", success, testID)

			block, err := l.QueryBlock(2)
			if err != nil || block.Index != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould be able to query block 2: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to query block 2.", success, testID)

			if block.Hash != l.LatestBlock().Hash {
				t.Fatalf("\t%s\tTest %d:\tShould report block 2 as the latest block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould report block 2 as the latest block.", success, testID)

			if _, err := l.QueryBlock(3); !errors.Is(err, ledger.ErrBlockNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould not find block 3: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not find block 3.", success, testID)
		}
	}
}

func Test_MineCancel(t *testing.T) {
	t.Log("Given the need to bound a proof of work search.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the difficulty can't be satisfied.", testID)
		{
			l := newLedger(t, 65, 10)
			l.AddTransaction("A", "B", 5)

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			_, err := l.MineCurrentPending(ctx, "M")
			if !errors.Is(err, database.ErrMiningCancelled) {
				t.Fatalf("\t%s\tTest %d:\tShould get a mining cancelled error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get a mining cancelled error.", success, testID)

			if l.Length() != 1 || l.PendingCount() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the chain and mempool untouched: %d %d", failed, testID, l.Length(), l.PendingCount())
			}
			t.Logf("\t%s\tTest %d:\tShould leave the chain and mempool untouched.", success, testID)
		}
	}
}

func Test_AddWhileMining(t *testing.T) {
	t.Log("Given the need to accept transactions during a proof of work search.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a transaction arrives after the block content is captured.", testID)
		{
			var l *ledger.Ledger
			var once sync.Once

			ev := func(v string, args ...any) {
				if strings.HasPrefix(v, "ledger: MineCurrentPending: MINING: perform POW") {
					once.Do(func() { l.AddTransaction("C", "D", 7) })
				}
			}

			var err error
			l, err = ledger.New(ledger.Config{
				Genesis:   genesis.Default(2, 10),
				EvHandler: ev,
			})
			ifErrFailNow(t, err)

			l.AddTransaction("A", "B", 5)

			block, err := l.MineCurrentPending(context.Background(), "M")
			ifErrFailNow(t, err)

			if len(block.Transactions) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould only include the captured transaction: %v", failed, testID, block.Transactions)
			}
			t.Logf("\t%s\tTest %d:\tShould only include the captured transaction.", success, testID)

			pending := l.SnapshotPending()
			if len(pending) != 1 || pending[0] != database.NewTx("C", "D", 7) {
				t.Fatalf("\t%s\tTest %d:\tShould keep the late transaction pending: %v", failed, testID, pending)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the late transaction pending.", success, testID)
		}
	}
}

func Test_ConcurrentAccess(t *testing.T) {
	t.Log("Given the need to query the ledger while mining.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen readers and writers run together.", testID)
		{
			l := newLedger(t, 2, 10)

			var wg sync.WaitGroup
			done := make(chan struct{})

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer close(done)

				for i := 0; i < 5; i++ {
					l.AddTransaction("A", "B", 1)
					if _, err := l.MineCurrentPending(context.Background(), "M"); err != nil {
						t.Errorf("\t%s\tTest %d:\tShould be able to mine: %v", failed, testID, err)
						return
					}
				}
			}()

			for i := 0; i < 4; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						select {
						case <-done:
							return
						default:
						}

						if !l.IsChainValid() {
							t.Errorf("\t%s\tTest %d:\tShould always observe a valid chain.", failed, testID)
							return
						}
						l.AllBalances()
						l.SnapshotPending()
					}
				}()
			}

			wg.Wait()

			if l.Length() != 6 {
				t.Fatalf("\t%s\tTest %d:\tShould have 6 blocks: %d", failed, testID, l.Length())
			}
			t.Logf("\t%s\tTest %d:\tShould mine every block while being queried.", success, testID)
		}
	}
}

func Test_MinePending(t *testing.T) {
	t.Log("Given the need to only mine when there is pending work.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the mempool is empty.", testID)
		{
			l := newLedger(t, 1, 10)

			_, err := l.MinePending(context.Background(), "M")
			if !errors.Is(err, ledger.ErrNoPendingTransactions) {
				t.Fatalf("\t%s\tTest %d:\tShould get a no pending transactions error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get a no pending transactions error.", success, testID)

			if l.Length() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not add a block: %d", failed, testID, l.Length())
			}
			t.Logf("\t%s\tTest %d:\tShould not add a block.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen another mine takes the pending transactions first.", testID)
		{
			l := newLedger(t, 1, 10)
			l.AddTransaction("A", "B", 5)

			if _, err := l.MineCurrentPending(context.Background(), "W"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine: %v", failed, testID, err)
			}

			_, err := l.MinePending(context.Background(), "M")
			if !errors.Is(err, ledger.ErrNoPendingTransactions) {
				t.Fatalf("\t%s\tTest %d:\tShould not mine a reward only block: %v", failed, testID, err)
			}
			if l.Length() != 2 || l.BalanceOf("M") != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not reward the second miner: %d %v", failed, testID, l.Length(), l.BalanceOf("M"))
			}
			t.Logf("\t%s\tTest %d:\tShould not mine a reward only block.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen there is a pending transaction.", testID)
		{
			l := newLedger(t, 1, 10)
			l.AddTransaction("A", "B", 5)

			block, err := l.MinePending(context.Background(), "M")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine: %v", failed, testID, err)
			}
			if len(block.Transactions) != 2 || l.PendingCount() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould mine the transaction and the reward: %d", failed, testID, len(block.Transactions))
			}
			t.Logf("\t%s\tTest %d:\tShould mine the transaction and the reward.", success, testID)
		}
	}
}

func Test_MineUnencodable(t *testing.T) {
	t.Log("Given the need to stop mining a block that can't be hashed.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a pending amount is infinite.", testID)
		{
			l := newLedger(t, 0, 10)
			l.AddTransaction("A", "B", math.Inf(1))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_, err := l.MineCurrentPending(ctx, "M")
			if err == nil || errors.Is(err, database.ErrMiningCancelled) {
				t.Fatalf("\t%s\tTest %d:\tShould fail without waiting for the context: %v", failed, testID, err)
			}
			if !errors.Is(err, database.ErrEncoding) {
				t.Fatalf("\t%s\tTest %d:\tShould get an encoding error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get an encoding error.", success, testID)

			if l.Length() != 1 || !l.IsChainValid() {
				t.Fatalf("\t%s\tTest %d:\tShould leave the chain untouched.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the chain untouched.", success, testID)
		}
	}
}
