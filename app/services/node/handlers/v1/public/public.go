// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minichain/node/business/sys/validate"
	"github.com/minichain/node/business/web/errs"
	"github.com/minichain/node/foundation/blockchain/balance"
	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/ledger"
	"github.com/minichain/node/foundation/events"
	"github.com/minichain/node/foundation/nameservice"
	"github.com/minichain/node/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log          *zap.SugaredLogger
	Ledger       *ledger.Ledger
	NS           *nameservice.NameService
	WS           websocket.Upgrader
	Evts         *events.Events
	DefaultMiner database.Address
	MineTimeout  time.Duration
}

// Health returns the status of the node.
func (h Handlers) Health(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := health{
		Status:      "ok",
		ChainLength: h.Ledger.Length(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	ch, err := h.Evts.Acquire(v.TraceID)
	if err != nil {
		return errs.NewTrusted(err, http.StatusServiceUnavailable)
	}
	defer h.Evts.Release(v.TraceID)

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The connection now belongs to the websocket.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// Blocks returns the full chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.Ledger.SnapshotChain()

	resp := blocks{
		Blocks: chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlockByIndex returns the block at the specified index.
func (h Handlers) BlockByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block index %q", web.Param(r, "index")), http.StatusBadRequest)
	}

	block, err := h.Ledger.QueryBlock(index)
	if err != nil {
		if errors.Is(err, ledger.ErrBlockNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return fmt.Errorf("query block[%d]: %w", index, err)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Pending returns the set of transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.Ledger.SnapshotPending()

	resp := pending{
		Transactions: trans,
		Count:        len(trans),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balances returns the balances of every address seen on the chain, largest
// balance first.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	entries := balance.Sorted(h.Ledger.AllBalances())

	bals := make([]addressBalance, len(entries))
	for i, entry := range entries {
		bals[i] = addressBalance{
			Address: entry.Address,
			Name:    h.NS.Lookup(entry.Address),
			Balance: entry.Balance,
		}
	}

	resp := balances{
		Balances: bals,
		Count:    len(bals),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balance returns the balance for the specified address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := database.Address(web.Param(r, "address"))

	resp := addressBalance{
		Address: address,
		Name:    h.NS.Lookup(address),
		Balance: h.Ledger.BalanceOf(address),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ValidateChain reports if the chain is intact.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	isValid := true
	if err := h.Ledger.ValidateChain(); err != nil {
		h.Log.Infow("validate chain", "traceid", v.TraceID, "ERROR", err)
		isValid = false
	}

	resp := chainStatus{
		IsValid: isValid,
		Length:  h.Ledger.Length(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AddTransaction adds a new transaction to the mempool.
func (h Handlers) AddTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "from", ntx.From, "to", ntx.To, "amount", ntx.Amount)

	n := h.Ledger.AddTransaction(database.Address(ntx.From), database.Address(ntx.To), ntx.Amount)

	resp := txAdded{
		Message:      "Transaction added to mempool",
		PendingCount: n,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mine mines the pending transactions into a new block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req MineRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	miner := database.Address(req.Miner)
	if miner == "" {
		miner = h.DefaultMiner
	}

	if h.MineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.MineTimeout)
		defer cancel()
	}

	h.Log.Infow("mine", "traceid", v.TraceID, "miner", miner)

	block, err := h.Ledger.MinePending(ctx, miner)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNoPendingTransactions):
			return errs.NewTrusted(err, http.StatusBadRequest)
		case errors.Is(err, database.ErrMiningCancelled):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return fmt.Errorf("mine: %w", err)
	}

	resp := mined{
		Message: "Block mined",
		Hash:    block.Hash,
		Block:   block,
		IsValid: h.Ledger.IsChainValid(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
