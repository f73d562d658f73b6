// Package v1 contains the full set of handler functions and routes
// supported by the node web api.
package v1

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minichain/node/app/services/node/handlers/v1/public"
	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/ledger"
	"github.com/minichain/node/foundation/events"
	"github.com/minichain/node/foundation/nameservice"
	"github.com/minichain/node/foundation/web"
	"go.uber.org/zap"
)

const group = "api"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log          *zap.SugaredLogger
	Ledger       *ledger.Ledger
	NS           *nameservice.NameService
	Evts         *events.Events
	DefaultMiner database.Address
	MineTimeout  time.Duration
}

// PublicRoutes binds all the public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:          cfg.Log,
		Ledger:       cfg.Ledger,
		NS:           cfg.NS,
		WS:           websocket.Upgrader{},
		Evts:         cfg.Evts,
		DefaultMiner: cfg.DefaultMiner,
		MineTimeout:  cfg.MineTimeout,
	}

	app.Handle(http.MethodGet, group, "/health", pbl.Health)
	app.Handle(http.MethodGet, group, "/events", pbl.Events)
	app.Handle(http.MethodGet, group, "/blocks", pbl.Blocks)
	app.Handle(http.MethodGet, group, "/blocks/:index", pbl.BlockByIndex)
	app.Handle(http.MethodGet, group, "/pending-transactions", pbl.Pending)
	app.Handle(http.MethodGet, group, "/balances", pbl.Balances)
	app.Handle(http.MethodGet, group, "/balance/:address", pbl.Balance)
	app.Handle(http.MethodGet, group, "/validate-chain", pbl.ValidateChain)
	app.Handle(http.MethodPost, group, "/transactions", pbl.AddTransaction)
	app.Handle(http.MethodPost, group, "/mine", pbl.Mine)
}
