package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minichain/node/app/services/node/handlers/v1/public"
	"github.com/minichain/node/business/web/errs"
	"github.com/minichain/node/foundation/blockchain/database"
)

// client calls the node web api.
type client struct {
	url  string
	http *http.Client
}

func newClient(url string) *client {
	return &client{
		url: strings.TrimSuffix(url, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type addedResponse struct {
	Message      string `json:"message"`
	PendingCount int    `json:"pending_count"`
}

type minedResponse struct {
	Message string         `json:"message"`
	Hash    string         `json:"hash"`
	Block   database.Block `json:"block"`
	IsValid bool           `json:"isValid"`
}

type balanceResponse struct {
	Address database.Address `json:"address"`
	Name    string           `json:"name"`
	Balance float64          `json:"balance"`
}

type balancesResponse struct {
	Balances []balanceResponse `json:"balances"`
	Count    int               `json:"count"`
}

type blocksResponse struct {
	Blocks []database.Block `json:"blocks"`
	Length int              `json:"length"`
}

type chainResponse struct {
	IsValid bool `json:"isValid"`
	Length  int  `json:"length"`
}

func (c *client) send(from string, to string, amount float64) (addedResponse, error) {
	var resp addedResponse
	err := c.do(http.MethodPost, "/api/transactions", public.NewTx{From: from, To: to, Amount: amount}, &resp)
	return resp, err
}

func (c *client) mine(miner string) (minedResponse, error) {
	var resp minedResponse
	err := c.do(http.MethodPost, "/api/mine", public.MineRequest{Miner: miner}, &resp)
	return resp, err
}

func (c *client) balances() (balancesResponse, error) {
	var resp balancesResponse
	err := c.do(http.MethodGet, "/api/balances", nil, &resp)
	return resp, err
}

func (c *client) balance(address string) (balanceResponse, error) {
	var resp balanceResponse
	err := c.do(http.MethodGet, "/api/balance/"+address, nil, &resp)
	return resp, err
}

func (c *client) blocks() (blocksResponse, error) {
	var resp blocksResponse
	err := c.do(http.MethodGet, "/api/blocks", nil, &resp)
	return resp, err
}

func (c *client) validate() (chainResponse, error) {
	var resp chainResponse
	err := c.do(http.MethodGet, "/api/validate-chain", nil, &resp)
	return resp, err
}

func (c *client) do(method string, path string, body any, val any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.url+path, r)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling node: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error == "" {
			return fmt.Errorf("node responded with status %d", resp.StatusCode)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("%s: %v", er.Error, er.Fields)
		}
		return fmt.Errorf("%s", er.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(val); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
