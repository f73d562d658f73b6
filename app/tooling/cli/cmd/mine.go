package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var miner string

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions into a new block",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&miner, "miner", "m", "", "Address to reward, defaults to the node's miner.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	spinner, _ := pterm.DefaultSpinner.Start("mining")

	resp, err := newClient(nodeURL).mine(miner)
	if err != nil {
		spinner.Fail(err)
		return err
	}

	spinner.Success(resp.Message)
	pterm.Info.Printfln("block %d hash %s", resp.Block.Index, resp.Hash)
	pterm.Info.Printfln("nonce %d transactions %d chain valid %t", resp.Block.Nonce, len(resp.Block.Transactions), resp.IsValid)

	return nil
}
