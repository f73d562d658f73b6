package cmd

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print the blocks of the chain",
	RunE:  blocksRun,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to validate its chain",
	RunE:  validateRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(validateCmd)
}

func blocksRun(cmd *cobra.Command, args []string) error {
	resp, err := newClient(nodeURL).blocks()
	if err != nil {
		return err
	}

	data := pterm.TableData{{"Index", "Time", "Nonce", "Txs", "Hash", "Previous"}}
	for _, block := range resp.Blocks {
		ts := time.Unix(0, int64(block.TimeStamp*float64(time.Second))).UTC().Format(time.RFC3339)
		data = append(data, []string{
			fmt.Sprint(block.Index),
			ts,
			fmt.Sprint(block.Nonce),
			fmt.Sprint(len(block.Transactions)),
			shorten(block.Hash),
			shorten(block.PreviousHash),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func validateRun(cmd *cobra.Command, args []string) error {
	resp, err := newClient(nodeURL).validate()
	if err != nil {
		return err
	}

	if !resp.IsValid {
		return fmt.Errorf("chain of %d blocks is not valid", resp.Length)
	}

	pterm.Success.Printfln("chain of %d blocks is valid", resp.Length)
	return nil
}

func shorten(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:8] + ".." + hash[len(hash)-8:]
}
