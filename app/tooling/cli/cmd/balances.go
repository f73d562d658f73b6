package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Print the balance of every address",
	RunE:  balancesRun,
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the balance of an address, defaults to the account key file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balancesCmd)
	rootCmd.AddCommand(balanceCmd)
}

func balancesRun(cmd *cobra.Command, args []string) error {
	resp, err := newClient(nodeURL).balances()
	if err != nil {
		return err
	}

	data := pterm.TableData{{"Address", "Name", "Balance"}}
	for _, bal := range resp.Balances {
		data = append(data, []string{string(bal.Address), bal.Name, formatAmount(bal.Balance)})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func balanceRun(cmd *cobra.Command, args []string) error {
	var address string
	switch len(args) {
	case 0:
		a, err := accountAddress()
		if err != nil {
			return err
		}
		address = string(a)
	default:
		address = args[0]
	}

	resp, err := newClient(nodeURL).balance(address)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("%s (%s): %s", resp.Address, resp.Name, formatAmount(resp.Balance))
	return nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%g", v)
}
