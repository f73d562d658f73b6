package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Add a transaction to the node's mempool",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Sending address, defaults to the account key file.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Receiving address.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	sender := from
	if sender == "" {
		address, err := accountAddress()
		if err != nil {
			return err
		}
		sender = string(address)
	}

	resp, err := newClient(nodeURL).send(sender, to, amount)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%s: %d pending", resp.Message, resp.PendingCount)
	return nil
}
