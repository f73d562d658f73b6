package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/nameservice"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address for the account key file",
	RunE:  addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) error {
	address, err := accountAddress()
	if err != nil {
		return err
	}

	fmt.Println(address)
	return nil
}

func accountAddress() (database.Address, error) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return "", fmt.Errorf("loading key: %w", err)
	}

	return nameservice.PublicKeyToAddress(privateKey.PublicKey), nil
}
