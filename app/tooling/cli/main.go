// This program provides a command line client for the node.
package main

import "github.com/minichain/node/app/tooling/cli/cmd"

func main() {
	cmd.Execute()
}
