// Command topupctl drives the top-up ledger and order pipeline from a shell.
package main

import (
	"context"
	"os"

	"topup/cmd/topupctl/cmd"
)

func main() {
	if err := cmd.Execute(context.Background(), cmd.OpenFromEnv, os.Args[1:], nil); err != nil {
		os.Exit(1)
	}
}
