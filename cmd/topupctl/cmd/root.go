// Package cmd provides the topupctl commands.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"topup/internal/app"
	"topup/internal/config"
)

// Opener builds the application for one command run. The returned func
// releases it.
type Opener func(ctx context.Context) (*app.App, func() error, error)

// OpenFromEnv reads the process environment the same way the web server does.
func OpenFromEnv(ctx context.Context) (*app.App, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, a.Close, nil
}

type cli struct {
	open     Opener
	operator string
	asJSON   bool

	app   *app.App
	close func() error
}

// Execute runs one command line and always releases whatever the command
// opened, including when it fails.
func Execute(ctx context.Context, open Opener, args []string, out io.Writer) error {
	c := &cli{open: open}
	root := c.rootCmd()
	root.SetArgs(args)
	if out != nil {
		root.SetOut(out)
		root.SetErr(out)
	}
	err := root.ExecuteContext(ctx)
	if c.close != nil {
		err = errors.Join(err, c.close())
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "topupctl",
		Short: "Operate customer balances and game top-up orders",
		Long: `topupctl submits top-up batches, inspects balances and order history,
and runs operator adjustments against the configured ledger and provider.

Storage and provider settings come from the same environment variables as
the web server (LEDGER_BACKEND, TXLOG_BACKEND, PROVIDER_MODE, ...).

Examples:
  topupctl register 1001
  topupctl credit 1001 balance_ph 500 --operator 5671920054
  topupctl order --customer 1001 --region ph --item 12345:6789:22`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := c.open(cmd.Context())
			if err != nil {
				return fmt.Errorf("open: %w", err)
			}
			c.app, c.close = a, closeFn
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.operator, "operator", os.Getenv("TOPUP_OPERATOR"), "operator id for privileged commands (env TOPUP_OPERATOR)")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		c.registerCmd(),
		c.balanceCmd(),
		c.adjustCmd("credit"),
		c.adjustCmd("debit"),
		c.orderCmd(),
		c.historyCmd(),
		c.pointsCmd(),
		c.roleCmd(),
		c.catalogCmd(),
		c.batchCmd(),
	)
	return root
}

func (c *cli) requireOperator() error {
	if !c.app.IsOperator(c.operator) {
		return fmt.Errorf("%w: pass --operator", app.ErrForbidden)
	}
	return nil
}

// emit prints v as JSON when --json is set and runs text otherwise.
func (c *cli) emit(cmd *cobra.Command, v any, text func()) error {
	if !c.asJSON {
		text()
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Join(errors.New("encode output"), err)
	}
	return nil
}
