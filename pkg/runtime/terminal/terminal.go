package terminal

import (
	"context"
	"io"
	"os"

	"github.com/climfin/finance-atlas/pkg/runtime/terminal/commands"
	"github.com/climfin/finance-atlas/pkg/runtime/terminal/export"
	"github.com/climfin/finance-atlas/pkg/store/source"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	sources  source.Registry
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Sources source.Registry
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		sources:  opts.Sources,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Climate finance atlas tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewImportCmd())
	cmd.AddCommand(commands.NewQueryCmd())
	cmd.AddCommand(commands.NewSummaryCmd(cli.sources, cli.reporter))

	return cmd
}
