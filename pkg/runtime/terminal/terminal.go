package terminal

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/de-tools/macro-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/macro-atlas/pkg/runtime/terminal/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	connect  Connector
	reporter *export.Reporter
	logger   zerolog.Logger
	flags    GlobalFlags
	env      *commands.Environment
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Connect Connector
	Output  io.Writer
	Logs    io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}
	if opts.Connect == nil {
		opts.Connect = Connect
	}

	cli := &CLI{
		connect:  opts.Connect,
		reporter: export.NewReporter(opts.Output),
		logger:   zerolog.New(zerolog.ConsoleWriter{Out: opts.Logs}).With().Timestamp().Logger(),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) environment() *commands.Environment {
	return cli.env
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "macro-atlas",
		Short:         "Explore macroeconomic indicators and ask questions about them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cli.logger.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			env, err := cli.connect(ctx, cli.flags)
			if err != nil {
				return err
			}
			cli.env = env
			return nil
		},
	}

	defaultProfiles := ".macroatlascfg"
	if usr, err := user.Current(); err == nil {
		defaultProfiles = filepath.Join(usr.HomeDir, ".macroatlascfg")
	}
	cmd.PersistentFlags().StringVar(&cli.flags.Settings, "config", "", "Path to a settings file (yaml)")
	cmd.PersistentFlags().StringVar(&cli.flags.Profiles, "profiles", defaultProfiles,
		fmt.Sprintf("Path to the API profiles file (default is %s)", defaultProfiles))
	cmd.PersistentFlags().StringVarP(&cli.flags.Profile, "profile", "p", "", "API profile to use")

	cmd.AddCommand(commands.NewCountriesCmd(cli.environment, cli.reporter))
	cmd.AddCommand(commands.NewIndicatorsCmd(cli.environment, cli.reporter))
	cmd.AddCommand(commands.NewExploreCmd(cli.environment, cli.reporter))
	cmd.AddCommand(commands.NewQueryCmd(cli.environment, cli.reporter))
	cmd.AddCommand(commands.NewCollectCmd(cli.environment, cli.reporter))
	cmd.AddCommand(commands.NewSnapshotsCmd(cli.environment, cli.reporter))

	return cmd
}
