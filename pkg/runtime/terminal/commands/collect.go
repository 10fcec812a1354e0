package commands

import (
	"github.com/de-tools/macro-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/macro-atlas/pkg/services/collection"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/spf13/cobra"
)

func NewCollectCmd(env EnvironmentFunc, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:       "collect [world-bank|run-all]",
		Short:     "Start a data collection run on the server",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(client.SourceWorldBank), string(client.SourceAll)},
		RunE: func(cmd *cobra.Command, args []string) error {
			source := client.SourceAll
			if len(args) == 1 {
				var err error
				if source, err = collection.ParseSource(args[0]); err != nil {
					return err
				}
			}

			run, err := collection.NewTrigger(env().API).Run(cmd.Context(), source)
			if err != nil {
				return err
			}
			return reporter.Collection(run)
		},
	}
}
