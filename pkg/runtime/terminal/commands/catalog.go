package commands

import (
	"errors"

	"github.com/de-tools/macro-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/macro-atlas/pkg/services/metadata"
	"github.com/spf13/cobra"
)

func NewCountriesCmd(env EnvironmentFunc, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List available countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := metadata.NewLoader(env().API)
			loader.Load(cmd.Context())

			catalog := loader.Catalog()
			if catalog.CountriesFailed {
				return errors.New("failed to load countries")
			}
			return reporter.Countries(catalog.Countries)
		},
	}
}

func NewIndicatorsCmd(env EnvironmentFunc, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "indicators",
		Short: "List available indicators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := metadata.NewLoader(env().API)
			loader.Load(cmd.Context())

			catalog := loader.Catalog()
			if catalog.IndicatorsFailed {
				return errors.New("failed to load indicators")
			}
			return reporter.Indicators(catalog.Indicators)
		},
	}
}
