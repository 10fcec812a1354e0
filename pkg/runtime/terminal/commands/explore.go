package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/macro-atlas/pkg/adapters"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/macro-atlas/pkg/services/explorer"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ExploreCmd struct {
	country   string
	indicator string
	from      string
	to        string
	page      int
	order     string
	save      bool
	env       EnvironmentFunc
	reporter  *export.Reporter
}

func NewExploreCmd(env EnvironmentFunc, reporter *export.Reporter) *cobra.Command {
	ec := &ExploreCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Show observations of one indicator for one country",
		Args:  cobra.NoArgs,
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.country, "country", "", "Country code (e.g., USA)")
	cmd.Flags().StringVar(&ec.indicator, "indicator", "", "Indicator name")
	cmd.Flags().StringVar(&ec.from, "from", "", "Start date YYYY-MM-DD (default is ten years ago)")
	cmd.Flags().StringVar(&ec.to, "to", "", "End date YYYY-MM-DD (default is today)")
	cmd.Flags().IntVar(&ec.page, "page", 1, "Page to show")
	cmd.Flags().StringVar(&ec.order, "order", "asc", "Date order: asc or desc")
	cmd.Flags().BoolVar(&ec.save, "save", false, "Save the result as a snapshot")

	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("indicator")

	return cmd
}

func (ec *ExploreCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	env := ec.env()

	if ec.order != explorer.Ascending.String() && ec.order != explorer.Descending.String() {
		return fmt.Errorf("invalid order %q, expected asc or desc", ec.order)
	}

	exp := explorer.New(env.API)
	exp.SelectCountry(ec.country)
	exp.SelectIndicator(ec.indicator)
	if ec.from != "" || ec.to != "" {
		current := exp.Selection().Range
		start, end := current.Start, current.End
		var err error
		if ec.from != "" {
			if start, err = time.Parse(domain.DateLayout, ec.from); err != nil {
				return fmt.Errorf("invalid --from date %q, expected YYYY-MM-DD", ec.from)
			}
		}
		if ec.to != "" {
			if end, err = time.Parse(domain.DateLayout, ec.to); err != nil {
				return fmt.Errorf("invalid --to date %q, expected YYYY-MM-DD", ec.to)
			}
		}
		exp.SelectDateRange(start, end)
	}

	if err := exp.Search(ctx); err != nil {
		return err
	}
	exp.SetOrder(explorer.ParseOrder(ec.order))
	exp.SetPage(ec.page)

	if err := ec.reporter.Page(exp.View()); err != nil {
		return err
	}
	if !ec.save {
		return nil
	}

	sel, rows, ok := exp.Result()
	if !ok {
		return nil
	}
	store, closeDB, err := env.openSnapshots()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDB(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close snapshot database")
		}
	}()

	id, err := store.Save(ctx, adapters.MapSnapshotToRecord(domain.Snapshot{
		CountryCode: sel.CountryCode,
		Indicator:   sel.Indicator,
		Range:       *sel.Range,
		Rows:        rows,
	}))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %d\n", id)
	return nil
}
