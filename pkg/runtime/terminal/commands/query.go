package commands

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/de-tools/macro-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/macro-atlas/pkg/services/query"
	"github.com/spf13/cobra"
)

var plotPage = template.Must(template.New("plot").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{.Plot}}
</body>
</html>
`))

type QueryCmd struct {
	htmlPath string
	env      EnvironmentFunc
	reporter *export.Reporter
}

func NewQueryCmd(env EnvironmentFunc, reporter *export.Reporter) *cobra.Command {
	qc := &QueryCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a natural language question about the data",
		Args:  cobra.MinimumNArgs(1),
		RunE:  qc.run,
	}

	cmd.Flags().StringVar(&qc.htmlPath, "html", "", "Write the sanitized visualization to this file")

	return cmd
}

func (qc *QueryCmd) run(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errors.New("query must not be empty")
	}

	orchestrator := query.New(qc.env().API)
	if err := orchestrator.Submit(cmd.Context(), text); err != nil {
		return err
	}

	view := orchestrator.View()
	if err := qc.reporter.Query(view); err != nil {
		return err
	}

	if qc.htmlPath == "" || view.Views == nil || view.Views.Visualization.Empty() {
		return nil
	}
	f, err := os.Create(qc.htmlPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", qc.htmlPath, err)
	}
	defer f.Close()

	err = plotPage.Execute(f, struct {
		Title string
		Plot  template.HTML
	}{view.Views.Report.Title, view.Views.Visualization.Sanitize()})
	if err != nil {
		return fmt.Errorf("failed to write visualization: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Visualization written to %s\n", qc.htmlPath)
	return nil
}
