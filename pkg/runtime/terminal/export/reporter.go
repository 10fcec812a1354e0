package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/macro-atlas/pkg/adapters"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/models/store"
	"github.com/de-tools/macro-atlas/pkg/services/explorer"
	"github.com/de-tools/macro-atlas/pkg/services/query"
	"github.com/de-tools/macro-atlas/pkg/services/state"
)

type TableConfig struct {
	DateWidth  int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DateWidth:  12,
		ValueWidth: 20,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"value": adapters.FormatValue,
		"date": func(r *domain.DateRange, end bool) string {
			if r == nil {
				return "-"
			}
			if end {
				return r.End.Format(domain.DateLayout)
			}
			return r.Start.Format(domain.DateLayout)
		},
		"formatRow": func(date string, value string) string {
			return fmt.Sprintf("| %-*s | %*s |", c.config.DateWidth, date, c.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.DateWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
		"table": renderTable,
		"inc":   func(i int) int { return i + 1 },
		"failed": func(s state.Status) bool {
			return s == state.StatusFailed
		},
	}
}

func (c *Reporter) execute(name, tmpl string, data interface{}) error {
	t, err := template.New(name).Funcs(c.funcs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

func (c *Reporter) Countries(countries []domain.Country) error {
	rows := make([][]string, 0, len(countries))
	for _, country := range countries {
		rows = append(rows, []string{country.Code, country.Name, country.Region})
	}
	_, err := fmt.Fprint(c.writer, renderTable([]string{"Code", "Name", "Region"}, rows))
	return err
}

func (c *Reporter) Indicators(indicators []domain.Indicator) error {
	rows := make([][]string, 0, len(indicators))
	for _, ind := range indicators {
		rows = append(rows, []string{ind.Name, ind.Unit, ind.Category})
	}
	_, err := fmt.Fprint(c.writer, renderTable([]string{"Name", "Unit", "Category"}, rows))
	return err
}

// Page prints the visible rows followed by summary rows for that page.
func (c *Reporter) Page(view explorer.View) error {
	tmpl := `
{{.Selection.CountryCode}} / {{.Selection.Indicator}} ({{date .Selection.Range false}} to {{date .Selection.Range true}})
{{if failed .Status}}{{.Message}}
{{end}}{{if .Rows}}Page {{.Page}} of {{.PageCount}}, {{.Total}} rows, {{.Order}}

{{separator}}
{{formatRow "Date" "Value"}}
{{separator}}
{{range .Rows}}{{formatRow .Date (value .Value)}}
{{end}}{{separator}}
{{with .Summary}}{{formatRow "Mean" (value .Mean)}}
{{formatRow "Min" (value .Min)}}
{{formatRow "Max" (value .Max)}}
{{separator}}
{{end}}{{else}}No data
{{end}}`
	return c.execute("page", tmpl, view)
}

// Query prints the report and tables. The visualization is only noted; the
// terminal never renders remote markup.
func (c *Reporter) Query(view query.View) error {
	tmpl := `
Query: {{.Query}}
{{if failed .Status}}{{.Message}}
{{end}}{{with .Views}}
=== {{.Report.Title}} ===
{{.Report.Summary}}
{{if .Report.KeyFindings}}
Key findings:
{{range $i, $f := .Report.KeyFindings}}  {{inc $i}}. {{$f}}
{{end}}{{end}}{{range .Tables}}
--- {{.Title}} ---
{{table .Headers .Rows}}{{end}}
{{if .Visualization.Empty}}No visualization{{else}}Visualization available{{if .VisKind}} ({{.VisKind}}){{end}}{{end}}
{{if .Report.Timestamp}}Generated at {{.Report.Timestamp}}
{{end}}{{end}}`
	return c.execute("query", tmpl, view)
}

func (c *Reporter) Collection(run domain.CollectionRun) error {
	_, err := fmt.Fprintf(c.writer, "%s: %s (started %s)\n",
		run.Source, run.Message, run.StartedAt.Format("2006-01-02 15:04:05"))
	return err
}

func (c *Reporter) Snapshots(snapshots []store.Snapshot) error {
	if len(snapshots) == 0 {
		_, err := fmt.Fprintln(c.writer, "No snapshots")
		return err
	}
	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{
			fmt.Sprint(s.ID),
			s.CountryCode,
			s.Indicator,
			s.StartDate + " to " + s.EndDate,
			fmt.Sprint(s.RowCount),
			s.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	_, err := fmt.Fprint(c.writer, renderTable([]string{"ID", "Country", "Indicator", "Range", "Rows", "Created"}, rows))
	return err
}

func (c *Reporter) Snapshot(snapshot domain.Snapshot) error {
	tmpl := `
Snapshot {{.ID}}: {{.CountryCode}} / {{.Indicator}} ({{date .Range false}} to {{date .Range true}})

{{separator}}
{{formatRow "Date" "Value"}}
{{separator}}
{{range .Rows}}{{formatRow .Date (value .Value)}}
{{end}}{{separator}}
`
	data := struct {
		domain.Snapshot
		Range *domain.DateRange
	}{snapshot, &snapshot.Range}
	return c.execute("snapshot", tmpl, data)
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i := range headers {
			if i >= len(row) {
				continue
			}
			if n := utf8.RuneCountInString(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	sep := func() {
		b.WriteString("+")
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w+2))
			b.WriteString("+")
		}
		b.WriteString("\n")
	}
	line := func(cells []string) {
		b.WriteString("|")
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			fmt.Fprintf(&b, " %-*s |", w, cell)
		}
		b.WriteString("\n")
	}

	sep()
	line(headers)
	sep()
	for _, row := range rows {
		line(row)
	}
	sep()
	return b.String()
}
