package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/five82/satscope/internal/app"
	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/ui"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func addList(topLevel *cobra.Command, ro *rootOptions) {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the filtered catalog once and exit.",
		Example: `
satscope list --type debris --orbit LEO
satscope list --search ISS -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputText, outputJSON, outputYAML:
			default:
				return fmt.Errorf("invalid --output %q: want text, json or yaml", output)
			}
			opts, err := ro.appOptions(cmd.Flags())
			if err != nil {
				return err
			}
			return runList(cmd, opts, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	topLevel.AddCommand(cmd)
}

func runList(cmd *cobra.Command, opts app.Options, output string) error {
	res, err := app.Fetch(cmd.Context(), opts)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	switch output {
	case outputJSON:
		data, err := json.MarshalIndent(newListOutput(res), "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		data, err := yaml.Marshal(newListOutput(res))
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return printTable(w, res)
}

// listOutput is the machine readable form of a list run.
type listOutput struct {
	Total       int                 `json:"total"`
	Count       int                 `json:"count"`
	Counts      map[string]int      `json:"counts,omitempty"`
	Search      string              `json:"search,omitempty"`
	ObjectTypes []string            `json:"objectTypes,omitempty"`
	OrbitCodes  []string            `json:"orbitCodes,omitempty"`
	Sort        string              `json:"sort,omitempty"`
	FetchedAt   time.Time           `json:"fetchedAt"`
	Satellites  []catalog.Satellite `json:"satellites"`
}

func newListOutput(res app.Result) listOutput {
	out := listOutput{
		Total:      res.Total,
		Count:      len(res.Records),
		Search:     res.Filters.Search,
		OrbitCodes: res.Filters.OrbitCodes,
		FetchedAt:  res.FetchedAt,
		Satellites: res.Records,
	}
	if out.Satellites == nil {
		out.Satellites = []catalog.Satellite{}
	}
	if len(res.Counts.ByType) > 0 {
		out.Counts = make(map[string]int, len(res.Counts.ByType))
		for t, n := range res.Counts.ByType {
			out.Counts[string(t)] = n
		}
	}
	for _, t := range res.Filters.ObjectTypes {
		out.ObjectTypes = append(out.ObjectTypes, string(t))
	}
	if res.Sort.Active() {
		out.Sort = res.Sort.String()
	}
	return out
}

var typeColors = map[catalog.ObjectType]*color.Color{
	catalog.ObjectPayload:    color.New(color.FgGreen),
	catalog.ObjectRocketBody: color.New(color.FgYellow),
	catalog.ObjectDebris:     color.New(color.FgRed),
	catalog.ObjectUnknown:    color.New(color.FgHiBlack),
}

func printTable(w io.Writer, res app.Result) error {
	if len(res.Records) == 0 {
		_, err := fmt.Fprintln(w, ui.EmptyMessage)
		return err
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(
		bold.Sprint("NORAD ID"),
		bold.Sprint("NAME"),
		bold.Sprint("ORBIT"),
		bold.Sprint("TYPE"),
		bold.Sprint("COUNTRY"),
		bold.Sprint("LAUNCH"),
	)
	for _, rec := range res.Records {
		tbl.AddRow(rec.NoradCatID, rec.Name, rec.OrbitLabel(), typeCell(rec.ObjectType), dash(rec.CountryCode), launchCell(rec))
	}
	if _, err := fmt.Fprintln(w, tbl); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d of %d objects\n", len(res.Records), res.Total)
	return err
}

func typeCell(t catalog.ObjectType) string {
	if t == "" {
		return "-"
	}
	label := string(t)
	if c, ok := typeColors[t]; ok {
		return c.Sprint(label)
	}
	return label
}

func launchCell(rec catalog.Satellite) string {
	if !rec.LaunchTime.IsZero() {
		return rec.LaunchTime.Format("2006-01-02")
	}
	return dash(rec.LaunchDate)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
