// Package report renders patterns and subscriptions as tables, JSON, YAML or CSV.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/recurring-spice/internal/cli"
	"github.com/Veraticus/recurring-spice/internal/common"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("%w: output format %q (want table, json, yaml or csv)", common.ErrUnsupportedFormat, s)
}

const dateLayout = "2006-01-02"

// table is a header plus string cells, rendered with tabwriter.
type table struct {
	header []string
	rows   [][]string
}

func (t table) write(w io.Writer) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	rules := make([]string, len(t.header))
	for i, h := range t.header {
		rules[i] = strings.Repeat("─", len(h))
	}
	lines := append([][]string{t.header, rules}, t.rows...)
	for _, cells := range lines {
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// Style the header after alignment so escape codes do not skew column widths.
	header, rest, _ := strings.Cut(buf.String(), "\n")
	_, err := io.WriteString(w, cli.TableHeaderStyle.Render(strings.TrimRight(header, " "))+"\n"+rest)
	return err
}

// write renders rows in the requested structured format. Tables are handled by the callers.
func write(w io.Writer, format Format, doc any, csvRows any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return gocsv.Marshal(csvRows, w)
	}
	return fmt.Errorf("%w: output format %q", common.ErrUnsupportedFormat, format)
}
