package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// Format selects how results are written.
type Format string

// Output formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates an --output value. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json, yaml or markdown)", s)
	}
}

// RenderRows writes rows in format. Table and markdown use the first row's
// columns as the header.
func RenderRows(w io.Writer, format Format, rows []*domain.Row) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatYAML:
		out, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to encode rows: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatMarkdown:
		return renderMarkdown(w, MarkdownTable(rows))
	default:
		if len(rows) == 0 {
			_, err := fmt.Fprintln(w, SecondaryStyle.Render("(no rows)"))
			return err
		}
		headers, cells := tabulate(rows)
		data := pterm.TableData{headers}
		data = append(data, cells...)
		return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
	}
}

// RenderValue writes a single labelled value, such as an aggregate result.
func RenderValue(w io.Writer, format Format, label string, value interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{label: value})
	case FormatYAML:
		out, err := yaml.Marshal(map[string]interface{}{label: value})
		if err != nil {
			return fmt.Errorf("failed to encode value: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatMarkdown:
		return renderMarkdown(w, fmt.Sprintf("**%s**: `%s`\n", label, Cell(value)))
	default:
		_, err := fmt.Fprintf(w, "%s %s\n", SecondaryStyle.Render(label+":"), Cell(value))
		return err
	}
}

// MarkdownTable renders rows as a GitHub-flavoured markdown table.
func MarkdownTable(rows []*domain.Row) string {
	if len(rows) == 0 {
		return "_no rows_\n"
	}
	headers, cells := tabulate(rows)

	var b strings.Builder
	b.WriteString("| " + strings.Join(escapeAll(headers), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range cells {
		b.WriteString("| " + strings.Join(escapeAll(row), " | ") + " |\n")
	}
	return b.String()
}

// Cell formats a value for a table cell.
func Cell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func tabulate(rows []*domain.Row) ([]string, [][]string) {
	headers := rows[0].Keys()
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, h := range headers {
			line[i] = Cell(row.Value(h))
		}
		cells = append(cells, line)
	}
	return headers, cells
}

func escapeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

func renderMarkdown(w io.Writer, content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(content)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
