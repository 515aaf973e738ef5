// Package render prints report rows as a table, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"sigs.k8s.io/yaml"

	"github.com/HaPhanBaoMinh/kcap/internal/domain"
	"github.com/HaPhanBaoMinh/kcap/internal/ui/styles"
)

type Options struct {
	Format    string // table, json or yaml
	ShowUsage bool
}

// row mirrors domain.ResourceStatus for structured output; usage fields are
// blanked and omitted when usage is hidden.
type row struct {
	Name            string `json:"name"`
	CPURequests     string `json:"cpuRequests"`
	CPUUsage        string `json:"cpuUsage,omitempty"`
	MemRequests     string `json:"memRequests"`
	MemUsage        string `json:"memUsage,omitempty"`
	StorageRequests string `json:"storageRequests"`
	Pods            string `json:"pods"`
}

func Write(w io.Writer, rows []domain.ResourceStatus, opts Options) error {
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(structured(rows, opts.ShowUsage))
	case "yaml":
		data, err := yaml.Marshal(structured(rows, opts.ShowUsage))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "table", "":
		_, err := fmt.Fprintln(w, Table(rows, opts.ShowUsage))
		return err
	}
	return &domain.ConfigError{Field: "output format", Value: opts.Format, Allowed: []string{"table", "json", "yaml"}}
}

// VisibleColumns returns the indexes into domain.Columns that are shown.
func VisibleColumns(showUsage bool) []int {
	idx := make([]int, 0, len(domain.Columns))
	for i, c := range domain.Columns {
		if !showUsage && domain.UsageColumns[c] {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// Project keeps only the fields at the given indexes.
func Project(fields []string, idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, fields[i])
	}
	return out
}

func Table(rows []domain.ResourceStatus, showUsage bool) string {
	idx := VisibleColumns(showUsage)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Faint).
		StyleFunc(func(r, c int) lipgloss.Style {
			if r == table.HeaderRow {
				return styles.Header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(Project(domain.Columns, idx)...)

	for _, r := range rows {
		t.Row(Project(r.Fields(), idx)...)
	}
	return t.String()
}

func structured(rows []domain.ResourceStatus, showUsage bool) []row {
	out := make([]row, 0, len(rows))
	for _, r := range rows {
		o := row{
			Name:            r.Name,
			CPURequests:     r.CPURequests,
			MemRequests:     r.MemRequests,
			StorageRequests: r.StorageRequests,
			Pods:            r.Pods,
		}
		if showUsage {
			o.CPUUsage = r.CPUUsage
			o.MemUsage = r.MemUsage
		}
		out = append(out, o)
	}
	return out
}
