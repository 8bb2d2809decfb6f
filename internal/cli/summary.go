package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/stackvity/asset-scanner/pkg/report"
	"github.com/stackvity/asset-scanner/pkg/scanner"
	"github.com/stackvity/asset-scanner/pkg/util"
)

// maxNameWidth is the widest file name shown in the details table.
const maxNameWidth = 30

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	ok      lipgloss.Style
	failed  lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
	numeric lipgloss.Style
}

// newStyles binds the palette to w, so colors are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#C084FC")),
		label:   r.NewStyle().Width(16).Foreground(lipgloss.Color("#A1A1AA")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#39FF14")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("#FF5555")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#4A5568")),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		border:  r.NewStyle().Foreground(lipgloss.Color("#4A5568")),
		numeric: r.NewStyle().Padding(0, 1).Align(lipgloss.Right),
	}
}

// RenderSummary writes result to w. The text format is a styled terminal
// summary; json, yaml and toml emit the full result document.
func RenderSummary(w io.Writer, result scanner.ScanResult, format scanner.OutputFormat) error {
	if format != "" && format != scanner.OutputFormatText {
		return report.Encode(w, result, format)
	}

	st := newStyles(w)
	var b strings.Builder

	b.WriteString(st.title.Render("Scan results") + "\n")
	if !result.Success {
		b.WriteString(field(st, "Directory", result.Directory))
		b.WriteString(st.failed.Render("Scan failed: "+result.Error) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	classes := "none"
	if len(result.AssetClasses) > 0 {
		classes = fmt.Sprintf("%s (%d)", strings.Join(result.AssetClasses, ", "), len(result.AssetClasses))
	}
	b.WriteString(field(st, "Directory", result.Directory))
	b.WriteString(field(st, "Total files", util.FormatCount(result.TotalFiles)))
	b.WriteString(field(st, "Total records", util.FormatCount(result.TotalRecords)))
	b.WriteString(field(st, "Asset classes", classes))
	b.WriteString(field(st, "Parse errors", countStyle(st, result.ParseErrors)))
	b.WriteString(field(st, "Lost files", countStyle(st, result.LostFiles)))
	b.WriteString(field(st, "Reader", fmt.Sprintf("%s, %d workers, chunk size %d, %d chunks in %.2fs",
		result.ReaderType, result.Workers, result.ChunkSize, result.ChunkCount, result.DurationSeconds)))

	if len(result.FileDetails) > 0 {
		b.WriteString("\n" + st.title.Render("File details") + "\n")
		b.WriteString(detailsTable(st, result.FileDetails) + "\n")
	}

	b.WriteString("\n" + st.ok.Render("Scan complete.") + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderInfo writes the directory preview and execution plan to w.
func RenderInfo(w io.Writer, info scanner.DirectoryInfo, perf scanner.PerformanceInfo, format scanner.OutputFormat) error {
	if format != "" && format != scanner.OutputFormatText {
		return report.EncodeValue(w, struct {
			Directory   scanner.DirectoryInfo   `json:"directory" yaml:"directory" toml:"directory"`
			Performance scanner.PerformanceInfo `json:"performance" yaml:"performance" toml:"performance"`
		}{info, perf}, format)
	}

	st := newStyles(w)
	var b strings.Builder
	writeDirectoryInfo(&b, st, info)
	b.WriteString(field(st, "Reader", fmt.Sprintf("%s, %d workers, chunk size %d, %d CPUs",
		perf.ReaderType, perf.MaxWorkers, perf.ChunkSize, perf.CPUCount)))
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDirectoryInfo(b *strings.Builder, st styles, info scanner.DirectoryInfo) {
	b.WriteString(st.title.Render("Analyzing source directory: "+info.Directory) + "\n")
	if !info.Valid {
		b.WriteString(st.failed.Render("Directory is not usable: "+info.Error) + "\n")
		return
	}
	b.WriteString(fmt.Sprintf("Found %s JSON files\n", util.FormatCount(info.TotalFiles)))
	if len(info.SampleFiles) > 0 {
		b.WriteString("Sample files:\n")
		for _, name := range info.SampleFiles {
			b.WriteString("  - " + name + "\n")
		}
	}
}

func field(st styles, label, value string) string {
	return st.label.Render(label+":") + " " + value + "\n"
}

func countStyle(st styles, n int) string {
	if n == 0 {
		return st.muted.Render("0")
	}
	return st.failed.Render(util.FormatCount(n))
}

func detailsTable(st styles, details []scanner.FileDetail) string {
	rows := make([][]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, []string{
			truncateName(d.File),
			strconv.FormatFloat(d.SizeMB, 'f', 2, 64),
			util.FormatCount(d.Assets),
			d.AssetClasses,
			string(d.Status),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers("File", "Size (MB)", "Assets", "Asset classes", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case col == 1 || col == 2:
				return st.numeric
			}
			return st.cell
		}).
		String()
}

// truncateName shortens long file names to fit the details table.
func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxNameWidth {
		return name
	}
	return string(runes[:maxNameWidth-2]) + ".."
}
