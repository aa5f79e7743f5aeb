package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/pipeline"
	"github.com/matzehuels/chartwheel/pkg/template"
)

// uiOut receives status output. Data (JSON, DOT, SVG) goes to the command's
// stdout instead so it can be piped.
var uiOut io.Writer = os.Stderr

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// aspectColors mirror the edge colors of the aspect diagram.
var aspectColors = map[aspect.Type]lipgloss.Color{
	aspect.Conjunction: lipgloss.Color("178"),
	aspect.Opposition:  colorRed,
	aspect.Trine:       colorBlue,
	aspect.Square:      colorRed,
	aspect.Sextile:     colorGreen,
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints pipeline statistics on a single line.
func printStats(stats pipeline.Stats, info pipeline.CacheInfo) {
	var parts []string
	if stats.LayerCount > 0 {
		parts = append(parts, plural(stats.LayerCount, "layer"))
	}
	if stats.RingCount > 0 {
		parts = append(parts, plural(stats.RingCount, "ring"))
	}
	if stats.ItemCount > 0 {
		parts = append(parts, plural(stats.ItemCount, "item"))
	}
	parts = append(parts, plural(stats.PairCount, "aspect"))

	status, statusStyle := iconFresh, styleComputed
	if info.AspectsHit && info.WheelHit {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(uiOut, line)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// =============================================================================
// Tables
// =============================================================================

// renderAspectTable renders the pairs of a set as a table.
func renderAspectTable(set aspect.Set, pairs []aspect.Pair) string {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		motion := "separating"
		if p.Aspect.Applying {
			motion = "applying"
		}
		if p.Aspect.Exact {
			motion += ", exact"
		}
		rows = append(rows, []string{
			endpoint(set, p.A),
			string(p.Aspect.Type),
			endpoint(set, p.B),
			strconv.FormatFloat(p.Aspect.Orb, 'f', 2, 64),
			motion,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("A", "Aspect", "B", "Orb", "Motion").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if col == 1 && row >= 0 && row < len(pairs) {
				if c, ok := aspectColors[pairs[row].Aspect.Type]; ok {
					return lipgloss.NewStyle().Foreground(c)
				}
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// endpoint names an object, prefixed with its layer for inter-layer sets.
func endpoint(set aspect.Set, ref aspect.ObjectRef) string {
	if set.Kind == aspect.InterLayer {
		return ref.LayerID + "/" + ref.ObjectID
	}
	return ref.ObjectID
}

// renderTypeCounts summarizes a set as "3 trine · 1 square".
func renderTypeCounts(set aspect.Set) string {
	counts := set.CountByType()
	if len(counts) == 0 {
		return "no aspects"
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%d %s", counts[aspect.Type(t)], t)
	}
	return strings.Join(parts, " · ")
}

// renderTemplateTable renders template summaries. The row at cursor is
// highlighted; pass -1 for none.
func renderTemplateTable(docs []template.Document, cursor int) string {
	rows := make([][]string, 0, len(docs))
	for i, d := range docs {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		layers := strings.Join(d.Layers, ", ")
		if layers == "" {
			layers = "—"
		}
		rows = append(rows, []string{marker, d.ID, d.Name, strconv.Itoa(len(d.Rings)), layers})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "Template", "Name", "Rings", "Layers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHeader
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col >= 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
