// Package report renders the outcome of checking one call as an indented tree.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/n2cholas/shapecheck/match"
	"github.com/n2cholas/shapecheck/util"
	"github.com/n2cholas/shapecheck/walk"
)

// Diagnostic is everything known about one checked call.
type Diagnostic struct {
	Name string
	// Bindings are the named dimensions bound when checking stopped
	Bindings map[string]match.Binding
	Inputs   *walk.Result
	// Output is nil unless the output was checked
	Output *walk.Result
}

const indentWidth = 4

var (
	colorMatch    = lipgloss.Color("#10B981")
	colorMismatch = lipgloss.Color("#EF4444")
	colorMuted    = lipgloss.Color("#6B7280")
	colorHeader   = lipgloss.Color("#7C3AED")
)

// Styles decides how the outcome of each line is rendered.
type Styles struct {
	Color    bool
	Match    lipgloss.Style
	Mismatch lipgloss.Style
	Skipped  lipgloss.Style
	Header   lipgloss.Style
}

// Plain renders without any escape sequences.
var Plain = Styles{}

// Colored renders matches green and mismatches red, as far as the
// terminal supports it.
var Colored = Styles{
	Color:    true,
	Match:    lipgloss.NewStyle().Foreground(colorMatch),
	Mismatch: lipgloss.NewStyle().Bold(true).Foreground(colorMismatch),
	Skipped:  lipgloss.NewStyle().Foreground(colorMuted),
	Header:   lipgloss.NewStyle().Bold(true).Foreground(colorHeader),
}

func (s Styles) render(style lipgloss.Style, text string) string {
	if !s.Color {
		return text
	}
	return style.Render(text)
}

// Render lays d out as:
//
//	in function f.
//	Named Dimensions: {N: 3, W: 2}.
//	Input:
//	    Match:    Argument: x Expected Shape: (N, W) Actual Shape: (3, 2).
//	    Argument: y  Type: sequence
//	        MisMatch: Ind: 0 Expected Shape: (N) Actual Shape: (4,). dim 0: N bound to 3, got 4
//	Output:
//	    Match:    Expected Shape: (N) Actual Shape: (3,).
func Render(d Diagnostic, s Styles) string {
	sb := &strings.Builder{}
	sb.WriteString(s.render(s.Header, fmt.Sprintf("in function %s.", d.Name)))
	sb.WriteByte('\n')
	fmt.Fprintf(sb, "Named Dimensions: %s.\n", FormatBindings(d.Bindings))

	if d.Inputs != nil {
		sb.WriteString(s.render(s.Header, "Input:"))
		sb.WriteByte('\n')
		for _, arg := range d.Inputs.Children {
			writeNode(sb, s, arg, "Argument: "+arg.Key, indentWidth)
		}
	}
	if d.Output != nil {
		sb.WriteString(s.render(s.Header, "Output:"))
		if d.Output.Kind == walk.LeafKind {
			sb.WriteByte('\n')
			writeNode(sb, s, d.Output, "", indentWidth)
		} else {
			fmt.Fprintf(sb, "  Type: %s\n", d.Output.Kind)
			writeChildren(sb, s, d.Output, indentWidth)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatBindings renders bindings sorted by name, e.g. {N: 3, rest...: (1, 2)}.
func FormatBindings(bindings map[string]match.Binding) string {
	keys := util.SortedKeys(bindings)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, bindings[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func writeNode(sb *strings.Builder, s Styles, r *walk.Result, label string, indent int) {
	pad := strings.Repeat(" ", indent)
	if r.Kind != walk.LeafKind {
		fmt.Fprintf(sb, "%s%s  Type: %s\n", pad, label, r.Kind)
		writeChildren(sb, s, r, indent+indentWidth)
		return
	}
	sb.WriteString(pad)
	sb.WriteString(leafLine(s, r, label))
	sb.WriteByte('\n')
}

func writeChildren(sb *strings.Builder, s Styles, r *walk.Result, indent int) {
	prefix := "Key: "
	if r.Kind == walk.SequenceKind {
		prefix = "Ind: "
	}
	for _, c := range r.Children {
		writeNode(sb, s, c, prefix+c.Key, indent)
	}
}

func leafLine(s Styles, r *walk.Result, label string) string {
	if r.Outcome == match.Skipped {
		return s.render(s.Skipped, fmt.Sprintf("%-10s%s.", "Skipped:", label))
	}
	info := fmt.Sprintf("Expected Shape: (%s) Actual Shape: %s.", r.Expected, r.Actual)
	if label != "" {
		info = label + " " + info
	}
	if r.Outcome == match.Mismatch {
		line := fmt.Sprintf("%-10s%s", "MisMatch:", info)
		if r.Reason != "" {
			line += " " + r.Reason
		}
		return s.render(s.Mismatch, line)
	}
	return s.render(s.Match, fmt.Sprintf("%-10s%s", "Match:", info))
}
