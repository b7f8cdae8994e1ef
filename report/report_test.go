package report

import (
	"strings"
	"testing"

	"github.com/n2cholas/shapecheck/match"
	"github.com/n2cholas/shapecheck/shape"
	"github.com/n2cholas/shapecheck/shapespec"
	"github.com/n2cholas/shapecheck/walk"
	"github.com/stretchr/testify/assert"
)

func leaf(key, spec string, actual shape.Shape, outcome match.Outcome, reason string) *walk.Result {
	return &walk.Result{
		Kind:     walk.LeafKind,
		Key:      key,
		Path:     key,
		Outcome:  outcome,
		Expected: shapespec.MustParse(spec),
		Actual:   actual,
		Reason:   reason,
	}
}

func TestRender(t *testing.T) {
	inputs := walk.Branch(walk.SequenceKind, "", "", []*walk.Result{
		leaf("x", "N, W", shape.Shape{3, 2}, match.Match, ""),
		walk.Branch(walk.SequenceKind, "y", "y", []*walk.Result{
			leaf("0", "N", shape.Shape{4}, match.Mismatch, "dim 0: N bound to 3, got 4"),
			{Kind: walk.LeafKind, Key: "1", Path: "y[1]", Outcome: match.Skipped},
		}),
	})
	output := walk.Branch(walk.MappingKind, "out", "out", []*walk.Result{
		leaf("a", "N", shape.Shape{3}, match.Match, ""),
	})

	got := Render(Diagnostic{
		Name:     "f",
		Bindings: map[string]match.Binding{"W": match.Dim(2), "N": match.Dim(3)},
		Inputs:   inputs,
		Output:   output,
	}, Plain)

	want := strings.Join([]string{
		"in function f.",
		"Named Dimensions: {N: 3, W: 2}.",
		"Input:",
		"    Match:    Argument: x Expected Shape: (N, W) Actual Shape: (3, 2).",
		"    Argument: y  Type: sequence",
		"        MisMatch: Ind: 0 Expected Shape: (N) Actual Shape: (4,). dim 0: N bound to 3, got 4",
		"        Skipped:  Ind: 1.",
		"Output:  Type: mapping",
		"    Match:    Key: a Expected Shape: (N) Actual Shape: (3,).",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderLeafOutput(t *testing.T) {
	got := Render(Diagnostic{
		Name:   "g",
		Output: leaf("out", "...", shape.Shape{}, match.Match, ""),
	}, Plain)
	assert.Equal(t, "in function g.\nNamed Dimensions: {}.\nOutput:\n    Match:    Expected Shape: (...) Actual Shape: ().", got)
}

func TestFormatBindings(t *testing.T) {
	assert.Equal(t, "{}", FormatBindings(nil))
	assert.Equal(t, "{B: 2, batch...: (1, 2)}", FormatBindings(map[string]match.Binding{
		"batch...": match.Span(shape.Shape{1, 2}),
		"B":        match.Dim(2),
	}))
}

func TestPlainHasNoEscapes(t *testing.T) {
	got := Render(Diagnostic{
		Name:   "h",
		Inputs: walk.Branch(walk.SequenceKind, "", "", []*walk.Result{leaf("x", "3", shape.Shape{4}, match.Mismatch, "")}),
	}, Plain)
	assert.NotContains(t, got, "\x1b[")
	assert.Contains(t, got, "MisMatch: Argument: x")
}
