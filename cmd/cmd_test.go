package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/n2cholas/shapecheck/check"
	"github.com/n2cholas/shapecheck/internal/log"
	"github.com/n2cholas/shapecheck/report"
	"github.com/n2cholas/shapecheck/shape"
	"github.com/n2cholas/shapecheck/shapeerr"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	c := &cobra.Command{}
	c.SetOut(buf)
	err := fn(c, args)
	return buf.String(), err
}

func TestParse(t *testing.T) {
	out, err := run(t, runParse, "N, -1, batch..., 3")
	require.NoError(t, err)
	assert.Contains(t, out, "(N, -1, batch..., 3)")
	assert.Contains(t, out, "labels: [N batch...]")

	_, err = run(t, runParse, "..., ...")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(E001)")
}

func TestMatch(t *testing.T) {
	out, err := run(t, runMatch, "N, ...", "(3, 2)", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Named Dimensions: {N: 3}.")

	out, err = run(t, runMatch, "N", "(3,)", "(4,)")
	require.Error(t, err)
	assert.Contains(t, out, "MisMatch:")
	assert.Contains(t, err.Error(), "1 of 2 shapes")

	_, err = run(t, runMatch, "N", "x")
	assert.Error(t, err)
}

func TestParseShape(t *testing.T) {
	cases := map[string]shape.Shape{
		"()":     {},
		"":       {},
		"3":      {3},
		"(3,)":   {3},
		"3,2":    {3, 2},
		"(3, 2)": {3, 2},
	}
	for in, want := range cases {
		got, err := parseShape(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"3,,2", "(a)", "(3, 2.5)"} {
		_, err := parseShape(in)
		assert.Error(t, err, in)
	}
}

func TestCheckCaseFile(t *testing.T) {
	out, err := run(t, runCheck, filepath.Join("testdata", "cases.toml"))
	require.NoError(t, err, out)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "PASS linear layer", lines[0])
	assert.Contains(t, out, "FAIL wrong output (expected)")
	assert.Contains(t, out, "PASS callee agrees")
	assert.Contains(t, out, "FAIL callee disagrees (expected)")
	assert.Contains(t, out, "    in function project.")
	assert.Contains(t, out, "by a calling function")
}

func writeCases(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckUnexpectedOutcome(t *testing.T) {
	path := writeCases(t, `
[[function]]
name = "f"
in = ["N", "N"]

[[call]]
function = "f"
args = [[2], [3]]
`)
	out, err := run(t, runCheck, path)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL call 0 (f)")
	assert.Contains(t, out, "MisMatch: Argument: arg1")
	assert.Contains(t, err.Error(), "1 of 1 calls")
}

func TestCheckStructuralError(t *testing.T) {
	path := writeCases(t, `
[[function]]
name = "f"
in = [{ a = "N" }]

[[call]]
function = "f"
args = [{ b = [1] }]
fail = true
`)
	out, err := run(t, runCheck, path)
	require.NoError(t, err)
	assert.Contains(t, out, "(E007)")
}

func TestCheckInvalidFiles(t *testing.T) {
	cases := map[string]string{
		"undeclared": `
[[call]]
function = "missing"
`,
		"unknown field": `
[[function]]
name = "f"
inputs = ["N"]
`,
		"bad spec": `
[[function]]
name = "f"
in = ["..., ..."]
`,
		"duplicate": `
[[function]]
name = "f"
[[function]]
name = "f"
`,
		"param count": `
[[function]]
name = "f"
params = ["x", "y"]
in = ["N"]
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, runCheck, writeCases(t, content))
			assert.Error(t, err)
		})
	}

	_, err := run(t, runCheck, filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDecl(t *testing.T) {
	got := decl([]any{false, "N", map[string]any{"a": false, "b": []any{false}}})
	assert.Equal(t, []any{nil, "N", map[string]any{"a": nil, "b": []any{nil}}}, got)
	assert.Equal(t, true, decl(true))
	_, err := (functionCase{Name: "f", In: []any{true}}).signature()
	assert.Equal(t, shapeerr.UnsupportedSpec, shapeerr.CodeOf(err))
}

func TestConfigure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapecheck.toml")
	require.NoError(t, os.WriteFile(path, []byte("enabled = false\ncolor = false\nlog_level = \"debug\"\n"), 0o644))

	restore, err := Configure(path)
	require.NoError(t, err)
	assert.False(t, check.Enabled())
	assert.False(t, styles.Color)
	assert.Equal(t, slog.LevelDebug, log.Level())

	out, err := run(t, runMatch, "N", "(3,)", "(4,)")
	assert.Error(t, err, "match ignores the enabled switch")
	assert.NotContains(t, out, "\x1b[")

	restore()
	assert.True(t, check.Enabled())
	assert.Equal(t, report.Plain, styles)
	assert.Equal(t, slog.LevelError, log.Level())
}

func TestConfigureInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapecheck.toml")
	require.NoError(t, os.WriteFile(path, []byte("enabled = false\nlog_level = \"loud\"\n"), 0o644))

	_, err := Configure(path)
	assert.Error(t, err)
	assert.True(t, check.Enabled(), "a rejected config changes nothing")
}
