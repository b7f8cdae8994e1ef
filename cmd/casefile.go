package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/n2cholas/shapecheck/check"
	"github.com/pelletier/go-toml/v2"
)

// caseFile declares checked functions and the call trees to run them in:
//
//	[[function]]
//	name = "outer"
//	in = ["M", false]       # false skips an argument
//	out = "M"
//	match_callees = true
//
//	[[call]]
//	function = "outer"
//	args = [[4], "anything"]
//	out = [4]               # what the body returns
//	  [[call.calls]]        # calls made from the body
//	  function = "inner"
//	  args = [[4]]
type caseFile struct {
	Functions []functionCase `toml:"function"`
	Calls     []callCase     `toml:"call"`
}

type functionCase struct {
	Name string `toml:"name"`
	// Params names the arguments; they are named arg0, arg1... otherwise
	Params       []string `toml:"params"`
	In           []any    `toml:"in"`
	Out          any      `toml:"out"`
	MatchCallees bool     `toml:"match_callees"`
}

type callCase struct {
	Name     string `toml:"name"`
	Function string `toml:"function"`
	Args     []any  `toml:"args"`
	Out      any    `toml:"out"`
	// Fail marks calls expected to fail
	Fail  bool       `toml:"fail"`
	Calls []callCase `toml:"calls"`
}

func (c callCase) label(i int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("call %d (%s)", i, c.Function)
}

type suite struct {
	sigs  map[string]*check.Signature
	calls []callCase
}

func loadSuite(r io.Reader) (*suite, error) {
	var cf caseFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cf); err != nil {
		return nil, fmt.Errorf("could not decode case file: %w", err)
	}

	s := &suite{sigs: make(map[string]*check.Signature, len(cf.Functions)), calls: cf.Calls}
	for _, fc := range cf.Functions {
		if _, ok := s.sigs[fc.Name]; ok {
			return nil, fmt.Errorf("function %q declared twice", fc.Name)
		}
		sig, err := fc.signature()
		if err != nil {
			return nil, fmt.Errorf("invalid function %q: %w", fc.Name, err)
		}
		s.sigs[fc.Name] = sig
	}
	for _, c := range cf.Calls {
		if err := s.validate(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (fc functionCase) signature() (*check.Signature, error) {
	specs := make([]any, len(fc.In))
	for i, in := range fc.In {
		specs[i] = decl(in)
	}
	params := check.Positional(specs...)
	if len(fc.Params) > 0 {
		if len(fc.Params) != len(fc.In) {
			return nil, fmt.Errorf("%d params named for %d inputs", len(fc.Params), len(fc.In))
		}
		for i, name := range fc.Params {
			params[i].Name = name
		}
	}

	var opts []check.Option
	if fc.Out != nil {
		opts = append(opts, check.WithOut(decl(fc.Out)))
	}
	if fc.MatchCallees {
		opts = append(opts, check.MatchCallees())
	}
	return check.NewSignature(fc.Name, params, opts...)
}

// decl turns the false placeholders of a declaration into skips.
func decl(v any) any {
	switch v := v.(type) {
	case bool:
		if !v {
			return nil
		}
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = decl(child)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = decl(child)
		}
		return out
	}
	return v
}

func (s *suite) validate(c callCase) error {
	if _, ok := s.sigs[c.Function]; !ok {
		return fmt.Errorf("call to undeclared function %q", c.Function)
	}
	for _, sub := range c.Calls {
		if err := s.validate(sub); err != nil {
			return err
		}
	}
	return nil
}

// run calls c and, from its body, every call nested in it. The first
// failing nested call fails c.
func (s *suite) run(ctx context.Context, c callCase) (any, error) {
	return check.Call(ctx, s.sigs[c.Function], c.Args, func(ctx context.Context) (any, error) {
		for _, sub := range c.Calls {
			if _, err := s.run(ctx, sub); err != nil {
				return nil, err
			}
		}
		return c.Out, nil
	})
}
