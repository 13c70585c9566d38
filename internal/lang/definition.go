package lang

import (
	"fmt"
	"strings"

	"github.com/gnolang/tdup/internal/statement"
	"github.com/gnolang/tdup/internal/statement/matcher"
	"github.com/gnolang/tdup/internal/token"
)

// Definition describes a language in the configuration file.
//
// A definition either names a built-in profile (Builtin) and optionally
// overrides its extensions, or lists its own token and statement rules.
type Definition struct {
	Name       string          `yaml:"name"`
	Builtin    string          `yaml:"builtin,omitempty"`
	Extensions []string        `yaml:"extensions"`
	Tokens     []TokenRule     `yaml:"tokens,omitempty"`
	Statements []StatementRule `yaml:"statements,omitempty"`
}

// TokenRule is one regexp channel of the lexer.
type TokenRule struct {
	Pattern   string `yaml:"pattern"`
	Normalize string `yaml:"normalize,omitempty"`
	Ignore    bool   `yaml:"ignore,omitempty"`
}

// StatementRule is one statement channel.
type StatementRule struct {
	Ignore   bool          `yaml:"ignore,omitempty"`
	Matchers []MatcherSpec `yaml:"matchers"`
}

// MatcherSpec describes a single matcher.
//
//	kind: any | exact | upto | bridge | opt | forget-last
//
// exact and upto take one or more values, bridge takes exactly two
// (opening and closing token) and opt wraps the nested matcher.
type MatcherSpec struct {
	Kind    string       `yaml:"kind"`
	Values  []string     `yaml:"values,omitempty"`
	Matcher *MatcherSpec `yaml:"matcher,omitempty"`
}

const (
	KindAny        = "any"
	KindExact      = "exact"
	KindUpTo       = "upto"
	KindBridge     = "bridge"
	KindOpt        = "opt"
	KindForgetLast = "forget-last"
)

// Compile builds the profile described by d.
func (d Definition) Compile(policy statement.Policy) (*Profile, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("language definition without a name")
	}

	if d.Builtin != "" {
		p, ok, err := Builtin(d.Builtin, policy)
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", d.Name, err)
		}
		if !ok {
			return nil, fmt.Errorf("language %q: unknown builtin %q", d.Name, d.Builtin)
		}
		p.Name = d.Name
		if len(d.Extensions) > 0 {
			p.Extensions = d.Extensions
		}
		return p, nil
	}

	if len(d.Extensions) == 0 {
		return nil, fmt.Errorf("language %q: no extensions", d.Name)
	}

	lexer, err := d.compileLexer()
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", d.Name, err)
	}
	chunker, err := d.compileChunker(policy)
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", d.Name, err)
	}

	return &Profile{
		Name:       d.Name,
		Extensions: d.Extensions,
		Lexer:      lexer,
		Chunker:    chunker,
	}, nil
}

func (d Definition) compileLexer() (*token.Chunker, error) {
	if len(d.Tokens) == 0 {
		return nil, fmt.Errorf("no token rules")
	}
	b := token.NewChunkerBuilder()
	for _, r := range d.Tokens {
		switch {
		case r.Ignore:
			b.Ignore(r.Pattern)
		case r.Normalize != "":
			b.TokenNormalized(r.Pattern, r.Normalize)
		default:
			b.Token(r.Pattern)
		}
	}
	return b.Build()
}

func (d Definition) compileChunker(policy statement.Policy) (*statement.Chunker, error) {
	if len(d.Statements) == 0 {
		return nil, fmt.Errorf("no statement rules")
	}
	b := statement.NewChunkerBuilder().Policy(policy)
	for i, r := range d.Statements {
		ms := make([]matcher.Matcher, 0, len(r.Matchers))
		for j, spec := range r.Matchers {
			m, err := spec.Build()
			if err != nil {
				return nil, fmt.Errorf("statement rule %d, matcher %d: %w", i, j, err)
			}
			ms = append(ms, m)
		}
		if r.Ignore {
			b.Ignore(ms...)
		} else {
			b.Statement(ms...)
		}
	}
	return b.Build()
}

// Build validates s and creates the matcher.
func (s MatcherSpec) Build() (matcher.Matcher, error) {
	switch strings.ToLower(s.Kind) {
	case KindAny:
		return matcher.AnyToken(), nil
	case KindExact:
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("%s matcher needs at least one value", KindExact)
		}
		return matcher.Exact(s.Values...), nil
	case KindUpTo:
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("%s matcher needs at least one value", KindUpTo)
		}
		return matcher.UpTo(s.Values...), nil
	case KindBridge:
		if len(s.Values) != 2 || s.Values[0] == "" || s.Values[1] == "" || s.Values[0] == s.Values[1] {
			return nil, fmt.Errorf("%s matcher needs two distinct values, got %q", KindBridge, s.Values)
		}
		return matcher.Bridge(s.Values[0], s.Values[1]), nil
	case KindOpt:
		if s.Matcher == nil {
			return nil, fmt.Errorf("%s matcher needs a nested matcher", KindOpt)
		}
		inner, err := s.Matcher.Build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KindOpt, err)
		}
		return matcher.Opt(inner), nil
	case KindForgetLast:
		return matcher.ForgetLastToken(), nil
	default:
		return nil, fmt.Errorf("unknown matcher kind %q", s.Kind)
	}
}
