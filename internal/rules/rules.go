// Package rules loads token rule files and compiles every rule into its own
// DFA. A rule file is YAML:
//
//	alphabet: "abcdefghijklmnopqrstuvwxyz0123456789 "
//	maxStates: 10000
//	rules:
//	  - name: ident
//	    pattern: cat(class("abc"), star(class("abc0123456789")))
//	  - name: ws
//	    pattern: plus(lit(" "))
//	    skip: true
//
// The alphabet defaults to a-z, A-Z, 0-9.
package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"sigs.k8s.io/yaml"

	"lexauto/internal/alphabet"
	"lexauto/internal/dfa"
	"lexauto/internal/nfa"
	"lexauto/internal/scanner"
)

var ErrNoRules = errors.New("rules: no rules defined")

type File struct {
	Alphabet  string     `json:"alphabet,omitempty"`
	MaxStates int        `json:"maxStates,omitempty"`
	Rules     []RuleSpec `json:"rules"`
}

type RuleSpec struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Skip    bool   `json:"skip,omitempty"`
}

// Load reads and validates a rule file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a rule file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, ErrNoRules
	}
	if f.MaxStates < 0 {
		return nil, fmt.Errorf("rules: negative maxStates %d", f.MaxStates)
	}
	seen := make(map[string]bool, len(f.Rules))
	for i, r := range f.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rules: rule %d has no name", i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("rules: duplicate rule %q", r.Name)
		}
		seen[r.Name] = true
	}
	return &f, nil
}

// Rule is one compiled rule with the session that owns its states.
type Rule struct {
	Name     string
	Skip     bool
	Session  *nfa.Session
	Fragment nfa.Fragment
	DFA      *dfa.DFA
}

type Set struct {
	Alphabet *alphabet.Alphabet
	Rules    []*Rule
}

// Compile builds every rule in its own session. Errors name the rule.
func Compile(f *File, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}
	alpha := alphabet.Alphanumeric()
	if f.Alphabet != "" {
		var err error
		if alpha, err = alphabet.FromString(f.Alphabet); err != nil {
			return nil, fmt.Errorf("rules: %w", err)
		}
	}

	set := &Set{Alphabet: alpha}
	for _, rs := range f.Rules {
		r, err := compileRule(rs, alpha, f.MaxStates, logger)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rs.Name, err)
		}
		logger.Info("compiled rule",
			"rule", r.Name,
			"session", r.Session.ID(),
			"nfa_states", r.Session.Len(),
			"dfa_nodes", r.DFA.Len(),
		)
		set.Rules = append(set.Rules, r)
	}
	return set, nil
}

func compileRule(rs RuleSpec, alpha *alphabet.Alphabet, maxStates int, logger *slog.Logger) (*Rule, error) {
	p, err := ParsePattern(rs.Pattern)
	if err != nil {
		return nil, err
	}
	sess := nfa.NewSession()
	frag, err := p.Build(sess)
	if err != nil {
		return nil, err
	}
	d, err := dfa.Determinize(sess, frag, alpha, dfa.Options{MaxStates: maxStates, Logger: logger})
	if err != nil {
		return nil, err
	}
	return &Rule{Name: rs.Name, Skip: rs.Skip, Session: sess, Fragment: frag, DFA: d}, nil
}

func (s *Set) Rule(name string) (*Rule, bool) {
	for _, r := range s.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Scanner returns a maximal-munch scanner over the rules in file order.
func (s *Set) Scanner() *scanner.Scanner {
	rules := make([]scanner.Rule, len(s.Rules))
	for i, r := range s.Rules {
		rules[i] = scanner.Rule{Name: r.Name, DFA: r.DFA, Skip: r.Skip}
	}
	return scanner.New(rules...)
}
