// Package cmdparse implements the token splitter of spec.md §4.1: breaking
// a raw argv into per-command slices separated by literal "--" tokens, and
// parsing each slice's leading "--opt[=val]" options.
package cmdparse

import (
	"strings"

	"dbctl/internal/cmderr"
	"dbctl/internal/registry"
)

// Split breaks argv into command slices at every literal "--" token. Each
// non-empty slice becomes one command's raw tokens.
func Split(argv []string) [][]string {
	var commands [][]string
	var cur []string
	for _, tok := range argv {
		if tok == "--" {
			if len(cur) > 0 {
				commands = append(commands, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		commands = append(commands, cur)
	}
	return commands
}

// ParseStream splits argv and turns every resulting slice into a validated
// registry.Command. localOptions are options the host has already parsed
// from in front of the first command (e.g. global cobra flags it chooses to
// let the first command also see); they are moved, not copied, into the
// first command's option map (spec.md §4.1: "The first command inherits
// the host's pre-parsed local options by swap").
func ParseStream(reg *registry.Registry, argv []string, localOptions map[string]string) ([]*registry.Command, error) {
	var out []*registry.Command
	for i, tokens := range Split(argv) {
		opts := map[string]string{}
		if i == 0 && localOptions != nil {
			opts = localOptions
		}
		cmd, err := parseOne(reg, tokens, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}

func parseOne(reg *registry.Registry, tokens []string, opts map[string]string) (*registry.Command, error) {
	i := 0
	for i < len(tokens) && strings.HasPrefix(tokens[i], "-") && tokens[i] != "-" {
		name, value, hasValue := splitOption(tokens[i])
		if _, dup := opts[name]; dup {
			return nil, cmderr.Parse("duplicate option \"--%s\"", name)
		}
		opts[name] = value
		_ = hasValue
		i++
	}

	rest := tokens[i:]
	if len(rest) == 0 {
		return nil, cmderr.Parse("missing command name")
	}

	name := rest[0]
	syntax := reg.Lookup(name)
	if syntax == nil {
		return nil, cmderr.Parse("%q is not a valid command name", name)
	}

	for optName, value := range opts {
		if err := syntax.CheckOption(optName, value != "" || hasOptionValue(tokens, optName)); err != nil {
			return nil, cmderr.Parse("%s", err)
		}
	}

	args := rest[1:]
	if len(args) < syntax.MinArgs || len(args) > syntax.MaxArgs {
		hint := ""
		if len(args) > syntax.MaxArgs && strings.HasPrefix(args[syntax.MaxArgs], "-") {
			hint = " (options must precede command names)"
		}
		return nil, cmderr.Parse("\"%s\" command requires between %d and %d arguments%s", name, syntax.MinArgs, syntax.MaxArgs, hint)
	}

	return &registry.Command{Syntax: syntax, Args: rest, Options: opts}, nil
}

// splitOption parses one "--name" or "--name=value" token into its bare
// name and value.
func splitOption(tok string) (name, value string, hasValue bool) {
	tok = strings.TrimLeft(tok, "-")
	if eq := strings.IndexByte(tok, '='); eq >= 0 {
		return tok[:eq], tok[eq+1:], true
	}
	return tok, "", false
}

// hasOptionValue re-derives whether the option as originally typed carried
// a "=value" suffix, since the map alone can't distinguish "--opt=" (empty
// value, present) from "--opt" (no value) once both are stored as "".
func hasOptionValue(tokens []string, name string) bool {
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "-") {
			continue
		}
		n, _, hasValue := splitOption(tok)
		if n == name {
			return hasValue
		}
	}
	return false
}
