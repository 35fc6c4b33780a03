// Package registry implements the command registry of spec.md §4.1/§6: a
// named table of command syntaxes (argument counts, allowed options,
// pre/run/post-run hooks, read-only vs. read-write mode).
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dbctl/idl"
)

// ErrOptionConflict is wrapped into the error AddCmdOptions returns when
// two commands declare the same "--name" option with conflicting has-arg
// requirements; callers that only need to detect the category (rather than
// the formatted message) can match it with errors.Is.
var ErrOptionConflict = errors.New("conflicting option declaration")

// Mode says whether a command may write to the database; used by
// MightWriteToDB to pick a read-only vs. read/write session.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

// Command is one parsed instance of a Syntax: a command name, its
// positional arguments, and its options (flag -> "" for a valueless
// option, flag -> value for "--name=value").
type Command struct {
	Syntax  *Syntax
	Args    []string // Args[0] is always the command name
	Options map[string]string
}

// Option returns the option's value and whether it was supplied at all.
func (c *Command) Option(name string) (string, bool) {
	v, ok := c.Options[name]
	return v, ok
}

// Hook is one of a Syntax's pre-run/run/post-run functions.
type Hook func(ctx *idl.Context, cmd *Command) error

// Syntax describes one command's grammar and behavior.
type Syntax struct {
	Name    string
	MinArgs int
	MaxArgs int
	// Options is a comma-separated spec of this command's allowed
	// "--name" / "--name=" options, e.g. "if-exists,columns=". A trailing
	// "=" means the option requires a value.
	Options string
	Mode    Mode

	PreRun  Hook
	Run     Hook
	PostRun Hook
}

func (s *Syntax) optionSpecs() map[string]bool {
	out := map[string]bool{}
	for _, part := range strings.Split(s.Options, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasSuffix(part, "=") {
			out[strings.TrimSuffix(part, "=")] = true
		} else {
			out[part] = false
		}
	}
	return out
}

// Registry is the process-wide (or per-host, in tests) table of known
// command syntaxes.
type Registry struct {
	byName map[string]*Syntax
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: map[string]*Syntax{}}
}

// Register appends one syntax, added by the host via register_commands
// (spec.md §6).
func (r *Registry) Register(s *Syntax) {
	r.byName[s.Name] = s
}

// Lookup returns the named syntax, or nil.
func (r *Registry) Lookup(name string) *Syntax {
	return r.byName[name]
}

// CheckOption validates that name is a declared option of s and that it
// does/doesn't carry a value as declared.
func (s *Syntax) CheckOption(name string, hasValue bool) error {
	specs := s.optionSpecs()
	wantsValue, ok := specs[name]
	if !ok {
		return fmt.Errorf("\"%s\" command has no \"--%s\" option", s.Name, name)
	}
	if wantsValue != hasValue {
		if wantsValue {
			return fmt.Errorf("\"--%s\" option on \"%s\" command requires an argument", name, s.Name)
		}
		return fmt.Errorf("\"--%s\" option on \"%s\" command does not accept an argument", name, s.Name)
	}
	return nil
}

// LongOption is one entry of the host argv parser's long-option table,
// produced by AddCmdOptions (spec.md §6's add_cmd_options).
type LongOption struct {
	Name    string
	HasArg  bool
	ValFlag int
}

// AddCmdOptions harvests every "--opt[=]" declared by every registered
// command into a host-provided long-option table, failing if two commands
// declare the same option name with conflicting HasArg (spec.md §6).
func (r *Registry) AddCmdOptions(existing []LongOption, optVal int) ([]LongOption, error) {
	seen := map[string]bool{}
	for _, o := range existing {
		seen[o.Name] = o.HasArg
	}

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := append([]LongOption(nil), existing...)
	for _, cmdName := range names {
		s := r.byName[cmdName]
		for name, hasArg := range s.optionSpecs() {
			if prior, ok := seen[name]; ok {
				if prior != hasArg {
					return nil, fmt.Errorf("option \"--%s\" declared by %q with conflicting argument requirements: %w", name, cmdName, ErrOptionConflict)
				}
				continue
			}
			seen[name] = hasArg
			out = append(out, LongOption{Name: name, HasArg: hasArg, ValFlag: optVal})
		}
	}
	return out, nil
}

// MightWriteToDB reports whether any token of argv names a registered
// command whose mode is ReadWrite, letting the host choose between a
// read-only and a read/write session before running the stream.
func (r *Registry) MightWriteToDB(argv []string) bool {
	for _, tok := range argv {
		if tok == "--" || strings.HasPrefix(tok, "-") {
			continue
		}
		if s := r.byName[tok]; s != nil && s.Mode == ReadWrite {
			return true
		}
	}
	return false
}
