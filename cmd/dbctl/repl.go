package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"dbctl/internal/cmderr"
	"dbctl/internal/commands"
	"dbctl/internal/registry"
	"dbctl/store"
)

// runREPL drives an interactive dbctl shell: one line is one command
// stream, split on literal "--" exactly like a one-shot invocation, run
// against the same long-lived *store.Store across lines (spec.md §9).
func runREPL(dbPath, schemaPath string) error {
	sch, err := loadSchema(schemaPath)
	if err != nil {
		cmderr.Fatal(err)
		return nil
	}

	db, err := store.Open(dbPath, sch)
	if err != nil {
		cmderr.Fatal(err)
		return nil
	}
	defer db.Close()

	reg := registry.New()
	commands.RegisterBuiltins(reg)
	if schemaPath == "" {
		commands.RegisterShow(reg, demoShowTables(sch))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "dbctl> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		argv, err := tokenize(line)
		if err != nil {
			cmderr.Warn("%s", err)
			continue
		}

		out := &strings.Builder{}
		if runErr := RunStream(reg, db, sch, argv, false, out); runErr != nil {
			cmderr.Warn("%s", runErr)
			continue
		}
		if out.Len() > 0 {
			raw := out.String()
			if argv[0] == "show" {
				raw = renderShow(raw)
			}
			fmt.Fprint(os.Stdout, raw)
		}
	}
}

// tokenize splits a REPL line into shell-like tokens, honoring single and
// double quotes so VALUEs such as name="eth 0" survive as one token.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	var inToken bool
	var quote rune

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			flush()
		default:
			inToken = true
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	flush()
	return tokens, nil
}
