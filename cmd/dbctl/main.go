// Command dbctl hosts the generic OVSDB-style command library
// (dbctl/internal/commands) against an embedded sqlite-backed store. It
// mirrors ovs-vsctl's own split: global options, then one or more
// "--"-separated commands run as a single transactional stream.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dbctl/internal/cmdparse"
	"dbctl/internal/cmderr"
	"dbctl/internal/commands"
	"dbctl/internal/registry"
	"dbctl/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dbctl",
		Short: "Schema-driven OVSDB-style database command tool",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(replCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runFlags are dbctl's own "--name[=value]" options, which runCmd parses
// by hand (DisableFlagParsing) rather than through cobra/pflag, so the
// literal "--" tokens separating the vsctl-style command stream are never
// touched by pflag's own "--" handling.
type runFlags struct {
	dbPath     string
	schemaPath string
	dryRun     bool
}

func parseRunFlags(args []string) (runFlags, []string, error) {
	var f runFlags
	var rest []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--dry-run":
			f.dryRun = true
		case strings.HasPrefix(args[i], "--db="):
			f.dbPath = strings.TrimPrefix(args[i], "--db=")
		case strings.HasPrefix(args[i], "--schema="):
			f.schemaPath = strings.TrimPrefix(args[i], "--schema=")
		default:
			rest = append(rest, args[i])
		}
	}
	if f.dbPath == "" {
		f.dbPath = "dbctl.sqlite"
	}
	return f, rest, nil
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "run [--db=PATH] [--schema=PATH] [--dry-run] COMMAND [ARG...] [-- COMMAND [ARG...]]...",
		Short:              "Run one or more database commands as a single transactional stream",
		DisableFlagParsing: true,
		RunE: func(_ *cobra.Command, args []string) error {
			flags, stream, err := parseRunFlags(args)
			if err != nil {
				return err
			}
			if len(stream) == 0 {
				return fmt.Errorf("run requires at least one command")
			}
			return execRun(flags, stream)
		},
	}
	return cmd
}

func execRun(flags runFlags, stream []string) error {
	sch, err := loadSchema(flags.schemaPath)
	if err != nil {
		cmderr.Fatal(err)
		return nil
	}

	db, err := store.Open(flags.dbPath, sch)
	if err != nil {
		cmderr.Fatal(err)
		return nil
	}
	defer db.Close()

	reg := registry.New()
	commands.RegisterBuiltins(reg)
	if flags.schemaPath == "" {
		commands.RegisterShow(reg, demoShowTables(sch))
	}

	hasShow := false
	if cmds, err := cmdparse.ParseStream(reg, stream, nil); err == nil {
		warnInteractiveMisuse(cmds, sch)
		for _, c := range cmds {
			if c.Syntax.Name == "show" {
				hasShow = true
			}
		}
	}

	out := os.Stdout
	var buf strings.Builder
	var dest io.Writer = out
	if hasShow {
		dest = &buf
	}

	if err := RunStream(reg, db, sch, stream, flags.dryRun, dest); err != nil {
		cmderr.Fatal(err)
	}
	if hasShow {
		fmt.Fprint(out, renderShow(buf.String()))
	}
	return nil
}

func replCmd() *cobra.Command {
	var dbPath, schemaPath string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive dbctl shell",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runREPL(dbPath, schemaPath)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "dbctl.sqlite", "path to the sqlite-backed store")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a TOML schema file (default: embedded demo schema)")
	return cmd
}
