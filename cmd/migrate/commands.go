package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopmgmt/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var errUsage = errors.New("bad arguments")

// schema is the part of migration.Migrator the commands drive
type schema interface {
	Up() error
	Down() error
	Steps(n int) error
	GoTo(version uint) error
	Force(version int) error
	Drop() error
	Status() (*migration.Status, error)
}

type cliEnv struct {
	dir    string
	out    io.Writer
	log    *zap.Logger
	schema schema
}

type command struct {
	name    string
	usage   string
	summary string
	needsDB bool
	exec    func(env *cliEnv, args []string) error
}

// commands is also the order printed by writeUsage
var commands = []command{
	{name: "up", usage: "up", summary: "apply every pending migration", needsDB: true, exec: cmdUp},
	{name: "down", usage: "down -all", summary: "roll back every migration", needsDB: true, exec: cmdDown},
	{name: "step", usage: "step <n>", summary: "apply n migrations, negative n rolls back", needsDB: true, exec: cmdStep},
	{name: "goto", usage: "goto <version>", summary: "migrate up or down to version", needsDB: true, exec: cmdGoto},
	{name: "status", usage: "status", summary: "show the applied version and pending files", needsDB: true, exec: cmdStatus},
	{name: "force", usage: "force <version>", summary: "mark version as applied and clear the dirty flag", needsDB: true, exec: cmdForce},
	{name: "drop", usage: "drop -yes", summary: "drop every table in the database", needsDB: true, exec: cmdDrop},
	{name: "create", usage: "create [-desc text] <name>", summary: "write an empty up/down pair", exec: cmdCreate},
	{name: "list", usage: "list", summary: "list migration files on disk", exec: cmdList},
}

var aliases = map[string]string{"version": "status", "new": "create"}

func lookup(name string) (command, bool) {
	if target, ok := aliases[name]; ok {
		name = target
	}
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func writeUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: migrate [-dir path] [-log-level level] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-28s %s\n", c.usage, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The database is read from config.toml and SHOP_DATABASE_* variables.")
}

// parseFlags parses a subcommand's own flags and checks the positional count
func parseFlags(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if fs.NArg() != positional {
		return nil, errUsage
	}
	return fs.Args(), nil
}

func noArgs(name string, args []string) error {
	_, err := parseFlags(flag.NewFlagSet(name, flag.ContinueOnError), args, 0)
	return err
}

func cmdUp(env *cliEnv, args []string) error {
	if err := noArgs("up", args); err != nil {
		return err
	}
	return env.schema.Up()
}

func cmdDown(env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("down", flag.ContinueOnError)
	all := fs.Bool("all", false, "confirm rolling back every migration")
	if _, err := parseFlags(fs, args, 0); err != nil {
		return err
	}
	if !*all {
		// Use "step -1" to undo only the latest migration
		return errUsage
	}
	return env.schema.Down()
}

func cmdStep(env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("step", flag.ContinueOnError)
	// -1 would otherwise be read as a flag
	rest := args
	if len(rest) > 0 && strings.HasPrefix(rest[0], "-") {
		if _, err := strconv.Atoi(rest[0]); err == nil {
			rest = append([]string{"--"}, rest...)
		}
	}
	pos, err := parseFlags(fs, rest, 1)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(pos[0])
	if err != nil || n == 0 {
		return errUsage
	}
	return env.schema.Steps(n)
}

func cmdGoto(env *cliEnv, args []string) error {
	pos, err := parseFlags(flag.NewFlagSet("goto", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	version, err := strconv.ParseUint(pos[0], 10, 64)
	if err != nil {
		return errUsage
	}
	return env.schema.GoTo(uint(version))
}

func cmdStatus(env *cliEnv, args []string) error {
	if err := noArgs("status", args); err != nil {
		return err
	}
	status, err := env.schema.Status()
	if err != nil {
		return err
	}
	state := "clean"
	if status.Dirty {
		state = "dirty"
	}
	fmt.Fprintf(env.out, "version %d (%s), %d of %d files pending\n",
		status.Version, state, len(status.Pending), len(status.Available))
	for _, name := range status.Pending {
		fmt.Fprintf(env.out, "  pending %s\n", name)
	}
	return nil
}

func cmdForce(env *cliEnv, args []string) error {
	pos, err := parseFlags(flag.NewFlagSet("force", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	version, err := strconv.Atoi(pos[0])
	if err != nil {
		return errUsage
	}
	env.log.Warn("Forcing schema version; no SQL is run", zap.Int("version", version))
	return env.schema.Force(version)
}

func cmdDrop(env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("drop", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "confirm dropping every table")
	if _, err := parseFlags(fs, args, 0); err != nil {
		return err
	}
	if !*yes {
		return errUsage
	}
	env.log.Warn("Dropping every table")
	return env.schema.Drop()
}

func cmdCreate(env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	desc := fs.String("desc", "", "one line stored in the file header")
	pos, err := parseFlags(fs, args, 1)
	if err != nil {
		return err
	}
	mf, err := migration.CreateMigration(env.dir, pos[0], *desc)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.out, mf.UpPath)
	fmt.Fprintln(env.out, mf.DownPath)
	return nil
}

func cmdList(env *cliEnv, args []string) error {
	if err := noArgs("list", args); err != nil {
		return err
	}
	names, err := migration.ListMigrations(env.dir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(env.out, "no migrations in %s\n", env.dir)
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(env.out, name)
	}
	return nil
}
