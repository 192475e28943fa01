// Command migrate manages the shop database schema.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/shopmgmt/backend/internal/infrastructure/config"
	"github.com/shopmgmt/backend/internal/infrastructure/logger"
	"github.com/shopmgmt/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses global flags, resolves the subcommand and executes it. The
// return value is the process exit code.
func run(argv []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("migrate", flag.ContinueOnError)
	global.SetOutput(stderr)
	dir := global.String("dir", "", "migrations directory (default: ./migrations, then next to the binary)")
	level := global.String("log-level", "info", "debug, info, warn or error")
	global.Usage = func() { writeUsage(stderr) }
	if err := global.Parse(argv); err != nil {
		return 2
	}

	args := global.Args()
	if len(args) == 0 {
		writeUsage(stderr)
		return 2
	}
	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "migrate: unknown command %q\n\n", args[0])
		writeUsage(stderr)
		return 2
	}

	log, err := logger.New(&logger.Config{
		Level:      *level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(stderr, "migrate: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	path, err := migrationsDir(*dir)
	if err != nil {
		log.Error("Cannot resolve migrations directory", zap.Error(err))
		return 1
	}

	env := &cliEnv{dir: path, out: stdout, log: log.With(zap.String("command", cmd.name))}
	if cmd.needsDB {
		m, closeFn, err := openSchema(path, log)
		if err != nil {
			log.Error("Cannot reach the database", zap.Error(err))
			return 1
		}
		defer closeFn()
		env.schema = m
	}

	if err := cmd.exec(env, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "usage: migrate %s\n", cmd.usage)
			return 2
		}
		env.log.Error("Command failed", zap.Error(err))
		return 1
	}
	return 0
}

// migrationsDir picks the directory holding the SQL files. An explicit flag
// wins; otherwise ./migrations, then the repository root relative to a
// binary built into bin/<os>.
func migrationsDir(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	candidates := []string{defaultMigrationsDir}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsDir))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return filepath.Abs(c)
		}
	}
	return filepath.Abs(defaultMigrationsDir)
}

func openSchema(dir string, log *zap.Logger) (schema, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s:%d: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	m, err := migration.New(db, dir, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
		_ = db.Close()
	}, nil
}
