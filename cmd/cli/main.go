// Command lizdek-cli provisions accounts and moves release data between
// databases.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/lizdek/lizdek-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	logger := logging.New(os.Stderr, os.Getenv("LOG_LEVEL"), "text", "cli")
	r := &runner{logger: logger, out: os.Stdout}

	app := &cli.Command{
		Name:  "lizdek-cli",
		Usage: "Administrative tasks for the lizdek API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Usage:   "Database DSN (file path, libsql:// or postgres://)",
				Value:   "file:lizdek.db",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
		},
		Commands: []*cli.Command{
			hashPasswordCommand(r),
			createUserCommand(r),
			exportCommand(r),
			importCommand(r),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal("command failed", "err", err)
	}
}
