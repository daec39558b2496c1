// migrate applies or rolls back the database migrations outside the server.
package main

import (
	"fmt"
	"os"

	"anoa.com/mediannsp/internal/config"
	"anoa.com/mediannsp/pkg/database"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		direction string
		steps     int
	)
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVar(&direction, "direction", "up", "migration direction: up or down")
	flagSet.IntVar(&steps, "steps", 0, "number of migrations to apply; 0 applies all")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if direction != "up" && direction != "down" {
		return fmt.Errorf("invalid --direction %q: expected up or down", direction)
	}
	if steps < 0 {
		return fmt.Errorf("--steps must not be negative, got %d", steps)
	}

	db, err := config.LoadDB()
	if err != nil {
		return err
	}
	logger := config.SetupLogger(&config.Config{LogLevel: os.Getenv("LOG_LEVEL")})

	switch {
	case direction == "up" && steps == 0:
		return database.Migrate(db, logger)
	case direction == "up":
		return database.MigrateSteps(db, steps, logger)
	case steps == 0:
		return database.MigrateDown(db, logger)
	default:
		return database.MigrateSteps(db, -steps, logger)
	}
}
