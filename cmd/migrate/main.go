package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/patitas/vets-api/internal/config"
)

func main() {
	dir := flag.String("dir", "migrations", "directory with migration files")
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("failed to set dialect")
	}

	var cmdArgs []string
	if flag.NArg() > 1 {
		cmdArgs = flag.Args()[1:]
	}

	if err := goose.RunContext(context.Background(), command, db, *dir, cmdArgs...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
}
