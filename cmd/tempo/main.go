package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/tempo/internal/cli"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stderr)

	// Open database
	database, err := db.Open(cfg.Driver(), cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories; queries are rebound for the configured driver.
	conn := db.Bind(cfg.Driver(), database)
	taskRepo := repository.NewSQLTaskRepo(conn)
	assignmentRepo := repository.NewSQLAssignmentRepo(conn)
	sessionRepo := repository.NewSQLSessionRepo(conn)

	// Wire unit of work for transactional operations
	uow := db.NewUnitOfWork(database, cfg.Driver())

	hub := service.NewSessionHub()
	opts := []service.Option{
		service.WithLocation(loc),
		service.WithLogger(logger),
		service.WithHub(hub),
	}
	if cfg.Log.UseCases {
		opts = append(opts, service.WithObserver(service.NewSlogUseCaseObserver(logger)))
	}

	stats := service.NewAggregator(sessionRepo, opts...)
	app := &cli.App{
		Sessions:    service.NewSessionController(sessionRepo, assignmentRepo, uow, opts...),
		Stats:       stats,
		Status:      service.NewStatusResolver(assignmentRepo, sessionRepo, stats, opts...),
		Assignments: service.NewAssignmentService(taskRepo, assignmentRepo, opts...),
		Hub:         hub,
		User:        cfg.User,
		HTTPAddr:    cfg.HTTP.Addr,
		Location:    loc,
		Logger:      logger,
	}

	// Detect interactive terminal for the live watch view and forms.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
