package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"smartTextVision/internal/app"
	"smartTextVision/internal/auth"
	"smartTextVision/internal/config"
	"smartTextVision/internal/db"
	"smartTextVision/internal/logging"
	"smartTextVision/internal/ui"
	"smartTextVision/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "smarttext",
		Usage: "local account and chat store with a terminal sign-in screen",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "dotenv file to load instead of ./.env"},
			&cli.StringFlag{Name: "db", Usage: "database file, overrides DB_PATH"},
		},
		Action: runSignIn,
		Commands: []*cli.Command{
			{
				Name:   "signin",
				Usage:  "show the sign-in screen (default)",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "show-password", Usage: "echo passwords while typing"}},
				Action: runSignIn,
			},
			{
				Name:  "seed-admin",
				Usage: "create or promote the administrator account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "overrides ADMIN_NAME"},
					&cli.StringFlag{Name: "email", Usage: "overrides ADMIN_EMAIL"},
					&cli.StringFlag{Name: "password", Usage: "overrides ADMIN_PASSWORD"},
				},
				Action: runSeedAdmin,
			},
			{
				Name:  "chats",
				Usage: "sign in as an admin and print every stored message",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: runChats,
			},
			{
				Name:  "migrate",
				Usage: "inspect or change the schema version",
				Subcommands: []*cli.Command{
					{Name: "status", Usage: "print the applied schema version", Action: runMigrate(migrateStatus)},
					{Name: "up", Usage: "apply pending migrations", Action: runMigrate(migrateUp)},
					{Name: "down", Usage: "roll back the newest migration", Action: runMigrate(migrateDown)},
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f := c.String("env-file"); f != "" {
		cfg, err = config.LoadFile(f)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p := c.String("db"); p != "" {
		cfg.Database.Path = p
	}
	return cfg, nil
}

// setup loads configuration and the logger, and opens the application.
func setup(c *cli.Context) (*app.App, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(logging.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.Debug("configuration loaded", zap.Stringer("config", cfg))

	a, err := app.Open(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return a, logger, nil
}

func teardown(a *app.App, logger *zap.Logger) {
	if err := a.Close(); err != nil {
		logger.Error("close db", zap.Error(err))
	}
	_ = logger.Sync()
}

func runSignIn(c *cli.Context) error {
	a, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer teardown(a, logger)

	vm := a.ViewModel()
	defer vm.Close()

	screen := ui.NewScreen(vm, os.Stdin, os.Stdout, ui.WithPasswordVisible(c.Bool("show-password")))
	if err := screen.Run(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runSeedAdmin(c *cli.Context) error {
	a, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer teardown(a, logger)

	name := firstNonEmpty(c.String("name"), a.Config().Admin.Name)
	email := firstNonEmpty(c.String("email"), a.Config().Admin.Email)
	password := firstNonEmpty(c.String("password"), a.Config().Admin.Password)
	u, created, err := a.EnsureAdmin(c.Context, name, email, password)
	if err != nil {
		return err
	}
	verb := "already present"
	if created {
		verb = "created"
	}
	fmt.Fprintf(c.App.Writer, "admin %s (id %d) %s\n", u.Email, u.ID, verb)
	return nil
}

func runChats(c *cli.Context) error {
	a, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer teardown(a, logger)

	vm := a.ViewModel()
	defer vm.Close()

	vm.SignIn(c.String("email"), c.String("password"))
	st, err := vm.AuthState().WaitFor(c.Context, auth.AuthState.Settled)
	if err != nil {
		return err
	}
	if st.Status == auth.StatusError {
		return cli.Exit(st.Message, 1)
	}
	res, err := vm.ReadAllChats().WaitFor(c.Context, func(r auth.OperationResult[[]models.Message]) bool { return r.Done() })
	if err != nil {
		return err
	}
	switch res.Kind {
	case auth.ResultUnauthorized:
		return cli.Exit("only admin can read all chats", 1)
	case auth.ResultError:
		return cli.Exit(res.Message, 1)
	}
	for _, m := range res.Data {
		fmt.Fprintf(c.App.Writer, "%d\t%d -> %d\t%s\t%s\n", m.ID, m.SenderID, m.ReceiverID, m.Timestamp.Format("2006-01-02 15:04:05"), m.Content)
	}
	return nil
}

// runMigrate opens the database without applying migrations and runs op on it.
func runMigrate(op func(*cli.Context, *sql.DB) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		d, err := db.OpenRaw(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer d.Close()
		return op(c, d)
	}
}

func migrateStatus(c *cli.Context, d *sql.DB) error {
	v, err := db.Version(d)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "schema version %04d\n", v)
	return nil
}

func migrateUp(c *cli.Context, d *sql.DB) error {
	if err := db.Migrate(d); err != nil {
		return err
	}
	return migrateStatus(c, d)
}

func migrateDown(c *cli.Context, d *sql.DB) error {
	if err := db.RollbackLast(d); err != nil {
		return err
	}
	return migrateStatus(c, d)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
