// Package cli реализует команды fishlog поверх Session Store и API клиента.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iudanet/fishlog/internal/client/app"
	"github.com/iudanet/fishlog/internal/client/auth"
	"github.com/iudanet/fishlog/internal/client/iocli"
	"github.com/iudanet/fishlog/internal/config"
)

// Cli хранит состояние одного запуска fishlog
type Cli struct {
	io      iocli.IO
	stderr  io.Writer
	base    http.RoundTripper
	app     *app.App
	version string

	cfgPath   string
	serverURL string
	storage   string
	dbPath    string
	logLevel  string
}

// Option настраивает Cli
type Option func(*Cli)

// WithVersion задает строку для --version
func WithVersion(version string) Option {
	return func(c *Cli) {
		c.version = version
	}
}

// WithStderr задает поток для логов
func WithStderr(w io.Writer) Option {
	return func(c *Cli) {
		c.stderr = w
	}
}

// WithTransport задает транспорт под фильтром учетных данных
func WithTransport(base http.RoundTripper) Option {
	return func(c *Cli) {
		c.base = base
	}
}

func New(console iocli.IO, opts ...Option) *Cli {
	c := &Cli{
		io:      console,
		stderr:  os.Stderr,
		version: "dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute выполняет команду и всегда закрывает хранилище сессии
func (c *Cli) Execute(ctx context.Context, args []string) error {
	root := c.Command()
	root.SetArgs(args)
	root.SetOut(c.io)
	root.SetErr(c.stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := c.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Close освобождает ресурсы, открытые командой
func (c *Cli) Close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// Command строит дерево команд fishlog
func (c *Cli) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "fishlog",
		Short:         "Fish capture log client",
		Version:       c.version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgPath, "config", "", "path to YAML config (default: environment only)")
	flags.StringVar(&c.serverURL, "server", "", "server URL (overrides FISHLOG_SERVER_URL)")
	flags.StringVar(&c.storage, "storage", "", "session storage: boltdb, sqlite, redis or memory")
	flags.StringVar(&c.dbPath, "db", "", "path to session database for boltdb and sqlite")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.statusCommand(),
		c.capturesCommand(),
		c.usersCommand(),
		c.imagesCommand(),
	)

	return root
}

// open собирает App по конфигу и флагам; повторный вызов ничего не делает
func (c *Cli) open(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return nil, err
	}
	c.applyFlags(cmd, cfg)

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))

	a, err := app.Open(cmd.Context(), cfg, app.Options{
		Logger:    logger,
		Navigator: c,
		Base:      c.base,
	})
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// applyFlags перекрывает конфиг явно заданными флагами
func (c *Cli) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = c.serverURL
	}
	if flags.Changed("storage") {
		cfg.Storage.Kind = c.storage
	}
	if flags.Changed("db") {
		cfg.Storage.Path = c.dbPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
}

// Navigate печатает, куда пользователю идти дальше
func (c *Cli) Navigate(path string) {
	if path == auth.LoginPath {
		c.io.Println("Run 'fishlog login' to sign in again.")
		return
	}
	c.io.Printf("Continue with: fishlog %s\n", path)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: expected a positive number", arg)
	}
	return id, nil
}
