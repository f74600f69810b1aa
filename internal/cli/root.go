// Package cli реализует командную строку клиента bukafresh на cobra.
//
// Каждая команда собирает клиент заново: сессия восстанавливается из
// файла хранилища, поэтому вход в одной команде виден в следующих.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/bukafresh-client/internal/app/bukafresh"
	"github.com/magabrotheeeer/bukafresh-client/internal/config"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
)

// options — глобальные флаги.
type options struct {
	configPath string
	ephemeral  bool
	verbose    bool
}

type runner struct {
	opts options
	// server — команда serve: уровень логов берётся по окружению.
	server bool
}

// NewRootCmd создаёт корневую команду.
func NewRootCmd() *cobra.Command {
	r := &runner{}
	root := &cobra.Command{
		Use:   "bukafresh",
		Short: "bukafresh is a client for the bukafresh grocery subscription service",
		Long: `Sign in, check out a grocery package, manage subscriptions and payments
from the terminal, or serve a local JSON API for a UI with "bukafresh serve".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&r.opts.configPath, "config", "", "path to YAML config (defaults to $CONFIG_PATH, then environment only)")
	flags.BoolVar(&r.opts.ephemeral, "ephemeral", false, "keep the session in memory only")
	flags.BoolVarP(&r.opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		r.loginCmd(),
		r.logoutCmd(),
		r.registerCmd(),
		r.verifyCmd(),
		r.resendCmd(),
		r.statusCmd(),
		r.profileCmd(),
		r.packagesCmd(),
		r.checkoutCmd(),
		r.subscriptionsCmd(),
		r.paymentsCmd(),
		r.pingCmd(),
		r.serveCmd(),
	)
	return root
}

// Execute запускает CLI и возвращает код завершения.
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", userMessage(err))
		return 1
	}
	return 0
}

func (r *runner) loadConfig() (*config.Config, error) {
	path := r.opts.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if r.opts.ephemeral {
		cfg.Storage.Path = ""
	}
	return cfg, nil
}

// withApp собирает клиент, выполняет fn и закрывает клиент.
func (r *runner) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *bukafresh.App) error) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Env, r.level(cfg.Env), cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bukafresh.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close client", slog.String("error", err.Error()))
		}
	}()
	return fn(ctx, a)
}

// level возвращает уровень логов. Команды CLI пишут только предупреждения,
// если не задан --verbose; serve пишет по окружению.
func (r *runner) level(env string) slog.Level {
	switch {
	case r.opts.verbose:
		return slog.LevelDebug
	case !r.server:
		return slog.LevelWarn
	case env == config.EnvProd:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func setupLogger(env string, level slog.Level, w io.Writer) *slog.Logger {
	switch env {
	case config.EnvDev, config.EnvProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
}

// printJSON печатает v с отступами.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// msgLogin — подсказка, когда команде нужна сессия.
const msgLogin = `Please log in to continue: run "bukafresh login".`

// userMessage возвращает текст для пользователя: у классифицированных
// ошибок это их сообщение, у прочих полный текст.
func userMessage(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae == apperr.ErrUnauthenticated {
		return msgLogin
	}
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return err.Error()
}
