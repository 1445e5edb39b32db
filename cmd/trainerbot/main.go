package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/letsssgooo/trainerBot/internal/bot"
	"github.com/letsssgooo/trainerBot/internal/certify"
	"github.com/letsssgooo/trainerBot/internal/client"
	"github.com/letsssgooo/trainerBot/internal/config"
	"github.com/letsssgooo/trainerBot/internal/lib/slogcustom"
	"github.com/letsssgooo/trainerBot/internal/quiz"
	"github.com/letsssgooo/trainerBot/internal/scenario"
	"github.com/letsssgooo/trainerBot/internal/storage"
	"github.com/letsssgooo/trainerBot/internal/storage/postgres"
	"github.com/letsssgooo/trainerBot/internal/training"
	"github.com/letsssgooo/trainerBot/internal/vacancy"
)

func main() {
	log := slog.New(slogcustom.NewCustomHandler(os.Stdout, slog.LevelDebug))
	slog.SetDefault(log)
	slog.Info("starting trainer bot...")

	// .env необязателен: в проде переменные приходят из окружения.
	_ = godotenv.Load()

	flagToken := pflag.String("token", "", "token of telegram bot")
	flagDSN := pflag.String("dsn", "", "postgres dsn, empty for in-memory storage")
	flagAdmins := pflag.String("admins", "", "comma-separated admin user ids")
	flagBadgeChats := pflag.String("badge-chats", "", "comma-separated chat ids where the certification badge is granted")
	flagPollTimeout := pflag.Int("poll-timeout", 30, "long polling timeout in seconds")
	pflag.Parse()

	token := fallbackEnv(*flagToken, "TRAINER_BOT_TOKEN")
	if token == "" {
		slog.Error("bot token is required: pass --token or set TRAINER_BOT_TOKEN")
		os.Exit(1)
	}

	dsn := fallbackEnv(*flagDSN, "TRAINER_DB_DSN")
	admins := parseIDs(fallbackEnv(*flagAdmins, "TRAINER_ADMINS"))
	badgeChats := parseIDs(fallbackEnv(*flagBadgeChats, "TRAINER_BADGE_CHATS"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := setupStorage(ctx, dsn)
	if err != nil {
		slog.Error("failed to set up storage", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(ctx, store)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	tgClient := client.NewHTTPClient(token)
	announcer := bot.NewChatAnnouncer(tgClient, cfg)
	effector := certify.New(bot.NewChatMemberships(tgClient, badgeChats))

	b := bot.New(bot.Deps{
		Client:      tgClient,
		Store:       store,
		Config:      cfg,
		Training:    training.New(store, cfg, announcer),
		Quiz:        quiz.New(store, cfg, announcer, effector),
		Scenarios:   scenario.New(store, cfg),
		Vacancies:   vacancy.New(cfg),
		Admins:      admins,
		PollTimeout: *flagPollTimeout,
	})

	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("bot stopped", "err", err)
		os.Exit(1)
	}

	slog.Info("trainer bot stopped")
}

// setupStorage подключает postgres, если задана строка подключения, иначе
// хранит всё в памяти. Оба варианта оборачиваются сквозным кэшем.
func setupStorage(ctx context.Context, dsn string) (storage.Storage, error) {
	if dsn == "" {
		slog.Warn("no dsn provided, using in-memory storage")
		return storage.NewCached(storage.NewMemory()), nil
	}

	pg, err := postgres.NewStorage(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	return storage.NewCached(pg), nil
}

// fallbackEnv возвращает значение флага либо переменную окружения.
func fallbackEnv(value, env string) string {
	if value != "" {
		return value
	}

	return os.Getenv(env)
}

// parseIDs разбирает список идентификаторов, разделённых запятыми.
func parseIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			slog.Warn("skipping invalid id", "value", part)
			continue
		}

		ids = append(ids, id)
	}

	return ids
}
