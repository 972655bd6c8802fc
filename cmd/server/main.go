package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wordrush/wordrush-backend/internal/chat"
	"github.com/wordrush/wordrush-backend/internal/config"
	"github.com/wordrush/wordrush-backend/internal/dictionary"
	"github.com/wordrush/wordrush-backend/internal/httpapi"
	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/stats"
)

// bannedWords seeds the chat profanity mask; extend via deployment config
// as needed.
var bannedWords = []string{"damn", "hell", "crap", "ass", "shit", "fuck", "bitch"}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	dict, err := dictionary.Load(cfg.WordsFile)
	if err != nil {
		logger.Fatal("loading word list", zap.Error(err))
	}
	logger.Info("word list loaded", zap.Int("words", len(dict.Words())))

	counter := stats.New(cfg.DatabaseURL, logger)
	filter := chat.NewFilter(bannedWords)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, cfg, dict, filter, counter, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpapi.SetupRoutes(h, counter, logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
