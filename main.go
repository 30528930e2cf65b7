package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/snoowords/go-server/assets"
	"github.com/snoowords/go-server/internal/auth"
	"github.com/snoowords/go-server/internal/config"
	"github.com/snoowords/go-server/internal/daily"
	"github.com/snoowords/go-server/internal/db"
	"github.com/snoowords/go-server/internal/dictionary"
	"github.com/snoowords/go-server/internal/game"
	"github.com/snoowords/go-server/internal/httpserver"
	"github.com/snoowords/go-server/internal/letters"
	"github.com/snoowords/go-server/internal/lexicon"
	"github.com/snoowords/go-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg.Log)

	sqlDB, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer sqlDB.Close()
	if err := db.Migrate(sqlDB, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	lex, err := lexicon.Load(cfg.Game.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build lexicon")
	}

	seed := uint64(time.Now().UnixNano())
	gen := letters.New(rand.New(rand.NewPCG(seed, seed>>1)), cfg.Game.MinVowels)
	opts := []game.EngineOption{
		game.WithLetterCount(cfg.Game.LetterCount),
		game.WithRoundDuration(cfg.Game.RoundDuration()),
	}
	if cfg.Dictionary.Enabled {
		dict, err := dictionary.New(cfg.Dictionary.CacheSize,
			dictionary.WithBaseURL(cfg.Dictionary.URL),
			dictionary.WithTimeout(cfg.Dictionary.Timeout))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create dictionary client")
		}
		opts = append(opts, game.WithDictionary(dict))
		log.Info().Str("url", cfg.Dictionary.URL).Msg("remote dictionary enabled")
	}
	engine := game.NewEngine(lex, gen, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()

	srv := httpserver.New(httpserver.Deps{
		Engine:  engine,
		Lexicon: lex,
		Store:   mem,
		DB:      sqlDB,
		Daily:   daily.NewStore(sqlDB, cfg.Game.DailySalt),
		Auth: &auth.Service{
			Users:      auth.NewUsers(sqlDB),
			Tokens:     auth.NewTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.ExpireDays)*24*time.Hour),
			CookieName: cfg.Auth.CookieName,
			Secure:     cfg.Server.SecureCookies,
		},
		ClientOrigin: cfg.Server.ClientOrigin,
		Admins:       cfg.Auth.Admins,
	})
	go sweepRounds(ctx, mem, srv, cfg.Game.RoundTTL)

	hs := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting go-server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(c config.LogConfig) {
	if lvl, err := zerolog.ParseLevel(c.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// sweepRounds drops rounds idle longer than ttl and the daily sessions
// that pointed at them.
func sweepRounds(ctx context.Context, mem *store.Memory, srv *httpserver.Server, ttl time.Duration) {
	t := time.NewTicker(ttl / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := mem.Sweep(now.Add(-ttl)); n > 0 {
				log.Debug().Int("rounds", n).Msg("swept idle rounds")
			}
			if n := srv.SweepDaily(ctx); n > 0 {
				log.Debug().Int("sessions", n).Msg("swept daily sessions")
			}
		}
	}
}
