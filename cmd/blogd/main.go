// Package main is the entry point for blogd, the demo blog server
// built on the viewcraft component framework.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/viewcraft/viewcraft/internal/blog"
	"github.com/viewcraft/viewcraft/internal/config"
	"github.com/viewcraft/viewcraft/internal/logging"
	"github.com/viewcraft/viewcraft/internal/server"
)

const usage = `blogd - component-framework demo blog server

Usage:
  blogd serve [-config path]                     Start the server
  blogd seed  [-config path] [-authors n] [-posts n] [-seed n]
                                                 Generate test posts
  blogd help                                     Show this help
`

func main() {
	_ = godotenv.Load()

	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "serve":
		runServe(args)
	case "seed":
		runSeed(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(1)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Global(cfg.Logging)
	return cfg
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	_ = fs.Parse(args)

	cfg := loadConfig(*configPath)

	store, err := blog.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer store.Close()

	srv, err := server.New(cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}
}

func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	authors := fs.Int("authors", 10, "number of authors to generate")
	posts := fs.Int("posts", 50, "number of posts to generate")
	seed := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	_ = fs.Parse(args)

	cfg := loadConfig(*configPath)

	store, err := blog.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer store.Close()

	stats, err := store.Seed(context.Background(), *authors, *posts, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().
		Int("authors", stats.Authors).
		Int("posts", stats.Posts).
		Interface("by_status", stats.ByStatus).
		Interface("by_category", stats.ByCategory).
		Msg("seed complete")
}
