// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdhender/visrpt/pipelines/stages"
	store "github.com/mdhender/visrpt/stores/sqlite"
	"github.com/mdhender/visrpt/web/auth"
	"github.com/mdhender/visrpt/web/handlers"
	"github.com/spf13/cobra"
)

func cmdServe() *cobra.Command {
	cfg := stages.DefaultRunConfig()
	addr := ":8787"
	var dbPath string
	staticDir := "web/static"
	var adminUser, adminPasswordHash string
	var timeout time.Duration
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&addr, "addr", addr, "HTTP listen address")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "SQLite database file path (empty = in-memory)")
		cmd.Flags().StringVar(&staticDir, "static", staticDir, "static files directory")
		cmd.Flags().StringVar(&cfg.MembersPath, "members", cfg.MembersPath, "path to members.csv")
		cmd.Flags().StringVar(&cfg.VisitsPath, "visits", cfg.VisitsPath, "path to visits.csv")
		cmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "path to the tabular report")
		cmd.Flags().StringVar(&cfg.SummaryPath, "summary", cfg.SummaryPath, "path to the summary JSON")
		cmd.Flags().IntVar(&cfg.TopN, "top-n", cfg.TopN, "number of members in the ranking")
		cmd.Flags().StringVar(&adminUser, "admin-user", "admin", "basic-auth user for the run trigger")
		cmd.Flags().StringVar(&adminPasswordHash, "admin-password-hash", "", "bcrypt hash protecting the run trigger (empty = no auth)")
		cmd.Flags().DurationVar(&timeout, "timeout", 0, "auto-shutdown after duration (e.g., 5s, 1m)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "serve",
		Short:        "serve the report results over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			guard := auth.Guard{Username: adminUser, PasswordHash: adminPasswordHash}
			return serve(addr, dbPath, staticDir, cfg, guard, timeout)
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func serve(addr, dbPath, staticDir string, cfg stages.RunConfig, guard auth.Guard, timeout time.Duration) error {
	var runStore *store.Store
	var err error

	if dbPath != "" {
		// File-based mode: database must already exist (created by `db init`).
		log.Printf("store: using file-based SQLite: %s", dbPath)
		runStore, err = store.NewStoreWithConfig(store.StoreConfig{
			Path:       dbPath,
			InitSchema: false,
		})
	} else {
		log.Printf("store: using in-memory SQLite")
		runStore, err = store.NewStore()
	}
	if err != nil {
		return fmt.Errorf("create run store: %w", err)
	}
	defer runStore.Close()

	runner := stages.NewRunner(log.Default())
	h := handlers.New(runStore, runner, cfg)

	if guard.Enabled() {
		log.Printf("auth: run trigger requires basic auth (user %q)", guard.Username)
	} else {
		log.Printf("auth: run trigger is unauthenticated")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/result", h.Result)
	mux.HandleFunc("/api/run", guard.RequireAuth(h.TriggerRun))
	mux.HandleFunc("/api/runs", h.Runs)

	if fi, err := os.Stat(staticDir); err == nil && fi.IsDir() {
		log.Printf("server: serving static files from %s", staticDir)
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	} else {
		log.Printf("server: static directory %s not found, serving fallback page", staticDir)
		mux.HandleFunc("/", h.Fallback)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	if timeout > 0 {
		go func() {
			log.Printf("server: will auto-shutdown in %v", timeout)
			time.Sleep(timeout)
			log.Printf("server: timeout reached, initiating shutdown")
			shutdown <- os.Interrupt
		}()
	}

	go func() {
		log.Printf("server: listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: %v", err)
		}
	}()

	<-shutdown
	log.Printf("server: shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown error: %w", err)
	}

	log.Printf("server: stopped")
	return nil
}
