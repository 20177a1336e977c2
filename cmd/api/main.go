package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rollcall.org/internal/httpapi"
	"rollcall.org/internal/obs"
	"rollcall.org/internal/roster"
	"rollcall.org/internal/store"
	filestore "rollcall.org/internal/store/file"
	"rollcall.org/internal/store/pg"
	"rollcall.org/internal/stream"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	ctx := context.Background()

	// Gateway selection: Postgres when a DSN is set, a data directory when
	// configured, otherwise in-memory only.
	var (
		gw roster.Gateway
		db *sql.DB
	)
	switch {
	case os.Getenv("ROLLCALL_PG_DSN") != "":
		pgStore, err := pg.Open(os.Getenv("ROLLCALL_PG_DSN"))
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		gw = pgStore
		db = pgStore.DB()
	case os.Getenv("ROLLCALL_DATA_DIR") != "":
		fileStore, err := filestore.Open(os.Getenv("ROLLCALL_DATA_DIR"))
		if err != nil {
			log.Fatalf("open data dir: %v", err)
		}
		gw = fileStore
	default:
		log.Println("no ROLLCALL_PG_DSN or ROLLCALL_DATA_DIR set; data will not survive restarts")
		gw = store.NewMemory()
	}

	svc, err := roster.NewInMemory(ctx, gw)
	if err != nil {
		log.Fatalf("load roster: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, svc, stream.New())

	addr := os.Getenv("ROLLCALL_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("starting rollcall-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("stopped")
}
