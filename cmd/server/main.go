package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	persistlog "voxelprint.ai/internal/persistence/log"
	"voxelprint.ai/internal/printer/guides"
	"voxelprint.ai/internal/sim/catalogs"
	"voxelprint.ai/internal/sim/tuning"
	"voxelprint.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to printer.yaml (default: <configs>/printer.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite guess index")
		trace      = flag.Bool("trace", true, "write guesses to <data>/guesses/attempts-*.jsonl.zst")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "printer.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	idx, err := openIndex(*dataDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index: %v", err)
	}

	srv := ws.NewServer(cats, guides.Config{Debug: tune.Debug, RevalidateCache: tune.RevalidateCache}, logger)
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
		srv.Recorders = append(srv.Recorders, idx)
	}
	if *trace {
		tl := persistlog.NewAttemptLogger(filepath.Join(*dataDir, "guesses"))
		defer tl.Close()
		srv.Recorders = append(srv.Recorders, tl)
	}

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		st := srv.Stats()

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP voxelprint_sessions_total Sessions that completed the handshake.\n")
		fmt.Fprintf(rw, "# TYPE voxelprint_sessions_total counter\n")
		fmt.Fprintf(rw, "voxelprint_sessions_total %d\n", st.Sessions)

		fmt.Fprintf(rw, "# HELP voxelprint_guesses_total Guess requests answered.\n")
		fmt.Fprintf(rw, "# TYPE voxelprint_guesses_total counter\n")
		fmt.Fprintf(rw, "voxelprint_guesses_total %d\n", st.Guesses)

		if idx != nil {
			is := idx.Stats()
			fmt.Fprintf(rw, "# HELP voxelprint_index_queue_depth Index writer backlog.\n")
			fmt.Fprintf(rw, "# TYPE voxelprint_index_queue_depth gauge\n")
			fmt.Fprintf(rw, "voxelprint_index_queue_depth %d\n", is.QueueDepth)

			fmt.Fprintf(rw, "# HELP voxelprint_index_dropped_total Index rows dropped because the queue was full.\n")
			fmt.Fprintf(rw, "# TYPE voxelprint_index_dropped_total counter\n")
			fmt.Fprintf(rw, "voxelprint_index_dropped_total{kind=%q} %d\n", "attempt", is.DropAttemptTotal)
			fmt.Fprintf(rw, "voxelprint_index_dropped_total{kind=%q} %d\n", "snapshot", is.DropSnapshotTotal)
		}
	})
	if envBool("VP_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		logger.Printf("pprof endpoints disabled (VP_ENABLE_PPROF_HTTP=false)")
	}
	mux.HandleFunc("/v1/ws", srv.Handler())

	hs := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = hs.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
