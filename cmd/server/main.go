package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gfp-rankings/internal/chart"
	"gfp-rankings/internal/config"
	"gfp-rankings/internal/ioformats"
	"gfp-rankings/internal/pipeline"
	"gfp-rankings/pkg/logger"
)

func main() {
	path, err := config.FindConfigFile("")
	if err != nil {
		logger.New(os.Stderr, "info").Errorf("config: %v", err)
		os.Exit(1)
	}
	cfg, err := config.Load(path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.New(os.Stderr, "info").Errorf("config: %v", err)
		os.Exit(1)
	}
	l := logger.New(os.Stderr, cfg.LogLevel)

	// the ranking is fetched once; the server only presents the result
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	res, err := pipeline.New(cfg, pipeline.WithLogger(l)).Run(ctx)
	cancel()
	if err != nil {
		l.Errorf("pipeline: %v", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	if err := serve(cfg.Server.Addr, logRequest(l, newMux(res)), stop, l); err != nil {
		l.Errorf("server error: %v", err)
		os.Exit(1)
	}
	l.Infof("bye")
}

// serve listens on addr until stop fires, then shuts down gracefully.
// A listen failure is returned immediately.
func serve(addr string, h http.Handler, stop <-chan os.Signal, l *logger.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		l.Infof("server listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-stop:
	}

	// graceful shutdown
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newMux(res *pipeline.Result) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// GET /  -> interactive comparison chart
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := chart.Render(&buf, res.Series, res.Years, chart.WithSubtitle(res.Source)); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})

	mux.HandleFunc("GET /positions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"source": res.Source,
			"years":  res.Years,
			"series": res.Series,
		})
	})

	mux.HandleFunc("GET /table.csv", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := ioformats.WriteTable(&buf, res.Table); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})

	mux.HandleFunc("GET /report.md", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := chart.WriteMarkdown(&buf, res.Series, res.Years, res.Source); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})

	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
