package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/delivery-optimizer/internal/chart"
	"github.com/sells-group/delivery-optimizer/internal/config"
	"github.com/sells-group/delivery-optimizer/internal/export"
	"github.com/sells-group/delivery-optimizer/internal/narrative"
	"github.com/sells-group/delivery-optimizer/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		env, err := initDashboard(ctx, cfg, "serve")
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           buildRouter(env, cfg.Server),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildRouter wires the dashboard routes and middleware.
func buildRouter(env *dashboardEnv, sc config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: sc.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}))
	if sc.RateLimit > 0 {
		r.Use(rateLimit(sc.RateLimit, sc.RateBurst))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", env.Metrics.Handler())

	r.Get("/", dashboardHandler(env))

	r.Get("/api/view", func(w http.ResponseWriter, r *http.Request) {
		v := env.Engine.View(selectionFromQuery(r.URL.Query()))
		writeJSON(w, http.StatusOK, viewResponse{View: v, Rows: v.Table.Len()})
	})

	r.Get("/api/datasets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, env.Engine.Sources().Describe())
	})

	r.Get("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		v := env.Engine.View(selectionFromQuery(r.URL.Query()))
		s, err := env.Summarizer.Summarize(r.Context(), v)
		if errors.Is(err, narrative.ErrDisabled) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if err != nil {
			zap.L().Error("summary failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "summary generation failed")
			return
		}
		writeJSON(w, http.StatusOK, s)
	})

	r.Get("/charts/{file}", func(w http.ResponseWriter, r *http.Request) {
		file := chi.URLParam(r, "file")
		dot := strings.LastIndexByte(file, '.')
		if dot < 0 {
			writeError(w, http.StatusNotFound, "chart not found")
			return
		}
		format, err := chart.ParseFormat(file[dot+1:])
		if err != nil {
			writeError(w, http.StatusNotFound, "chart not found")
			return
		}

		v := env.Engine.View(selectionFromQuery(r.URL.Query()))
		var buf bytes.Buffer
		err = env.Renderer.Render(&buf, v.Charts, file[:dot], format)
		if errors.Is(err, chart.ErrSkipped) {
			writeError(w, http.StatusNotFound, "chart skipped, required columns missing")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})

	r.Get("/export/"+export.Filename, func(w http.ResponseWriter, r *http.Request) {
		v := env.Engine.View(selectionFromQuery(r.URL.Query()))
		data, err := export.CSV(v.Table)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sendDownload(w, export.Filename, export.ContentType, data)
		env.Metrics.ObserveExport("csv", len(data))
	})

	r.Get("/export/"+export.XLSXFilename, func(w http.ResponseWriter, r *http.Request) {
		v := env.Engine.View(selectionFromQuery(r.URL.Query()))
		data, err := export.XLSX(v.Table)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sendDownload(w, export.XLSXFilename, export.XLSXContentType, data)
		env.Metrics.ObserveExport("xlsx", len(data))
	})

	return r
}

type viewResponse struct {
	View *pipeline.View `json:"view"`
	Rows int            `json:"rows"`
}

func sendDownload(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
