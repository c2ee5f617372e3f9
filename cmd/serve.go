package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/model"
	"github.com/amoloo1999/rca-app/internal/report"
	"github.com/amoloo1999/rca-app/internal/workflow"
	"github.com/amoloo1999/rca-app/pkg/stortrack"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session and reports over HTTP",
	Long:  "Exposes a read-only JSON API over the current session: state, gap report, and the built comparison reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/api/search", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			stores, err := newAPIClient().FindStoresByAddress(req.Context(), stortrack.StoreQuery{
				Country:     q.Get("country"),
				State:       q.Get("state"),
				City:        q.Get("city"),
				Zip:         q.Get("zip"),
				StoreName:   q.Get("store_name"),
				CompanyName: q.Get("company"),
			})
			if err != nil {
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, stores)
		})

		r.Get("/api/competitors", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			storeID, err := strconv.ParseInt(q.Get("store"), 10, 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "store must be a store ID"})
				return
			}
			radius := cfg.Analysis.RadiusMiles
			if raw := q.Get("radius"); raw != "" {
				radius, err = strconv.ParseFloat(raw, 64)
				if err != nil {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "radius must be a number"})
					return
				}
			}
			stores, err := newAPIClient().FindCompetitors(req.Context(), storeID, radius)
			if err != nil {
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, stores)
		})

		r.Get("/api/coverage", func(w http.ResponseWriter, req *http.Request) {
			s, err := loadSession()
			if err != nil || len(s.Selected) == 0 || s.WindowFrom == "" {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no analyzed session"})
				return
			}
			from, err := time.Parse(model.DateLayout, s.WindowFrom)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			to, err := time.Parse(model.DateLayout, s.WindowTo)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			store, err := openStore(cmd)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			defer store.Close() //nolint:errcheck
			coverage, err := store.CoverageDates(req.Context(), s.SelectedIDs(), from, to)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, coverage)
		})

		r.Get("/api/session", func(w http.ResponseWriter, req *http.Request) {
			s, err := loadSession()
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no session"})
				return
			}
			writeJSON(w, http.StatusOK, s)
		})

		r.Get("/api/gap", func(w http.ResponseWriter, req *http.Request) {
			s, err := loadSession()
			if err != nil || s.Gap == nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no gap report"})
				return
			}
			writeJSON(w, http.StatusOK, s.Gap)
		})

		r.Get("/api/reports", func(w http.ResponseWriter, req *http.Request) {
			s, err := loadSession()
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no session"})
				return
			}
			if err := s.Require(workflow.StepExport); err != nil || len(s.Records) == 0 {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "session has no exportable records"})
				return
			}
			multipliers, err := buildMultipliers(s)
			if err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
				return
			}
			reports, err := report.BuildReports(s.Records, s.SelectedByID(), multipliers)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, reports)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
