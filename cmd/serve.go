package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/elgrid-dk/calc-cli/internal/engine"
	"github.com/elgrid-dk/calc-cli/internal/model"
	"github.com/elgrid-dk/calc-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the calculation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		api := &apiServer{engine: buildEngine(ctx), store: st}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	engine *engine.Engine
	store  store.Store
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(rateLimit(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/detect", s.handleDetect)
		r.Get("/estimates", s.handleListEstimates)
		r.Get("/estimates/{id}", s.handleGetEstimate)
	})

	return r
}

// requestID tags every request for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		zap.L().Debug("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

func rateLimit(rps rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type calculateRequest struct {
	ProjectName string             `json:"project_name"`
	Save        bool               `json:"save"`
	Input       model.ProjectInput `json:"input"`
}

type calculateResponse struct {
	ID       string                `json:"id,omitempty"`
	Estimate model.ProjectEstimate `json:"estimate"`
}

func (s *apiServer) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Input.Rooms) == 0 {
		writeError(w, http.StatusBadRequest, "input must have at least one room")
		return
	}

	estimate := s.engine.CalculateProject(req.Input)
	resp := calculateResponse{Estimate: estimate}

	if req.Save {
		saved, err := s.store.SaveEstimate(r.Context(), req.ProjectName, req.Input, estimate)
		if err != nil {
			zap.L().Error("save estimate failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not save estimate")
			return
		}
		resp.ID = saved.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var input model.ProfitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.TotalHours <= 0 {
		writeError(w, http.StatusBadRequest, "total_hours must be positive")
		return
	}
	if input.HourlyRate == 0 {
		input.HourlyRate = cfg.Rates.HourlyRate
	}

	writeJSON(w, http.StatusOK, engine.SimulateProfit(input))
}

func (s *apiServer) handleDetect(w http.ResponseWriter, r *http.Request) {
	var input model.AnomalyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	anomalies := engine.DetectAnomalies(input)
	writeJSON(w, http.StatusOK, map[string]any{"anomalies": anomalies})
}

func (s *apiServer) handleListEstimates(w http.ResponseWriter, r *http.Request) {
	filter := store.EstimateFilter{ProjectName: r.URL.Query().Get("name")}
	fmt.Sscanf(r.URL.Query().Get("limit"), "%d", &filter.Limit)
	fmt.Sscanf(r.URL.Query().Get("offset"), "%d", &filter.Offset)

	estimates, err := s.store.ListEstimates(r.Context(), filter)
	if err != nil {
		zap.L().Error("list estimates failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list estimates")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"estimates": estimates})
}

func (s *apiServer) handleGetEstimate(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.GetEstimate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "estimate not found")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
