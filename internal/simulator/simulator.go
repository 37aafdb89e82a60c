// Package simulator is a stand-in for the remote inference service. It
// serves the same predict, history, chat and health contract from
// heuristics and a generated dataset, and can inject faults on demand.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

type Config struct {
	Port    int
	Rows    int
	Seed    int64
	Latency time.Duration
}

// Fault makes an endpoint answer with Status until it expires.
type Fault struct {
	Endpoint string    `json:"endpoint"`
	Status   int       `json:"status"`
	Until    time.Time `json:"until"`
}

type Simulator struct {
	config     Config
	dataset    *Dataset
	model      *Model
	faults     map[string]Fault
	mu         sync.RWMutex
	httpServer *http.Server
}

func New(cfg Config) *Simulator {
	if cfg.Port == 0 {
		cfg.Port = 9000
	}
	if cfg.Rows <= 0 {
		cfg.Rows = DefaultRows
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}

	dataset := GenerateDataset(cfg.Rows, cfg.Seed)
	return &Simulator{
		config:  cfg,
		dataset: dataset,
		model:   NewModel(dataset.Stats),
		faults:  make(map[string]Fault),
	}
}

func cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Trace-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler exposes the routes without binding a port.
func (s *Simulator) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", cors(s.guard("health", s.healthHandler)))
	mux.HandleFunc("/predict", cors(s.guard("predict", s.predictHandler)))
	mux.HandleFunc("/history", cors(s.guard("history", s.historyHandler)))
	mux.HandleFunc("/chat", cors(s.guard("chat", s.chatHandler)))
	mux.HandleFunc("/faults", cors(s.faultsHandler))

	return mux
}

func (s *Simulator) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Infof("Simulator listening on %s", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Simulator server error: %v", err)
		}
	}()

	return nil
}

func (s *Simulator) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// InjectFault makes endpoint fail with status for duration.
func (s *Simulator) InjectFault(endpoint string, status int, duration time.Duration) Fault {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Fault{Endpoint: endpoint, Status: status, Until: time.Now().Add(duration)}
	s.faults[endpoint] = f
	return f
}

func (s *Simulator) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]Fault)
}

func (s *Simulator) activeFault(endpoint string) (Fault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.faults[endpoint]
	if !ok {
		return Fault{}, false
	}
	if time.Now().After(f.Until) {
		delete(s.faults, endpoint)
		return Fault{}, false
	}
	return f, true
}

func (s *Simulator) Dataset() *Dataset {
	return s.dataset
}

// guard applies injected faults and artificial latency before a handler.
func (s *Simulator) guard(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.Latency > 0 {
			select {
			case <-time.After(s.config.Latency):
			case <-r.Context().Done():
				return
			}
		}

		if f, ok := s.activeFault(endpoint); ok {
			writeJSON(w, f.Status, map[string]string{"detail": "injected fault"})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// HTTP Handlers

func (s *Simulator) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Simulator) predictHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request body"})
		return
	}

	result, err := s.model.Predict(req)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	logger.Debugf("Simulated prediction for %s: max risk %.2f", req.MachineType, result.MaxRisk)
	writeJSON(w, http.StatusOK, result)
}

func (s *Simulator) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, models.HistoryResponse{
		Status: models.HistoryStatusSuccess,
		Data:   s.dataset.Records,
	})
}

func (s *Simulator) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request body"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"response": Reply(req),
	})
}

type FaultRequest struct {
	Endpoint string `json:"endpoint"`
	Status   int    `json:"status"`
	Duration string `json:"duration"`
}

func (s *Simulator) faultsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req FaultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		switch req.Endpoint {
		case "predict", "history", "chat", "health":
		default:
			http.Error(w, "unknown endpoint", http.StatusBadRequest)
			return
		}
		if req.Status < 400 || req.Status > 599 {
			req.Status = http.StatusInternalServerError
		}
		duration, err := time.ParseDuration(req.Duration)
		if err != nil || duration <= 0 {
			duration = time.Minute
		}

		f := s.InjectFault(req.Endpoint, req.Status, duration)
		logger.Infof("Injected fault on %s: status=%d, duration=%s", f.Endpoint, f.Status, duration)
		writeJSON(w, http.StatusCreated, f)

	case http.MethodDelete:
		s.ClearFaults()
		logger.Info("Cleared injected faults")
		writeJSON(w, http.StatusOK, map[string]string{"message": "faults cleared"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
