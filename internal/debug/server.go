package debug

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/version"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

const shutdownTimeout = 2 * time.Second

// Server - локальный HTTP сервер отладки. Включается адресом в конфиге.
type Server struct {
	Addr  string
	Store *Store
}

func New(addr string, store *Store) *Server {
	return &Server{Addr: addr, Store: store}
}

// Handler собирает роуты.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/debug", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/transitions", s.handleTransitions)
		r.Get("/stream", s.handleStream)
	})
	// Профилирование: /prof/pprof/...
	r.Mount("/prof", middleware.Profiler())
	return r
}

// Run слушает до отмены контекста.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		logger.Log.WithField("addr", s.Addr).Info("Debug server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

// /debug/snapshot - последний снимок хоста, 503 пока цикл не сделал ни одного тика.
func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.Store.Last()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no tick yet"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot":  snap,
		"published": s.Store.Published(),
	})
}

func (s *Server) handleTransitions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Transitions())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Warn("Debug response not written")
	}
}
