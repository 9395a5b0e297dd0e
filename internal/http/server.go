// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlvaroPereir4/FinScope/internal/auth"
	applog "github.com/AlvaroPereir4/FinScope/internal/log"
	"github.com/AlvaroPereir4/FinScope/internal/services"
)

// Server wraps the HTTP server with the ledger's route table, per-IP
// rate limiting and request logging.
type Server struct {
	http.Server
	ledger       *services.Ledger
	auth         *auth.Service
	rateLimiter  *rateLimiter
	logs         *applog.StructuredLogger
	shutdownOnce sync.Once
}

// NewServer builds the API server on the given port.
func NewServer(port string, ledger *services.Ledger, authSvc *auth.Service) *Server {
	s := &Server{
		ledger:      ledger,
		auth:        authSvc,
		rateLimiter: newRateLimiter(),
		logs:        applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentHTTP})),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/incomes", s.protect(s.handleListIncomes))
	mux.HandleFunc("POST /api/incomes", s.protect(s.handleCreateIncome))
	mux.HandleFunc("GET /api/incomes/{id}", s.protect(s.handleGetIncome))
	mux.HandleFunc("PATCH /api/incomes/{id}", s.protect(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.protect(s.handleDeleteIncome))

	mux.HandleFunc("GET /api/expenses", s.protect(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.protect(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/{id}", s.protect(s.handleGetExpense))
	mux.HandleFunc("PATCH /api/expenses/{id}", s.protect(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.protect(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/macro-expenses", s.protect(s.handleListMacroExpenses))
	mux.HandleFunc("POST /api/macro-expenses", s.protect(s.handleCreateMacroExpense))
	mux.HandleFunc("GET /api/macro-expenses/{id}", s.protect(s.handleGetMacroExpense))
	mux.HandleFunc("PATCH /api/macro-expenses/{id}", s.protect(s.handleUpdateMacroExpense))
	mux.HandleFunc("DELETE /api/macro-expenses/{id}", s.protect(s.handleDeleteMacroExpense))

	mux.HandleFunc("GET /api/cards", s.protect(s.handleListCards))
	mux.HandleFunc("POST /api/cards", s.protect(s.handleCreateCard))
	mux.HandleFunc("GET /api/cards/{id}", s.protect(s.handleGetCard))
	mux.HandleFunc("PATCH /api/cards/{id}", s.protect(s.handleUpdateCard))
	mux.HandleFunc("DELETE /api/cards/{id}", s.protect(s.handleDeleteCard))
	mux.HandleFunc("GET /api/cards/{id}/invoice", s.protect(s.handleCardInvoice))

	mux.HandleFunc("GET /api/wallets", s.protect(s.handleListWallets))
	mux.HandleFunc("POST /api/wallets", s.protect(s.handleCreateWallet))
	mux.HandleFunc("GET /api/wallets/{id}", s.protect(s.handleGetWallet))
	mux.HandleFunc("PATCH /api/wallets/{id}", s.protect(s.handleUpdateWallet))
	mux.HandleFunc("DELETE /api/wallets/{id}", s.protect(s.handleDeleteWallet))

	mux.HandleFunc("GET /api/investments", s.protect(s.handleListInvestments))
	mux.HandleFunc("POST /api/investments", s.protect(s.handleCreateInvestment))
	mux.HandleFunc("GET /api/investments/{id}", s.protect(s.handleGetInvestment))
	mux.HandleFunc("PATCH /api/investments/{id}", s.protect(s.handleUpdateInvestment))
	mux.HandleFunc("DELETE /api/investments/{id}", s.protect(s.handleDeleteInvestment))
	mux.HandleFunc("GET /api/investments/{id}/entries", s.protect(s.handleListInvestmentEntries))
	mux.HandleFunc("POST /api/investments/{id}/entries", s.protect(s.handleCreateInvestmentEntry))

	mux.HandleFunc("GET /api/goals", s.protect(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.protect(s.handleCreateGoal))
	mux.HandleFunc("PATCH /api/goals/{id}", s.protect(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.protect(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/settings", s.protect(s.handleGetSettings))
	mux.HandleFunc("PUT /api/settings", s.protect(s.handleSaveSettings))

	mux.HandleFunc("GET /api/transactions", s.protect(s.handleTransactions))
	mux.HandleFunc("GET /api/dashboard", s.protect(s.handleDashboard))
	mux.HandleFunc("GET /api/summary", s.protect(s.handleSummary))

	s.Server = http.Server{
		Addr:         ":" + port,
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter cleanup goroutine before draining
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
	})
	return s.Server.Shutdown(ctx)
}

// withMiddleware adds security headers, rate limiting on mutating
// methods, request IDs and request logging to every route.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)
		w.Header().Set("X-Request-ID", requestID)

		s.logs.LogHTTPStart(ctx, r, clientIP)

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			rateLimitedTotal.Inc()
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		requestsTotal.WithLabelValues(r.Method, strconv.Itoa(rw.statusCode)).Inc()
		s.logs.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter captures the status code for logging and metrics.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
