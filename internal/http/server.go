package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/RDubya18/sprig-mobile/internal/cache"
	"github.com/RDubya18/sprig-mobile/internal/core"
	applog "github.com/RDubya18/sprig-mobile/internal/log"
	"github.com/RDubya18/sprig-mobile/internal/services"
	"github.com/RDubya18/sprig-mobile/internal/storage"
)

// ImportRunner runs a CSV import end to end.
type ImportRunner interface {
	Import(ctx context.Context, csvText string, sample bool) (core.ImportSummary, error)
}

// RuleManager manages categorization rules.
type RuleManager interface {
	ListRules(ctx context.Context) ([]core.Rule, error)
	AddRule(ctx context.Context, rule core.Rule) (core.Rule, error)
	DeleteRule(ctx context.Context, id int64) error
	ApplyRulesToUncategorized(ctx context.Context) (int, error)
}

// OverviewReader computes the monthly overview read model.
type OverviewReader interface {
	MonthOverview(ctx context.Context, monthKey string) (services.MonthOverview, error)
}

// InsightReader computes month-over-month spending insights.
type InsightReader interface {
	MonthInsights(ctx context.Context, monthKey string) ([]core.Insight, error)
}

// TransactionReader lists stored transactions.
type TransactionReader interface {
	ListTransactions(ctx context.Context, f storage.TransactionFilters) ([]core.Transaction, error)
	DistinctCategories(ctx context.Context, monthKey string) ([]string, error)
}

// BudgetStore manages per-category budgets.
type BudgetStore interface {
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	UpsertBudget(ctx context.Context, category string, monthlyTarget float64) error
	DeleteBudget(ctx context.Context, id int64) error
}

// AccountStore manages accounts.
type AccountStore interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
	GetAccount(ctx context.Context, id int64) (*core.Account, error)
	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	UpdateAccount(ctx context.Context, id int64, patch storage.AccountPatch) error
	AccountNet(ctx context.Context, accountID int64) (float64, error)
}

// Deps bundles everything the server needs.
type Deps struct {
	Importer     ImportRunner
	Rules        RuleManager
	Overview     OverviewReader
	Insights     InsightReader
	Transactions TransactionReader
	Budgets      BudgetStore
	Accounts     AccountStore
}

type Server struct {
	http.Server
	deps        Deps
	rateLimiter *rateLimiter
	logs        *applog.StructuredLogger

	// Month-keyed read caches, purged on any write that changes spend.
	overviewCache *cache.LRUCache[services.MonthOverview]
	insightsCache *cache.LRUCache[[]core.Insight]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, deps Deps, cacheSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()
	httpLog := applog.New(applog.Config{Component: applog.ComponentHTTP})

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(httpLog)(applog.RequestIDMiddleware(extractRequestID)(mux)),
		},
		deps:          deps,
		rateLimiter:   newRateLimiter(),
		logs:          applog.NewStructuredLogger(httpLog),
		overviewCache: cache.NewLRUCache[services.MonthOverview](cacheSize, cacheTTL),
		insightsCache: cache.NewLRUCache[[]core.Insight](cacheSize, cacheTTL),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.Register(s.insightsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/import", s.withAPIHeaders(s.handleImport))

	mux.HandleFunc("GET /api/transactions", s.withAPIHeaders(s.handleListTransactions))
	mux.HandleFunc("GET /api/categories", s.withAPIHeaders(s.handleListCategories))

	mux.HandleFunc("GET /api/rules", s.withAPIHeaders(s.handleListRules))
	mux.HandleFunc("POST /api/rules", s.withAPIHeaders(s.handleAddRule))
	mux.HandleFunc("DELETE /api/rules/{id}", s.withAPIHeaders(s.handleDeleteRule))
	mux.HandleFunc("POST /api/rules/apply", s.withAPIHeaders(s.handleApplyRules))

	mux.HandleFunc("GET /api/budgets", s.withAPIHeaders(s.handleListBudgets))
	mux.HandleFunc("PUT /api/budgets", s.withAPIHeaders(s.handleUpsertBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.withAPIHeaders(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/accounts", s.withAPIHeaders(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withAPIHeaders(s.handleCreateAccount))
	mux.HandleFunc("GET /api/accounts/{id}", s.withAPIHeaders(s.handleGetAccount))
	mux.HandleFunc("PATCH /api/accounts/{id}", s.withAPIHeaders(s.handleUpdateAccount))

	mux.HandleFunc("GET /api/reports/overview", s.withAPIHeaders(s.handleMonthOverview))
	mux.HandleFunc("GET /api/reports/insights", s.withAPIHeaders(s.handleMonthInsights))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// purgeReportCaches drops cached overviews and insights. Called after any
// write that can change a month's numbers.
func (s *Server) purgeReportCaches() {
	s.overviewCache.Purge()
	s.insightsCache.Purge()
}

// withAPIHeaders adds request logging, rate limiting on writes, and response
// headers common to every API endpoint.
func (s *Server) withAPIHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		ctx := r.Context()
		s.logs.LogHTTPStart(ctx, r, clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			applog.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP, applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			errorJSON(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logs.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
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

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
