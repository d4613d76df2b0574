package api

import (
	"database/sql"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"github.com/falah-io/falah/pkg/applicants"
	"github.com/falah-io/falah/pkg/audit"
	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/centers"
	"github.com/falah-io/falah/pkg/httputil"
	"github.com/falah-io/falah/pkg/lookup"
	"github.com/falah-io/falah/pkg/madressa"
	fmw "github.com/falah-io/falah/pkg/middleware"
	"github.com/falah-io/falah/pkg/observability"
	"github.com/falah-io/falah/pkg/questionnaire"
	"github.com/falah-io/falah/pkg/rbac"
	"github.com/falah-io/falah/pkg/reporting"
)

// Options configures a Server.
type Options struct {
	// DB is the primary database handle; required.
	DB *sql.DB
	// ReaderDB serves read-heavy reporting queries. Defaults to DB.
	ReaderDB *sql.DB
	// Redis enables distributed rate limiting when set.
	Redis *redis.Client

	Logger  *observability.Logger
	Metrics *observability.Metrics
	Lookup  *lookup.Service
}

// Server is the HTTP API. Authentication, tenant resolution, and role
// authorization run as middleware ahead of every protected route; the login
// route is the only unauthenticated API surface.
type Server struct {
	handler http.Handler
	logger  *observability.Logger

	tokenManager *auth.TokenManager
	auditStore   *audit.Store
}

// NewServer wires the full request pipeline and all route handlers.
func NewServer(opts Options) *Server {
	if opts.ReaderDB == nil {
		opts.ReaderDB = opts.DB
	}
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	tokenManager := auth.NewTokenManager(opts.DB)
	auditStore := audit.NewStore(opts.DB)
	recorder := audit.NewRecorder(auditStore, opts.Logger)

	// Protected routes: everything behind auth + tenant + authorization.
	protected := mux.NewRouter()
	applicants.NewHandler(applicants.NewStore(opts.DB)).RegisterRoutes(protected)
	madressa.NewHandler(madressa.NewStore(opts.DB)).RegisterRoutes(protected)
	questionnaire.NewHandler(questionnaire.NewStore(opts.DB), opts.Metrics).RegisterRoutes(protected)
	if opts.Lookup != nil {
		lookup.NewHandler(opts.Lookup).RegisterRoutes(protected)
	}

	protected.Handle("/api/dashboard",
		http.HandlerFunc(newDashboardHandler(opts.ReaderDB).Summary)).Methods("GET")

	// Role-restricted route groups. The guard's required-roles list feeds
	// the decline body; the authorizer still applies method and module
	// policy behind it.
	centersRouter := mux.NewRouter()
	centers.NewHandler(centers.NewStore(opts.DB)).RegisterRoutes(centersRouter)
	protected.PathPrefix("/api/centerDetail").Handler(
		rbac.RequireRoles(auth.RoleAppAdmin, auth.RoleHQ, auth.RoleOrgAdmin)(centersRouter))

	reportsRouter := mux.NewRouter()
	reporting.NewHandler(reporting.NewStore(opts.ReaderDB, opts.DB), opts.Metrics).RegisterRoutes(reportsRouter)
	protected.PathPrefix("/api/reports").Handler(
		rbac.RequireRoles(auth.RoleAppAdmin, auth.RoleHQ, auth.RoleOrgAdmin, auth.RoleOrgExecutive)(reportsRouter))

	auditHandler := audit.NewHandler(auditStore)
	protected.Handle("/api/audit/access",
		rbac.RequireRoles(auth.RoleAppAdmin, auth.RoleHQ)(
			http.HandlerFunc(auditHandler.List))).Methods("GET")

	authMW := fmw.NewAuthMiddleware(tokenManager, false)
	tenantMW := fmw.NewTenantMiddleware(opts.Metrics)
	protectedChain := httputil.Chain(protected,
		authMW.Handler,
		tenantMW.Handler,
		rbac.Middleware(recorder),
	)

	// Root router: login is public, everything else under /api/ goes
	// through the protected chain.
	root := mux.NewRouter()
	auth.NewHandler(opts.DB, tokenManager).RegisterRoutes(root)
	root.PathPrefix("/api/").Handler(protectedChain)

	outer := []httputil.Middleware{
		httputil.RecoveryMiddleware(opts.Logger.Slog()),
		httputil.RequestIDMiddleware,
		loggerInjector(opts.Logger),
		httputil.LoggingMiddleware(opts.Logger.Slog()),
		httputil.CORSMiddleware,
	}
	if opts.Metrics != nil {
		outer = append(outer, observability.HTTPMetricsMiddleware(opts.Metrics))
	}
	if opts.Redis != nil {
		outer = append(outer, fmw.NewRateLimitMiddleware(opts.Redis, opts.Metrics).Handler)
	}

	return &Server{
		handler:      httputil.Chain(root, outer...),
		logger:       opts.Logger,
		tokenManager: tokenManager,
		auditStore:   auditStore,
	}
}

// TokenManager exposes the server's token manager for CLI provisioning.
func (s *Server) TokenManager() *auth.TokenManager {
	return s.tokenManager
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// loggerInjector places the application logger in every request context so
// handlers can annotate it with the request ID. When the request carries a
// trace, the span identifiers ride along on every log line.
func loggerInjector(logger *observability.Logger) httputil.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := observability.LoggerWithTrace(r.Context(), logger)
			ctx := observability.WithLogger(r.Context(), reqLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
