package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-records-api/activity"
	"github.com/linesmerrill/court-records-api/api"
	"github.com/linesmerrill/court-records-api/auth"
	"github.com/linesmerrill/court-records-api/config"
	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/ledger"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/records"
	"github.com/linesmerrill/court-records-api/workflow"
)

const (
	connectTimeout = 10 * time.Second
	requestTimeout = 30 * time.Second
)

// Stores groups the databases the app runs on
type Stores struct {
	Cases      databases.CaseDatabase
	Activities databases.ActivityDatabase
	Users      databases.UserDatabase
}

// MemoryStores returns empty in-process databases
func MemoryStores() Stores {
	return Stores{
		Cases:      databases.NewMemoryCaseDatabase(),
		Activities: databases.NewMemoryActivityDatabase(),
		Users:      databases.NewMemoryUserDatabase(),
	}
}

func (s Stores) ensureIndexes(ctx context.Context) error {
	for _, ensure := range []func(context.Context) error{
		s.Cases.EnsureIndexes, s.Activities.EnsureIndexes, s.Users.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}

// App stores the router and the components behind it, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Registry *prometheus.Registry

	WF       *workflow.Coordinator
	Recorder *activity.Recorder
	Hub      *activity.Hub
	Limiter  *api.RateLimiter

	authenticator api.MiddlewareAuth
	metrics       *api.Metrics
	client        databases.ClientHelper
	backend       string
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize(ctx context.Context) error {
	stores, err := a.connect(ctx)
	if err != nil {
		return err
	}
	a.Build(ctx, stores)
	return nil
}

// connect tries DB_URI then DB_URI_FALLBACK and settles for in-memory storage when
// neither is configured or reachable
func (a *App) connect(ctx context.Context) (Stores, error) {
	for _, uri := range []string{a.Config.URL, a.Config.URLFallback} {
		if uri == "" {
			continue
		}
		client := databases.NewClient(uri)
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := client.Connect(cctx)
		if err == nil {
			err = client.Ping(cctx)
		}
		cancel()
		if err != nil {
			zap.S().Warnw("failed to connect to database", "error", err)
			_ = client.Disconnect(ctx)
			continue
		}

		db := databases.NewDatabase(a.Config.DatabaseName, client)
		stores := Stores{
			Cases:      databases.NewCaseDatabase(db),
			Activities: databases.NewActivityDatabase(db),
			Users:      databases.NewUserDatabase(db),
		}
		if err := stores.ensureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return Stores{}, err
		}
		a.client = client
		a.backend = "mongo"
		zap.S().Infow("court-records-api has connected to the database", "database", a.Config.DatabaseName)
		return stores, nil
	}

	zap.S().Warnw("no database configured or reachable, using in-memory storage; data will not survive a restart")
	a.backend = "memory"
	return MemoryStores(), nil
}

// Build wires the stores into the workflow and mounts the routes
func (a *App) Build(ctx context.Context, stores Stores) {
	if a.backend == "" {
		a.backend = "memory"
	}
	if a.Registry == nil {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	a.Hub = activity.NewHub(a.Config.CORSOrigins)
	a.Recorder = activity.NewRecorder(stores.Activities, activity.Options{
		QueueSize:   a.Config.AuditQueueSize,
		QueryLimit:  a.Config.AuditQueryLimit,
		Metrics:     activity.NewMetrics(a.Registry),
		Broadcaster: a.Hub,
	})

	tokens := auth.NewJWTManager(a.Config.JWTSecret, a.Config.TokenTTL)
	a.WF = &workflow.Coordinator{
		Records: records.New(stores.Cases),
		Ledger:  ledger.New(stores.Cases),
		Audit:   a.Recorder,
		Users:   stores.Users,
		Tokens:  tokens,
	}
	if a.Config.SendgridAPIKey != "" {
		a.WF.Notifier = workflow.NewEmailNotifier(a.Config.SendgridAPIKey, a.Config.NotifyFromEmail)
	}
	if a.Config.RegistrarEmail != "" && a.Config.RegistrarPassword != "" {
		_, err := a.WF.EnsureRegistrar(ctx, models.NewUser{
			FullName: a.Config.RegistrarName,
			Email:    a.Config.RegistrarEmail,
			Password: a.Config.RegistrarPassword,
		})
		if err != nil {
			zap.S().Errorw("failed to seed registrar account", "error", err)
		}
	}

	a.authenticator = api.MiddlewareAuth{Authenticator: auth.NewAuthenticator(ctx, tokens)}
	a.metrics = api.NewMetrics(a.Registry)
	a.Limiter = api.NewRateLimiter(a.Config.LoginRate, time.Minute)
	a.Limiter.TrustProxy = a.Config.TrustProxy
	a.Router = a.New()
}

// Handler returns the router wrapped in CORS so preflight requests are answered for
// every route
func (a *App) Handler() http.Handler {
	return api.CORS(a.Config.CORSOrigins)(a.Router)
}

// Close flushes the audit queue and disconnects from the database
func (a *App) Close(ctx context.Context) error {
	var err error
	if a.Recorder != nil {
		err = a.Recorder.Close(ctx)
	}
	if a.client != nil {
		if derr := a.client.Disconnect(ctx); derr != nil && err == nil {
			err = derr
		}
	}
	return err
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	c := Case{WF: a.WF}
	q := Request{WF: a.WF}
	u := User{WF: a.WF}
	act := Activity{WF: a.WF, Hub: a.Hub}
	cloudinaryHandler := CloudinaryHandler{WF: a.WF, Config: a.Config}

	var ping func(context.Context) error
	if a.client != nil {
		ping = a.client.Ping
	}

	// authed requires a bearer token and, when roles are given, one of those roles
	authed := func(h http.HandlerFunc, roles ...string) http.Handler {
		var handler http.Handler = h
		if len(roles) > 0 {
			handler = api.RequireRole(roles...)(handler)
		}
		return a.authenticator.Middleware(handler)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		return a.Limiter.Middleware(h)
	}

	r := mux.NewRouter()
	r.Use(a.metrics.Middleware)
	r.Use(api.TimeoutMiddleware(requestTimeout))

	s := r.PathPrefix("/api").Subrouter()
	s.HandleFunc("/health", api.HealthCheck(a.backend, ping)).Methods("GET")
	s.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})).Methods("GET")

	s.Handle("/users/signup", limited(u.SignupHandler)).Methods("POST")
	s.Handle("/users/login", limited(u.LoginHandler)).Methods("POST")
	s.Handle("/users/me", authed(u.MeHandler)).Methods("GET")
	s.Handle("/users/profile/{id}", authed(u.ProfileHandler)).Methods("GET")
	s.Handle("/users/profile/{id}", authed(u.UpdateBioHandler)).Methods("PATCH")
	s.Handle("/users", authed(u.UserListHandler, models.RoleRegistrar)).Methods("GET")
	s.Handle("/users", authed(u.CreateUserHandler, models.RoleRegistrar)).Methods("POST")
	s.Handle("/users/{id}", authed(u.DeleteUserHandler, models.RoleRegistrar)).Methods("DELETE")

	// fixed /cases paths must be registered ahead of /cases/{id}
	s.Handle("/cases", authed(c.CaseListHandler, models.StaffRoles...)).Methods("GET")
	s.Handle("/cases", authed(c.CreateCaseHandler, models.RoleRegistrar)).Methods("POST")
	s.Handle("/cases/mine", authed(c.CasesMineHandler)).Methods("GET")
	s.Handle("/cases/requests", authed(q.RequestListHandler, models.RoleRegistrar)).Methods("GET")
	s.Handle("/cases/requests/mine", authed(q.MyRequestsHandler)).Methods("GET")
	s.Handle("/cases/{id}", authed(c.CaseByIDHandler, models.StaffRoles...)).Methods("GET")
	s.Handle("/cases/{id}", authed(c.UpdateCaseHandler, models.StaffRoles...)).Methods("PATCH")
	s.Handle("/cases/{id}/assign-judge", authed(c.AssignJudgeHandler, models.RoleRegistrar)).Methods("POST")
	s.Handle("/cases/{id}/assign-lawyer", authed(c.AssignLawyerHandler, models.RoleRegistrar, models.RoleJudge)).Methods("POST")
	s.Handle("/cases/{id}/hearings", authed(c.AddHearingHandler, models.StaffRoles...)).Methods("POST")
	s.Handle("/cases/{id}/evidence", authed(c.AddEvidenceHandler, models.StaffRoles...)).Methods("POST")
	s.Handle("/cases/{id}/judgement", authed(c.DeliverJudgementHandler, models.RoleJudge)).Methods("POST")
	s.Handle("/cases/{id}/reports", authed(c.AddReportHandler, models.StaffRoles...)).Methods("POST")
	s.Handle("/cases/{id}/reports/download", authed(c.ReportDownloadHandler, models.StaffRoles...)).Methods("GET")
	s.Handle("/cases/{id}/documents", authed(c.AddDocumentsHandler, models.StaffRoles...)).Methods("POST")
	s.Handle("/cases/{id}/documents/signature", authed(cloudinaryHandler.GenerateSignature, models.StaffRoles...)).Methods("POST")
	s.Handle("/cases/{id}/messages", authed(c.AddMessageHandler, models.StaffRoles...)).Methods("POST")
	s.Handle("/cases/{id}/schedules", authed(c.AddScheduleHandler, models.StaffRoles...)).Methods("POST")
	s.Handle("/cases/{id}/download", authed(c.SummaryDownloadHandler, models.StaffRoles...)).Methods("GET")
	s.Handle("/cases/{id}/requests", authed(q.SubmitRequestHandler)).Methods("POST")
	s.Handle("/cases/{id}/requests/{ref}/decision", authed(q.DecisionHandler, models.RoleRegistrar)).Methods("POST")
	s.Handle("/cases/{id}/approved", authed(q.ApprovedCaseHandler)).Methods("GET")

	s.Handle("/activity", authed(act.ActivityListHandler, models.RoleRegistrar)).Methods("GET")
	s.Handle("/activity/ws", authed(act.ActivityFeedHandler, models.RoleRegistrar)).Methods("GET")

	return r
}
