package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studiohub/internal/domain/errors"
	"studiohub/internal/domain/models"
	"studiohub/internal/domain/schema"
	"studiohub/internal/service"
)

const apiPrefix = "/api/v1"

// Pinger is a backing service the health check reports on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a Pinger in the health report.
type Dependency struct {
	Name   string
	Pinger Pinger
}

// DeliveryLog answers when a provider message id was delivered.
type DeliveryLog interface {
	SentAt(ctx context.Context, messageID string) (time.Time, bool, error)
}

type StudioAPI struct {
	httpSrv    *http.Server
	svc        *service.Service
	cfg        *Config
	log        *zap.Logger
	deps       []Dependency
	deliveries DeliveryLog
	now        func() time.Time
}

type Option func(*StudioAPI)

// WithDependency adds a backing service to the /health report.
func WithDependency(name string, p Pinger) Option {
	return func(a *StudioAPI) {
		if p != nil {
			a.deps = append(a.deps, Dependency{Name: name, Pinger: p})
		}
	}
}

// WithDeliveryLog serves GET /messages/:message_id from d.
func WithDeliveryLog(d DeliveryLog) Option {
	return func(a *StudioAPI) { a.deliveries = d }
}

// WithClock overrides the clock used for health timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *StudioAPI) { a.now = now }
}

func NewStudioAPI(svc *service.Service, cfg *Config, log *zap.Logger, opts ...Option) *StudioAPI {
	if svc == nil {
		return nil
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	api := &StudioAPI{
		httpSrv: &http.Server{
			Addr:              cfg.ListenAddr(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		svc: svc,
		cfg: cfg,
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(api)
	}
	api.configRoutes()
	return api
}

func (a *StudioAPI) Handler() http.Handler { return a.httpSrv.Handler }

func (a *StudioAPI) Addr() string { return a.httpSrv.Addr }

func (a *StudioAPI) Start() error {
	if a.httpSrv == nil || a.httpSrv.Handler == nil {
		return errors.ErrInternalServer
	}
	a.log.Info("Starting server", zap.String("addr", a.httpSrv.Addr))
	if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *StudioAPI) Shutdown(ctx context.Context) error {
	return a.httpSrv.Shutdown(ctx)
}

func (a *StudioAPI) configRoutes() {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		RequestLogger(a.log),
		CORS(a.cfg.AllowedOrigins),
		GzipRequestDecompress(),
		GzipResponseCompress(),
	)

	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	router.GET("/", a.root)

	v1 := router.Group(apiPrefix)
	v1.GET("/health", a.health)
	v1.GET("/health/simple", a.simpleHealth)

	svc := a.svc

	users := v1.Group("/users")
	{
		users.POST("", createHandler(a, svc.Users.CRUD, "User", nil))
		users.GET("", listHandler(a, svc.Users.CRUD, "users", userFilter))
		users.GET("/email/:email", a.getUserByEmail)
		users.GET("/:id", getHandler(a, svc.Users.CRUD, "User"))
		users.PUT("/:id", updateHandler(a, svc.Users.CRUD, "User"))
		users.DELETE("/:id", deleteHandler(a, svc.Users.CRUD, "User"))
	}

	clients := v1.Group("/clients")
	{
		clients.POST("", createHandler(a, svc.Clients, "Client", nil))
		clients.GET("", listHandler(a, svc.Clients, "clients", clientFilter))
		clients.GET("/search/:name", listHandler(a, svc.Clients, "clients", func(c *gin.Context) ([]schema.Condition, error) {
			return service.ClientFilter{Name: c.Param("name")}.Conditions(), nil
		}))
		clients.GET("/:id", getHandler(a, svc.Clients, "Client"))
		clients.PUT("/:id", updateHandler(a, svc.Clients, "Client"))
		clients.DELETE("/:id", deleteHandler(a, svc.Clients, "Client"))
	}

	craftsmen := v1.Group("/craftsmen")
	{
		craftsmen.POST("", createHandler(a, svc.Craftsmen, "Craftsman", nil))
		craftsmen.GET("", listHandler(a, svc.Craftsmen, "craftsmen", craftsmanFilter))
		craftsmen.GET("/search/specialties/:specialties", listHandler(a, svc.Craftsmen, "craftsmen", func(c *gin.Context) ([]schema.Condition, error) {
			return service.CraftsmanFilter{Specialties: c.Param("specialties")}.Conditions(), nil
		}))
		craftsmen.GET("/phone/:phone", a.getCraftsmanByPhone)
		craftsmen.GET("/:id", getHandler(a, svc.Craftsmen, "Craftsman"))
		craftsmen.PUT("/:id", updateHandler(a, svc.Craftsmen, "Craftsman"))
		craftsmen.DELETE("/:id", deleteHandler(a, svc.Craftsmen, "Craftsman"))
	}

	projects := v1.Group("/projects")
	{
		projects.POST("", createHandler(a, svc.Projects, "Project", setProjectOwner))
		projects.GET("", listHandler(a, svc.Projects, "projects", projectFilter))
		projects.GET("/user/:id", listHandler(a, svc.Projects, "projects", byParent(func(id int64) []schema.Condition {
			return service.ProjectFilter{UserID: &id}.Conditions()
		})))
		projects.GET("/client/:id", listHandler(a, svc.Projects, "projects", byParent(func(id int64) []schema.Condition {
			return service.ProjectFilter{ClientID: &id}.Conditions()
		})))
		projects.GET("/:id", getHandler(a, svc.Projects, "Project"))
		projects.PUT("/:id", updateHandler(a, svc.Projects, "Project"))
		projects.DELETE("/:id", deleteHandler(a, svc.Projects, "Project"))
	}

	campaigns := v1.Group("/campaigns")
	{
		campaigns.POST("", createHandler(a, svc.Campaigns, "Campaign", nil))
		campaigns.GET("", listHandler(a, svc.Campaigns, "campaigns", campaignFilter))
		campaigns.GET("/project/:id", listHandler(a, svc.Campaigns, "campaigns", byParent(func(id int64) []schema.Condition {
			return service.CampaignFilter{ProjectID: &id}.Conditions()
		})))
		campaigns.GET("/:id", getHandler(a, svc.Campaigns, "Campaign"))
		campaigns.PUT("/:id", updateHandler(a, svc.Campaigns, "Campaign"))
		campaigns.DELETE("/:id", deleteHandler(a, svc.Campaigns, "Campaign"))
	}

	items := v1.Group("/items")
	{
		items.POST("", createHandler(a, svc.Items, "Item", nil))
		items.GET("", listHandler(a, svc.Items, "items", itemFilter))
		items.GET("/campaign/:id", listHandler(a, svc.Items, "items", byParent(func(id int64) []schema.Condition {
			return service.ItemFilter{CampaignID: &id}.Conditions()
		})))
		items.GET("/search/:name", listHandler(a, svc.Items, "items", func(c *gin.Context) ([]schema.Condition, error) {
			return service.ItemFilter{Name: c.Param("name")}.Conditions(), nil
		}))
		items.GET("/:id", getHandler(a, svc.Items, "Item"))
		items.PUT("/:id", updateHandler(a, svc.Items, "Item"))
		items.DELETE("/:id", deleteHandler(a, svc.Items, "Item"))
	}

	quotes := v1.Group("/quotes")
	{
		quotes.POST("", createHandler(a, svc.Quotes.CRUD, "Quote", nil))
		quotes.GET("", listHandler(a, svc.Quotes.CRUD, "quotes", quoteFilter))
		quotes.GET("/item/:id", listHandler(a, svc.Quotes.CRUD, "quotes", byParent(func(id int64) []schema.Condition {
			return service.QuoteFilter{ItemID: &id}.Conditions()
		})))
		quotes.GET("/craftsman/:id", listHandler(a, svc.Quotes.CRUD, "quotes", byParent(func(id int64) []schema.Condition {
			return service.QuoteFilter{CraftsmanID: &id}.Conditions()
		})))
		quotes.POST("/:id/send", a.sendQuote)
		quotes.GET("/:id", getHandler(a, svc.Quotes.CRUD, "Quote"))
		quotes.PUT("/:id", updateHandler(a, svc.Quotes.CRUD, "Quote"))
		quotes.DELETE("/:id", deleteHandler(a, svc.Quotes.CRUD, "Quote"))
	}

	v1.GET("/messages/:message_id", a.messageDelivery)

	tasks := v1.Group("/tasks")
	{
		tasks.POST("", createHandler(a, svc.Tasks, "Task", nil))
		tasks.GET("", listHandler(a, svc.Tasks, "tasks", taskFilter))
		tasks.GET("/project/:id", listHandler(a, svc.Tasks, "tasks", byParent(func(id int64) []schema.Condition {
			return service.TaskFilter{ProjectID: &id}.Conditions()
		})))
		tasks.GET("/user/:id", listHandler(a, svc.Tasks, "tasks", byParent(func(id int64) []schema.Condition {
			return service.TaskFilter{AssignedUserID: &id}.Conditions()
		})))
		tasks.GET("/:id", getHandler(a, svc.Tasks, "Task"))
		tasks.PUT("/:id", updateHandler(a, svc.Tasks, "Task"))
		tasks.DELETE("/:id", deleteHandler(a, svc.Tasks, "Task"))
	}

	a.httpSrv.Handler = router
}

// setProjectOwner takes the owning user from current_user_id, 1 when absent.
func setProjectOwner(ctx *gin.Context, in *models.ProjectCreate) error {
	id, err := queryInt64(ctx, "current_user_id")
	if err != nil {
		return err
	}
	in.UserID = 1
	if id != nil {
		in.UserID = *id
	}
	return nil
}

func (a *StudioAPI) getUserByEmail(ctx *gin.Context) {
	user, err := a.svc.Users.GetByEmail(ctx.Request.Context(), ctx.Param("email"))
	if err != nil {
		a.fail(ctx, err, "User")
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (a *StudioAPI) getCraftsmanByPhone(ctx *gin.Context) {
	page, err := a.svc.Craftsmen.List(ctx.Request.Context(), service.CraftsmanFilter{Phone: ctx.Param("phone")}.Conditions(), 0, 1)
	if err != nil {
		a.fail(ctx, err, "Craftsman")
		return
	}
	if len(page.Items) == 0 {
		a.fail(ctx, errors.ErrNotFound, "Craftsman")
		return
	}
	ctx.JSON(http.StatusOK, page.Items[0])
}

func (a *StudioAPI) sendQuote(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	res, err := a.svc.Quotes.Send(ctx.Request.Context(), id)
	if err != nil {
		a.fail(ctx, err, "Quote")
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (a *StudioAPI) messageDelivery(ctx *gin.Context) {
	if a.deliveries == nil {
		a.fail(ctx, errors.ErrDeliveryLogOff, "Message")
		return
	}
	id := ctx.Param("message_id")
	sentAt, ok, err := a.deliveries.SentAt(ctx.Request.Context(), id)
	if err != nil {
		a.fail(ctx, err, "Message")
		return
	}
	if !ok {
		a.fail(ctx, errors.ErrNotFound, "Message")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message_id": id,
		"sent_at":    sentAt.UTC().Format(time.RFC3339),
	})
}

func (a *StudioAPI) root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message":     "StudioHub API - Design Studio Orchestration Platform",
		"version":     a.cfg.Version,
		"environment": a.cfg.Env,
	})
}
