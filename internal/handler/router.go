package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/handler/api"
	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine             *gin.Engine
	Config             config.Config
	Logger             *slog.Logger
	AuthHandler        *api.AuthHandler
	ReservationHandler *api.ReservationHandler
	SpotHandler        *api.SpotHandler
	PaymentHandler     *api.PaymentHandler
	AuthMiddleware     *middleware.AuthMiddleware
	RateLimiter        middleware.RateLimiter
}

func NewRouter(p RouterParams) {
	setupMiddleware(p.Engine, p.Config, p.Logger)
	setupRoutes(p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	authMiddleware := p.AuthMiddleware
	limit := middleware.RateLimit(p.RateLimiter, p.Config.RateLimit)

	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: p.AuthHandler.Login, Mw: []gin.HandlerFunc{limit}},
				{Method: http.MethodPost, Path: "/register", Handler: p.AuthHandler.Register, Mw: []gin.HandlerFunc{limit}},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: p.AuthHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: p.AuthHandler.Me},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/locations", Handler: p.SpotHandler.ListLocations},
			{Method: http.MethodGet, Path: "/locations/:id/spots", Handler: p.SpotHandler.ListSpots},
			{Method: http.MethodGet, Path: "/spots/:id", Handler: p.SpotHandler.GetSpot},
			{Method: http.MethodGet, Path: "/spots/:id/availability", Handler: p.SpotHandler.Availability},
		})

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			staff := authMiddleware.RequireRoleAtLeast(user.RoleOperator)
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: p.ReservationHandler.CreateReservation, Mw: []gin.HandlerFunc{limit}},
				{Method: http.MethodGet, Path: "", Handler: p.ReservationHandler.GetUserReservations},
				{Method: http.MethodPost, Path: "/redeem", Handler: p.ReservationHandler.Redeem, Mw: []gin.HandlerFunc{staff}},
				{Method: http.MethodGet, Path: "/:id", Handler: p.ReservationHandler.GetReservation},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: p.ReservationHandler.CancelReservation},
				{Method: http.MethodPost, Path: "/:id/checkout", Handler: p.ReservationHandler.CheckOut},
				{Method: http.MethodGet, Path: "/:id/overstay", Handler: p.ReservationHandler.Overstay},
				{Method: http.MethodPost, Path: "/:id/additional-charge", Handler: p.ReservationHandler.AdditionalCharge, Mw: []gin.HandlerFunc{limit}},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/webhook", Handler: p.PaymentHandler.Webhook, Mw: []gin.HandlerFunc{middleware.RequireSignature(p.Config.Payment.WebhookSecret)}},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/locations", Handler: p.SpotHandler.CreateLocation},
				{Method: http.MethodPost, Path: "/locations/:id/spots", Handler: p.SpotHandler.CreateSpot},
				{Method: http.MethodPatch, Path: "/spots/:id", Handler: p.SpotHandler.UpdateSpot},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
