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
	reqdto "parking-reservation/internal/handler/dto/request"
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
	ReservationHandler *api.ReservationHandler
	WaitlistHandler    *api.WaitlistHandler
	CouponHandler      *api.CouponHandler
	PaymentHandler     *api.PaymentHandler
	AuthMiddleware     *middleware.AuthMiddleware
	Logger             *slog.Logger
}

func NewRouter(p RouterParams) error {
	if err := reqdto.RegisterValidations(); err != nil {
		return err
	}
	setupMiddleware(p.Engine, p.Config, p.Logger)
	setupRoutes(p)
	return nil
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
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(p.AuthMiddleware.RequireAuth())
	{
		rh := p.ReservationHandler
		addRoutes(apiGroup.Group("/reservations"), []route{
			{Method: http.MethodPost, Path: "", Handler: rh.Create},
			{Method: http.MethodGet, Path: "", Handler: rh.ListMine},
			{Method: http.MethodGet, Path: "/:id", Handler: rh.Get},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: rh.Cancel},
			{Method: http.MethodPost, Path: "/:id/complete", Handler: rh.Complete},
		})
		addRoutes(apiGroup.Group("/resources"), []route{
			{Method: http.MethodGet, Path: "/:id/reservations", Handler: rh.ListForResource, Mw: []gin.HandlerFunc{p.AuthMiddleware.RequireRoleAtLeast(user.RoleOwner)}},
		})

		wh := p.WaitlistHandler
		addRoutes(apiGroup.Group("/waitlist"), []route{
			{Method: http.MethodPost, Path: "", Handler: wh.Join},
			{Method: http.MethodDelete, Path: "", Handler: wh.Leave},
			{Method: http.MethodGet, Path: "/me", Handler: wh.Mine},
		})

		ch := p.CouponHandler
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/promotions/:id/coupons", Handler: ch.Issue},
			{Method: http.MethodGet, Path: "/coupons/me", Handler: ch.Mine},
		})

		payments := apiGroup.Group("/payments/reservations")
		payments.Use(p.AuthMiddleware.RequireRoleAtLeast(user.RoleOperator))
		addRoutes(payments, []route{
			{Method: http.MethodPost, Path: "/:id/confirm", Handler: p.PaymentHandler.Confirm},
			{Method: http.MethodPost, Path: "/:id/fail", Handler: p.PaymentHandler.Fail},
		})
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
