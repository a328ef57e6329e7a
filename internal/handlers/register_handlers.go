package handlers

import (
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/finvault/ebank/cmd/docs"
	portssvc "github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/middleware"
	"github.com/finvault/ebank/internal/platform/config"
)

// Teach the binding validator to treat decimal amounts as numbers so the
// required tag rejects absent and zero amounts alike.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service facades.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, services.User)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes sets up the public authentication routes behind a
// per-IP rate limit.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := NewAuthHandler(userService, cfg)

	rate, err := limiter.NewRateFromFormatted(cfg.AuthRateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("5-M")
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/auth", middleware.RateLimit(ipLimiter))
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerAccountRoutes(v1, services.Account, services.History)
	registerTransactionRoutes(v1, services)
	registerAdminRoutes(v1, services)
}

func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := NewUserHandler(userService)

	users := rg.Group("/users")
	users.GET("/me", h.GetMe)
}

func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, historyService portssvc.HistorySvcFacade) {
	h := NewAccountHandler(accountService, historyService)

	accounts := rg.Group("/accounts")
	accounts.GET("/me", h.GetAccount)
	accounts.GET("/balance", h.GetBalance)
	accounts.GET("/summary", h.GetSummary)
	accounts.DELETE("/me", h.DeactivateAccount)
}

func registerTransactionRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewTransactionHandler(services.Funds, services.History, services.Account, services.User)

	transactions := rg.Group("/transactions")
	transactions.POST("/deposit", h.Deposit)
	transactions.POST("/withdraw", h.Withdraw)
	transactions.POST("/transfer", h.Transfer)
	transactions.GET("/history", h.GetHistory)
}

func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewAdminHandler(services.User, services.Account, services.History)

	admin := rg.Group("/admin", middleware.AdminOnly())
	admin.GET("/users", h.ListUsers)
	admin.GET("/accounts", h.ListAccounts)
	admin.GET("/transactions", h.ListTransactions)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
