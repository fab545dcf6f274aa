package routes

import (
	"net/http"
	"time"

	_ "github.com/NMHx2005/lms-backend-sub006/docs"
	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/handlers"
	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/middleware"
	"github.com/NMHx2005/lms-backend-sub006/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Checkout     *handlers.CheckoutHandler
	VNPay        *handlers.VNPayHandler
	Payment      *handlers.PaymentHandler
	AdminPayment *handlers.AdminPaymentHandler
}

// NewRouter builds the gin engine with middlewares, swagger and the /v1 API.
func NewRouter(cfg config.Config, h Handlers, log *zap.Logger) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	setMiddlewares(router, cfg, log)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, middleware.JWTAuth(cfg.JWTSecret), h)
	return router
}

// NewServer wraps router in an http.Server bound to the configured port.
func NewServer(cfg config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func setMiddlewares(router *gin.Engine, cfg config.Config, log *zap.Logger) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("[http] recovered from panic", zap.Any("panic", recovered), zap.String("path", c.FullPath()))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	if len(cfg.CORSOrigins) == 0 {
		return
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
