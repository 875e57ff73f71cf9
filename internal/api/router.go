package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	itemRequestHttp "github.com/nekogravitycat/shareit-backend/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Config holds everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger

	UserService        user.Service
	ItemService        item.Service
	ItemRequestService itemrequest.Service
	BookingService     booking.Service

	// GatewayTokens is nil when the server accepts direct calls.
	GatewayTokens *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles the middleware (request id, logging, recovery, CORS, gateway trust) and registers routes for every module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID(), Logger(cfg.Logger), Recovery(cfg.Logger))

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:8081"}
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", auth.UserIDHeader, RequestIDHeader}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes := r.Group("")
	if cfg.GatewayTokens != nil {
		routes.Use(auth.GatewayRequired(cfg.GatewayTokens))
	}

	// userMiddleware: resolves the acting user from the X-Sharer-User-Id header.
	userMiddleware := auth.UserRequired()

	userHttp.RegisterRoutes(routes, userHttp.NewHandler(cfg.UserService))
	itemHttp.RegisterRoutes(routes, itemHttp.NewHandler(cfg.ItemService), userMiddleware)
	itemRequestHttp.RegisterRoutes(routes, itemRequestHttp.NewHandler(cfg.ItemRequestService), userMiddleware)
	bookingHttp.RegisterRoutes(routes, bookingHttp.NewHandler(cfg.BookingService), userMiddleware)

	return r
}
