package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/events"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	DBPool            *pgxpool.Pool
	Logger            *zap.Logger
	Publisher         events.Publisher
	OwnerWithoutItems booking.OwnerWithoutItems
	// GatewayTokens is nil when gateway tokens are not enforced.
	GatewayTokens *auth.JWTManager
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, cfg.Logger.Named("user"))

	// Booking Module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, userService, itemCatalog{repo: itemRepo},
		booking.WithPublisher(cfg.Publisher),
		booking.WithLogger(cfg.Logger.Named("booking")),
		booking.WithOwnerWithoutItems(cfg.OwnerWithoutItems),
	)

	// Item Module
	reqRepo := itemrequest.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService, reqRepo, bookingService, cfg.Logger.Named("item"))

	// Item Request Module
	reqService := itemrequest.NewService(reqRepo, userService, itemService, cfg.Logger.Named("itemrequest"))

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             cfg.Logger.Named("http"),
		UserService:        userService,
		ItemService:        itemService,
		ItemRequestService: reqService,
		BookingService:     bookingService,
		GatewayTokens:      cfg.GatewayTokens,
	})

	return &Container{Router: router}
}
