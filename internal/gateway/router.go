package gateway

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// DefaultWindowSize is applied to list windows the caller left unbounded.
const DefaultWindowSize = 10

type validatable interface {
	Validate() error
}

// jsonBody rejects requests whose JSON body does not bind into T.
// The body is kept in the context so the forwarder can replay it.
func jsonBody[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body T
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			response.BadRequest(c, "invalid request body", err)
			c.Abort()
			return
		}
		if v, ok := any(&body).(validatable); ok {
			if err := v.Validate(); err != nil {
				response.BadRequest(c, err.Error(), nil)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

func query[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q T
		if err := c.ShouldBindQuery(&q); err != nil {
			response.BadRequest(c, "invalid query parameters", err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func pathID() gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri request.ByIDRequest
		if err := c.ShouldBindUri(&uri); err != nil {
			response.BadRequest(c, "invalid id", err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// window validates from/size and fills in the default size.
func window() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q WindowQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			response.BadRequest(c, "invalid query parameters", err)
			c.Abort()
			return
		}
		if c.Query("size") == "" {
			values := c.Request.URL.Query()
			values.Set("size", strconv.Itoa(DefaultWindowSize))
			c.Request.URL.RawQuery = values.Encode()
		}
		c.Next()
	}
}

func bookingState() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := booking.ParseState(c.Query("state")); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RouterConfig holds the gateway router dependencies.
type RouterConfig struct {
	IsProduction bool
	Logger       *zap.Logger
	Forwarder    *Forwarder
}

// NewRouter mirrors the server's public routes, validating each request before forwarding it.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(api.RequestID(), api.Logger(cfg.Logger), api.Recovery(cfg.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	fwd := cfg.Forwarder.Forward
	user := auth.UserRequired()

	users := r.Group("/users")
	{
		users.POST("", jsonBody[CreateUserBody](), fwd)
		users.GET("", query[ListUsersQuery](), fwd)
		users.GET("/:id", pathID(), fwd)
		users.PATCH("/:id", pathID(), jsonBody[UpdateUserBody](), fwd)
		users.DELETE("/:id", pathID(), fwd)
	}

	items := r.Group("/items", user)
	{
		items.POST("", jsonBody[CreateItemBody](), fwd)
		items.GET("", fwd)
		items.GET("/search", query[SearchQuery](), fwd)
		items.GET("/:id", pathID(), fwd)
		items.PATCH("/:id", pathID(), jsonBody[UpdateItemBody](), fwd)
		items.DELETE("/:id", pathID(), fwd)
		items.POST("/:id/comment", pathID(), jsonBody[CommentBody](), fwd)
	}

	requests := r.Group("/requests", user)
	{
		requests.POST("", jsonBody[CreateItemRequestBody](), fwd)
		requests.GET("", fwd)
		requests.GET("/all", window(), fwd)
		requests.GET("/:id", pathID(), fwd)
	}

	bookings := r.Group("/bookings", user)
	{
		bookings.POST("", jsonBody[CreateBookingBody](), fwd)
		bookings.GET("", bookingState(), window(), fwd)
		bookings.GET("/owner", bookingState(), window(), fwd)
		bookings.GET("/:id", pathID(), fwd)
		bookings.PATCH("/:id", pathID(), query[DecideQuery](), fwd)
	}

	return r
}
