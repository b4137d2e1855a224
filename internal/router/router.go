package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backoffice/internal/docs"
	"backoffice/internal/events"
	"backoffice/internal/handlers"
	"backoffice/internal/middleware"
	"backoffice/internal/models"
)

// Deps are the collaborators the route table is built from.
type Deps struct {
	Categories handlers.CategoryStore
	Products   handlers.ProductStore
	Orders     handlers.OrderStore
	Populator  handlers.OrderPopulator
	Users      handlers.UserStore
	Events     events.Publisher
	Ping       func(context.Context) error

	JWTSecret   string
	TokenTTL    time.Duration
	APIPrefix   string
	CORSOrigins []string
	Log         logrus.FieldLogger
}

func New(d Deps) *gin.Engine {
	if d.Events == nil {
		d.Events = events.Noop{}
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(d.Log),
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.CORS(d.CORSOrigins),
	)

	r.GET("/healthz", handlers.Health(d.Ping, d.Log))
	r.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, d.APIPrefix+"/docs/openapi.json")
	})

	authed := middleware.AuthGuard(d.JWTSecret, d.Log)
	admin := middleware.AuthGuard(d.JWTSecret, d.Log, models.RoleAdmin)

	api := r.Group(d.APIPrefix)
	api.GET("/", handlers.Home())
	api.GET("/docs/openapi.json", docs.JSON(d.APIPrefix))
	api.GET("/docs/openapi.yaml", docs.YAML(d.APIPrefix))

	categories := api.Group("/categories")
	{
		categories.GET("", handlers.ListCategories(d.Categories, d.Log))
		categories.GET("/:id", handlers.GetCategory(d.Categories, d.Log))
		categories.POST("", admin, middleware.BindJSON[handlers.CategoryRequest](), handlers.CreateCategory(d.Categories, d.Log))
		categories.PUT("/:id", admin, middleware.BindJSON[handlers.CategoryRequest](), handlers.UpdateCategory(d.Categories, d.Log))
		categories.DELETE("/:id", admin, handlers.DeleteCategory(d.Categories, d.Log))
	}

	products := api.Group("/products")
	{
		products.GET("", handlers.ListProducts(d.Products, d.Log))
		products.GET("/:id", handlers.GetProduct(d.Products, d.Log))
		products.POST("", admin, middleware.BindJSON[handlers.ProductRequest](), handlers.CreateProduct(d.Products, d.Log))
		products.PUT("/:id", admin, middleware.BindJSON[handlers.ProductRequest](), handlers.UpdateProduct(d.Products, d.Log))
		products.DELETE("/:id", admin, handlers.DeleteProduct(d.Products, d.Log))
	}

	orderDeps := handlers.OrderDeps{Store: d.Orders, Populator: d.Populator, Events: d.Events, Log: d.Log}
	orders := api.Group("/orders")
	{
		orders.GET("", handlers.ListOrders(orderDeps))
		orders.GET("/:id", handlers.GetOrder(orderDeps))
		orders.POST("", authed, middleware.BindJSON[handlers.OrderRequest](), handlers.CreateOrder(orderDeps))
		orders.PUT("/:id", admin, middleware.BindJSON[handlers.OrderUpdateRequest](), handlers.UpdateOrder(orderDeps))
		orders.POST("/:id/cancel", authed, handlers.CancelOrder(orderDeps))
		orders.DELETE("/:id", admin, handlers.DeleteOrder(orderDeps))
	}

	userDeps := handlers.UserDeps{Store: d.Users, JWTSecret: d.JWTSecret, TokenTTL: d.TokenTTL, Log: d.Log}
	users := api.Group("/users")
	{
		users.POST("/register", middleware.BindJSON[handlers.RegisterRequest](), handlers.Register(userDeps))
		users.POST("/login", middleware.BindJSON[handlers.LoginRequest](), handlers.Login(userDeps))
		users.GET("", admin, handlers.ListUsers(userDeps))
		users.GET("/:id", admin, handlers.GetUser(userDeps))
		users.PUT("/:id", admin, middleware.BindJSON[handlers.UserUpdateRequest](), handlers.UpdateUser(userDeps))
		users.DELETE("/:id", admin, handlers.DeleteUser(userDeps))
	}

	return r
}
