package routes

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"resto-pos/handlers"
	"resto-pos/middleware"
	"resto-pos/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var fieldNamesOnce sync.Once

// useJSONFieldNames makes binding errors name fields the way clients send them
func useJSONFieldNames() {
	fieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// NewEngine builds the POS API with default middleware (logger + recovery)
func NewEngine(db *gorm.DB, secret []byte) *gin.Engine {
	useJSONFieldNames()
	r := gin.Default()
	r.Use(middleware.CORS(), middleware.RequestID())

	h := handlers.New(db, secret)
	r.GET("/health", h.Health)
	SetupRoutes(r, h)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/login", h.Login)
		// Guest table board
		public.GET("/tables", h.ListTables)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(h.DB, h.Secret))
	{
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)

		auth.GET("/tables/:id", h.GetTable)
		auth.PUT("/tables/:id/status", h.UpdateTableStatus)

		auth.GET("/foods", h.ListFoods)
		auth.GET("/foods/:id", h.GetFood)

		auth.GET("/orders", h.ListOrders)
		auth.GET("/orders/:id", h.GetOrder)
		auth.POST("/orders/draft", h.CreateDraft)
		auth.POST("/orders/:id/items", h.AddItem)
		auth.PUT("/orders/:id/items/:itemId", h.UpdateItem)
		auth.DELETE("/orders/:id/items/:itemId", h.RemoveItem)
		auth.DELETE("/orders/:id", h.DeleteOrder)
		auth.PUT("/orders/:id/activate", h.ActivateOrder)
		auth.PUT("/orders/:id/close", h.CloseOrder)
		auth.GET("/orders/:id/receipt", h.Receipt)
	}

	// ── Cashier routes ─────────────────────────────────────────────
	cashier := r.Group("/api")
	cashier.Use(middleware.AuthRequired(h.DB, h.Secret), middleware.RoleRequired(models.RoleCashier))
	{
		cashier.POST("/foods", h.CreateFood)
		cashier.PUT("/foods/:id", h.UpdateFood)
		cashier.DELETE("/foods/:id", h.DeleteFood)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})
}
