package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/meridianpress/leadscout/backend/internal/catalog"
	"github.com/meridianpress/leadscout/backend/internal/config"
	"github.com/meridianpress/leadscout/backend/internal/http/handlers"
	"github.com/meridianpress/leadscout/backend/internal/http/middleware"
	"github.com/meridianpress/leadscout/backend/internal/workspace"

	_ "github.com/meridianpress/leadscout/backend/docs"
)

func Router(cfg config.Config, ws *workspace.Workspace, store *catalog.Store, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Workspace: ws,
		Catalog:   store,
		Validator: validator.New(),
		Logger:    logger,
		Timeout:   cfg.RequestTimeout,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/state", h.State)
		api.GET("/books", h.BooksList)
		api.GET("/customers", h.CustomersList)
		api.POST("/analyze", h.Analyze)
		api.POST("/leads/:id/select", h.SelectLead)
		api.POST("/leads/:id/move", h.MoveLead)
		api.POST("/leads/:id/narrative", h.GenerateNarrative)
		api.POST("/chat/open", h.OpenChat)
		api.POST("/chat/close", h.CloseChat)
		api.POST("/chat/messages", h.SendChatMessage)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
