package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ragavi522/knee-prime-assessment/internal/auth"
	"github.com/ragavi522/knee-prime-assessment/internal/auth/handler"
	"github.com/ragavi522/knee-prime-assessment/internal/config"
	"github.com/ragavi522/knee-prime-assessment/internal/guard"
	"github.com/ragavi522/knee-prime-assessment/internal/middleware"
	"github.com/ragavi522/knee-prime-assessment/internal/otp"
	"github.com/ragavi522/knee-prime-assessment/internal/profile"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	resolver := profile.NewDBResolver(infra.DB)

	var gateway otp.Gateway
	if cfg.OTPBypass {
		gateway = otp.NewBypassGateway()
	} else {
		gateway, err = otp.NewHTTPGateway(cfg.OTPGatewayURL, cfg.OTPGatewayToken)
		if err != nil {
			return nil, nil, err
		}
	}

	sessionStore := auth.NewStore(
		gateway,
		resolver,
		infra.Persistence,
		cfg.OTPBypass,
	)

	routes := guard.DefaultRoutes()
	routeGuard := middleware.NewGuard(sessionStore, routes)
	authHandler := handler.NewHandler(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.BypassIndicator(cfg.OTPBypass))

	// ----------------------------
	// Auth API
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(sessionStore))

	api.GET("/me", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"user_id": c.GetString("userID"),
			"role":    c.GetString("role"),
		})
	})

	// ----------------------------
	// Portal Pages
	// ----------------------------
	// Every page route goes through the guard; the pages themselves are
	// the SPA entry point, content branching happens client-side.

	pages := router.Group("/")
	pages.Use(routeGuard.Handle())

	for _, path := range append(routes.Protected, routes.Public...) {
		pages.GET(path, servePage)
	}

	router.Static("/assets", "./web/assets")

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}

func servePage(c *gin.Context) {
	c.File("./web/index.html")
}
