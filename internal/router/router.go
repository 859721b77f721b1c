package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lexxo/lexxo-backend/config"
	"github.com/lexxo/lexxo-backend/internal/app/controller"
	"github.com/lexxo/lexxo-backend/internal/middleware"
)

type Router struct {
	authController *controller.AuthController
	blogController *controller.BlogController
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	blogController *controller.BlogController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController: authController,
		blogController: blogController,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"success": true,
			"message": "API is running successfully",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/verify-email", r.authController.VerifyEmail)
			auth.POST("/resend-verification", r.authController.ResendVerification)
			auth.POST("/login", r.authController.Login)
			auth.GET("/logout", r.authController.Logout)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/profile", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/update-password", r.authMiddleware.Authenticate(), r.authController.UpdatePassword)
		}

		blog := v1.Group("/blog")
		{
			// Public listing; an optional session lets admins filter drafts
			blog.GET("", r.authMiddleware.OptionalAuthenticate(), r.blogController.List)

			blog.POST("", r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"), r.blogController.Create)

			// Static /admin routes take priority over the /:id parameter
			admin := blog.Group("/admin", r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
			{
				admin.GET("/blogs", r.blogController.ListAdminBlogs)
				admin.GET("/stats", r.blogController.Stats)
			}

			blog.GET("/:id", r.authMiddleware.Authenticate(), r.blogController.GetByID)
			blog.PUT("/:id", r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"), r.blogController.Update)
			blog.DELETE("/:id", r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"), r.blogController.Delete)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
