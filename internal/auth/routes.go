package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers auth routes. Public endpoints live under /auth;
// the identity endpoints require a valid access token.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, service *Service) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)

		protected := authGroup.Group("")
		protected.Use(RequireAuth(service))
		{
			protected.GET("/me", handler.Me)
			protected.POST("/change-password", handler.ChangePassword)
		}
	}
}
