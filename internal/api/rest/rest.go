package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/emberdao/soulforge/internal/api/middleware"
	"github.com/emberdao/soulforge/internal/auth"
	"github.com/emberdao/soulforge/internal/store"
)

// SetupRoutes configures all REST API routes. Reads are public; mutating
// routes require a Bearer token, and the back-office routes additionally
// require the admin role.
func SetupRoutes(router *gin.Engine, handler Handler, tokens *auth.Service, st store.Store) {
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/admin/login", handler.AdminLogin)

		api.POST("/users", handler.RegisterUser)
		api.GET("/users/wallet/:address", handler.GetUserByWallet)
		api.GET("/users/:userId/badges", handler.GetUserBadges)
		api.GET("/users/:userId/flame-log", handler.GetFlameLog)

		api.GET("/nfts/user/:userId", handler.GetUserSoulID)

		api.GET("/badges", handler.ListBadges)
		api.GET("/contribution-categories", handler.ListContributionCategories)

		api.GET("/proposals", handler.ListProposals)
		api.GET("/proposals/:id", handler.GetProposal)

		api.GET("/transfer-requests", handler.ListTransferRequests)
	}

	authed := router.Group("/api", middleware.Auth(tokens, st))
	{
		authed.POST("/nfts", handler.MintSoulID)
		authed.POST("/flame-log", handler.RecordContribution)
		authed.POST("/proposals", handler.CreateProposal)
		authed.POST("/votes", handler.CastVote)
		authed.POST("/transfer-requests", handler.CreateTransferRequest)
	}

	admin := authed.Group("", middleware.RequireAdmin())
	{
		admin.PATCH("/transfer-requests/:id", handler.ReviewTransferRequest)
		admin.POST("/users/:userId/badges", handler.AssignBadge)
		admin.GET("/admin/dashboard", handler.GetDashboard)
		admin.GET("/admin/users", handler.ListUsers)
		admin.POST("/admin/users", handler.CreateUser)
		admin.POST("/admin/promote/:userId", handler.PromoteUser)
	}
}
