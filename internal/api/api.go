package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountsHandler "collab-server/internal/accounts/handler"
	collabHandler "collab-server/internal/collaboration/handler"
)

type API struct {
	router          *gin.RouterGroup
	accountsHandler accountsHandler.Handler
	collabHandler   collabHandler.Handler
}

func New(router *gin.RouterGroup, accounts accountsHandler.Handler, collab collabHandler.Handler) API {
	return API{
		router:          router,
		accountsHandler: accounts,
		collabHandler:   collab,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		accountsGroup := apiGroup.Group("/accounts")
		accountsGroup.POST("/register/influencer", a.accountsHandler.HandleRegisterInfluencer)
		accountsGroup.POST("/register/company", a.accountsHandler.HandleRegisterCompany)
		accountsGroup.GET("/pending", a.accountsHandler.HandleListPendingUsers)
		accountsGroup.POST("/:id/approve", a.accountsHandler.HandleApproveUser)
		accountsGroup.POST("/:id/reject", a.accountsHandler.HandleRejectUser)
		accountsGroup.POST("/:id/suspend", a.accountsHandler.HandleSuspendUser)
	}
	{
		requestsGroup := apiGroup.Group("/requests")
		requestsGroup.POST("", a.collabHandler.HandleCreateRequest)
		requestsGroup.GET("", a.collabHandler.HandleListRequests)
		requestsGroup.GET("/:id", a.collabHandler.HandleGetRequest)
		requestsGroup.POST("/:id/status", a.collabHandler.HandleUpdateStatus)
		requestsGroup.POST("/:id/content", a.collabHandler.HandleAddContentDelivery)
		requestsGroup.GET("/:id/content", a.collabHandler.HandleListContentDelivered)
		requestsGroup.POST("/:id/confirm", a.collabHandler.HandleConfirmCompletion)
		requestsGroup.POST("/:id/cancel", a.collabHandler.HandleCancelRequest)
	}
	apiGroup.GET("/campaigns/:id/stats", a.collabHandler.HandleCampaignStats)
	apiGroup.GET("/stats/collaborations", a.collabHandler.HandleCollaborationStats)
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
