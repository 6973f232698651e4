package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"collab-server/internal/accounts/processor"
	"collab-server/internal/apierrors"
	"collab-server/internal/observability"
)

type Handler struct {
	processor processor.AccountsProcessor
	logger    *observability.Logger
}

func New(p processor.AccountsProcessor, logger *observability.Logger) Handler {
	return Handler{processor: p, logger: logger}
}

// RegisterInfluencerRequest represents an influencer registration payload
type RegisterInfluencerRequest struct {
	Email              string  `json:"email" binding:"required,email"`
	Password           string  `json:"password" binding:"required,min=10"`
	FullName           string  `json:"full_name" binding:"required"`
	City               string  `json:"city" binding:"required"`
	Phone              *string `json:"phone,omitempty"`
	InstagramHandle    *string `json:"instagram_handle,omitempty"`
	InstagramFollowers int64   `json:"instagram_followers" binding:"gte=0"`
	TikTokHandle       *string `json:"tiktok_handle,omitempty"`
	TikTokFollowers    int64   `json:"tiktok_followers" binding:"gte=0"`
}

// RegisterCompanyRequest represents a company registration payload
type RegisterCompanyRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=10"`
	Name         string  `json:"name" binding:"required"`
	LegalID      string  `json:"legal_id" binding:"required"`
	City         string  `json:"city" binding:"required"`
	Phone        *string `json:"phone,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" binding:"omitempty,email"`
	Plan         string  `json:"plan" binding:"required,oneof=3_months 6_months 12_months"`
}

// HandleRegisterInfluencer registers a pending influencer account.
func (h *Handler) HandleRegisterInfluencer(c *gin.Context) {
	var req RegisterInfluencerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeBadRequest, err.Error()))
		return
	}

	user, influencer, err := h.processor.RegisterInfluencer(c.Request.Context(), processor.RegisterInfluencerParams{
		Email:              req.Email,
		Password:           req.Password,
		FullName:           req.FullName,
		City:               req.City,
		Phone:              req.Phone,
		InstagramHandle:    req.InstagramHandle,
		InstagramFollowers: req.InstagramFollowers,
		TikTokHandle:       req.TikTokHandle,
		TikTokFollowers:    req.TikTokFollowers,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_id":       user.ID,
		"influencer_id": influencer.ID,
		"status":        user.Status,
	})
}

// HandleRegisterCompany registers a pending company account with its
// initial subscription.
func (h *Handler) HandleRegisterCompany(c *gin.Context) {
	var req RegisterCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeBadRequest, err.Error()))
		return
	}

	user, company, err := h.processor.RegisterCompany(c.Request.Context(), processor.RegisterCompanyParams{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		LegalID:      req.LegalID,
		City:         req.City,
		Phone:        req.Phone,
		ContactEmail: req.ContactEmail,
		Plan:         req.Plan,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_id":    user.ID,
		"company_id": company.ID,
		"status":     user.Status,
	})
}

// HandleListPendingUsers lists accounts awaiting moderation.
func (h *Handler) HandleListPendingUsers(c *gin.Context) {
	users, err := h.processor.ListPendingUsers(c.Request.Context())
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// HandleApproveUser approves a pending account.
func (h *Handler) HandleApproveUser(c *gin.Context) {
	h.moderate(c, h.processor.ApproveUser)
}

// HandleRejectUser rejects a pending account.
func (h *Handler) HandleRejectUser(c *gin.Context) {
	h.moderate(c, h.processor.RejectUser)
}

// HandleSuspendUser suspends an account.
func (h *Handler) HandleSuspendUser(c *gin.Context) {
	h.moderate(c, h.processor.SuspendUser)
}

func (h *Handler) moderate(c *gin.Context, action func(ctx context.Context, userID string) error) {
	if err := action(c.Request.Context(), c.Param("id")); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
