package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"collab-server/internal/apierrors"
	"collab-server/internal/collaboration/processor"
	"collab-server/internal/observability"
	"collab-server/internal/store"
)

type Handler struct {
	processor processor.CollaborationProcessor
	store     store.Store
	logger    *observability.Logger
}

func New(p processor.CollaborationProcessor, st store.Store, logger *observability.Logger) Handler {
	return Handler{
		processor: p,
		store:     st,
		logger:    logger,
	}
}

// ReservationRequest represents reservation details in HTTP request
type ReservationRequest struct {
	Date       time.Time `json:"date" binding:"required"`
	Time       string    `json:"time" binding:"required"`
	Companions int       `json:"companions" binding:"gte=0"`
}

// DeliveryRequest represents delivery details in HTTP request
type DeliveryRequest struct {
	Address       string `json:"address" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	PreferredTime string `json:"preferred_time"`
}

// CreateRequestRequest represents a collaboration request creation payload
type CreateRequestRequest struct {
	CampaignID      string              `json:"campaign_id" binding:"required"`
	InfluencerID    string              `json:"influencer_id" binding:"required"`
	ProposedContent *string             `json:"proposed_content,omitempty"`
	Reservation     *ReservationRequest `json:"reservation,omitempty"`
	Delivery        *DeliveryRequest    `json:"delivery,omitempty"`
}

// UpdateStatusRequest represents a status change payload
type UpdateStatusRequest struct {
	Status     string  `json:"status" binding:"required,oneof=approved rejected completed cancelled"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

// ContentDeliveryRequest represents a delivered content payload
type ContentDeliveryRequest struct {
	PlatformType string `json:"platform_type" binding:"required,oneof=instagram_story tiktok_video"`
	URL          string `json:"url" binding:"required,url"`
}

// NoteRequest carries a free-form note
type NoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// HandleCreateRequest creates a collaboration request.
func (h *Handler) HandleCreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeBadRequest, err.Error()))
		return
	}

	params := processor.CreateRequestParams{
		CampaignID:      req.CampaignID,
		InfluencerID:    req.InfluencerID,
		ProposedContent: req.ProposedContent,
	}
	if req.Reservation != nil {
		params.Reservation = &store.ReservationDetails{
			Date:       req.Reservation.Date,
			Time:       req.Reservation.Time,
			Companions: req.Reservation.Companions,
		}
	}
	if req.Delivery != nil {
		params.Delivery = &store.DeliveryDetails{
			Address:       req.Delivery.Address,
			Phone:         req.Delivery.Phone,
			PreferredTime: req.Delivery.PreferredTime,
		}
	}

	request, err := h.processor.CreateRequest(c.Request.Context(), params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// HandleGetRequest fetches one request by id.
func (h *Handler) HandleGetRequest(c *gin.Context) {
	request, err := h.processor.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// HandleListRequests lists requests filtered by status, campaign or
// influencer query parameters.
func (h *Handler) HandleListRequests(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		requests []store.CollaborationRequest
		err      error
	)
	switch {
	case c.Query("campaign_id") != "":
		requests, err = h.processor.ListRequestsByCampaign(ctx, c.Query("campaign_id"))
	case c.Query("influencer_id") != "":
		requests, err = h.processor.ListRequestsByInfluencer(ctx, c.Query("influencer_id"))
	case c.Query("status") != "":
		requests, err = h.processor.ListRequestsByStatus(ctx, c.Query("status"))
	default:
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeBadRequest, "one of status, campaign_id or influencer_id is required"))
		return
	}
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// HandleUpdateStatus applies a state-machine edge to a request.
func (h *Handler) HandleUpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeBadRequest, err.Error()))
		return
	}

	request, err := h.processor.UpdateRequestStatus(c.Request.Context(), c.Param("id"), req.Status, req.AdminNotes)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// HandleAddContentDelivery records one published content item.
func (h *Handler) HandleAddContentDelivery(c *gin.Context) {
	var req ContentDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeBadRequest, err.Error()))
		return
	}

	content, err := h.processor.AddContentDelivery(c.Request.Context(), processor.AddContentDeliveryParams{
		RequestID:    c.Param("id"),
		PlatformType: req.PlatformType,
		URL:          req.URL,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, content)
}

// HandleListContentDelivered lists a request's delivered content.
func (h *Handler) HandleListContentDelivered(c *gin.Context) {
	items, err := h.store.ListContentDelivered(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": items})
}

// HandleConfirmCompletion records an admin sign-off on a completed request.
func (h *Handler) HandleConfirmCompletion(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeBadRequest, err.Error()))
		return
	}

	request, err := h.processor.ConfirmCompletion(c.Request.Context(), c.Param("id"), req.Note)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// HandleCancelRequest cancels a non-terminal request.
func (h *Handler) HandleCancelRequest(c *gin.Context) {
	var req NoteRequest
	// the reason is optional
	_ = c.ShouldBindJSON(&req)

	request, err := h.processor.CancelRequest(c.Request.Context(), c.Param("id"), req.Note)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// HandleCampaignStats reports the request pipeline of one campaign.
func (h *Handler) HandleCampaignStats(c *gin.Context) {
	stats, err := h.store.GetCampaignStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HandleCollaborationStats reports the global request pipeline.
func (h *Handler) HandleCollaborationStats(c *gin.Context) {
	stats, err := h.store.GetCollaborationStats(c.Request.Context())
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
