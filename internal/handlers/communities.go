package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/commune/backend/internal/content"
	"github.com/emilythestrangee/commune/backend/internal/models"
)

type CommunityHandler struct {
	svc *content.Service
}

func NewCommunityHandler(svc *content.Service) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

// GetCommunities searches communities by name; ?q= ranks exact matches over
// prefix over substring. Without a query it lists newest first.
func (h *CommunityHandler) GetCommunities(c *gin.Context) {
	communities, info, err := h.svc.SearchCommunities(c.Request.Context(), viewerID(c),
		c.Query("q"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"communities": communities,
		"pagination":  info,
	})
}

// GetCommunity returns a single community by ID
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	communityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	community, err := h.svc.GetCommunity(c.Request.Context(), viewerID(c), communityID)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, community)
}

// CreateCommunity creates a new community (PROTECTED - requires authentication)
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	var input models.CreateCommunityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	community, err := h.svc.CreateCommunity(c.Request.Context(), viewerID(c), input)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, community)
}

// JoinCommunity adds the caller as a member (PROTECTED). Joining twice is a
// no-op that still reports the current member count.
func (h *CommunityHandler) JoinCommunity(c *gin.Context) {
	communityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.SetMembership(c.Request.Context(), viewerID(c), communityID, true)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// LeaveCommunity removes the caller's membership (PROTECTED), idempotently.
func (h *CommunityHandler) LeaveCommunity(c *gin.Context) {
	communityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.SetMembership(c.Request.Context(), viewerID(c), communityID, false)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecentCommunities returns the caller's five most recently active
// communities, most recent first (PROTECTED).
func (h *CommunityHandler) GetRecentCommunities(c *gin.Context) {
	communities, err := h.svc.ListRecentCommunities(c.Request.Context(), viewerID(c))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"communities": communities})
}
