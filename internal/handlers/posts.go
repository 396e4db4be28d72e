package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/commune/backend/internal/content"
	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/ranking"
)

type PostHandler struct {
	svc *content.Service
}

func NewPostHandler(svc *content.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

// GetPosts lists a community's posts. Supports ?sort=newest|top, ?q= for a
// text filter, and ?page=&limit= offset pagination.
func (h *PostHandler) GetPosts(c *gin.Context) {
	communityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	mode := ranking.ParseMode(c.Query("sort"))
	posts, info, err := h.svc.ListPosts(c.Request.Context(), viewerID(c), communityID,
		c.Query("q"), mode, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"pagination": info,
	})
}

// GetFeed is the cursor-paged newest feed for infinite scrolling. Pass the
// returned next_cursor back as ?cursor= to continue.
func (h *PostHandler) GetFeed(c *gin.Context) {
	communityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	posts, next, err := h.svc.ListPostsCursor(c.Request.Context(), viewerID(c), communityID,
		c.Query("q"), c.Query("cursor"), queryInt(c, "limit"))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       posts,
		"next_cursor": next,
	})
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.svc.GetPost(c.Request.Context(), viewerID(c), postID)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), viewerID(c), input)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost updates an existing post (PROTECTED - requires ownership). The
// previous title and body are snapshotted before the overwrite.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.svc.UpdatePost(c.Request.Context(), viewerID(c), postID, input.Title, input.Body)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost soft-deletes a post (PROTECTED - requires ownership)
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePost(c.Request.Context(), viewerID(c), postID); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// VotePost sets the caller's vote on a post: 1, -1, or 0 to clear.
func (h *PostHandler) VotePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input struct {
		State int8 `json:"state"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote state must be -1, 0 or 1"})
		return
	}

	result, err := h.svc.SetVote(c.Request.Context(), viewerID(c), postID, models.TargetPost, input.State)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UnvotePost clears the caller's vote; clearing twice is fine.
func (h *PostHandler) UnvotePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.ClearVote(c.Request.Context(), viewerID(c), postID, models.TargetPost)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPostVersions lists a post's edit history, newest snapshot first.
func (h *PostHandler) GetPostVersions(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	versions, info, err := h.svc.ListPostVersions(c.Request.Context(), postID,
		queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"versions":   versions,
		"pagination": info,
	})
}

// GetPostVersion fetches one snapshot; the id must belong to this post.
func (h *PostHandler) GetPostVersion(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	versionID, ok := pathID(c, "versionId")
	if !ok {
		return
	}

	version, err := h.svc.GetPostVersion(c.Request.Context(), postID, versionID)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, version)
}
