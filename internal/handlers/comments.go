package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/commune/backend/internal/content"
	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/ranking"
)

type CommentHandler struct {
	svc *content.Service
}

func NewCommentHandler(svc *content.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// GetComments lists a post's comments, ?sort=newest|top, offset paged.
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	mode := ranking.ParseMode(c.Query("sort"))
	comments, info, err := h.svc.ListComments(c.Request.Context(), viewerID(c), postID,
		mode, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   comments,
		"pagination": info,
	})
}

// CreateComment adds a comment to a post (PROTECTED). A parent_comment_id
// makes it a reply; the parent must sit on the same post.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), viewerID(c), postID, input)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// UpdateComment edits a comment's body (PROTECTED - requires ownership). The
// previous body is snapshotted before the overwrite.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var input struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.UpdateComment(c.Request.Context(), viewerID(c), commentID, input.Body)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment soft-deletes a comment (PROTECTED - requires ownership)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), viewerID(c), commentID); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// VoteComment sets the caller's vote on a comment: 1, -1, or 0 to clear.
func (h *CommentHandler) VoteComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
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

	result, err := h.svc.SetVote(c.Request.Context(), viewerID(c), commentID, models.TargetComment, input.State)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UnvoteComment clears the caller's vote on a comment.
func (h *CommentHandler) UnvoteComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	result, err := h.svc.ClearVote(c.Request.Context(), viewerID(c), commentID, models.TargetComment)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCommentVersions lists a comment's edit history, newest snapshot first.
func (h *CommentHandler) GetCommentVersions(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	versions, info, err := h.svc.ListCommentVersions(c.Request.Context(), commentID,
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

// GetCommentVersion fetches one snapshot; the id must belong to this comment.
func (h *CommentHandler) GetCommentVersion(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	versionID, ok := pathID(c, "versionId")
	if !ok {
		return
	}

	version, err := h.svc.GetCommentVersion(c.Request.Context(), commentID, versionID)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, version)
}
