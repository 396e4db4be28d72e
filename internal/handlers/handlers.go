package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/commune/backend/internal/content"
	"github.com/emilythestrangee/commune/backend/internal/errs"
)

// Handler combines all handler types
type Handler struct {
	Community *CommunityHandler
	Post      *PostHandler
	Comment   *CommentHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(svc *content.Service) *Handler {
	return &Handler{
		Community: NewCommunityHandler(svc),
		Post:      NewPostHandler(svc),
		Comment:   NewCommentHandler(svc),
	}
}

// viewerID returns the authenticated user's id, or 0 for anonymous requests.
// The auth middleware stores the id as int64.
func viewerID(c *gin.Context) int64 {
	v, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// abortError translates an engine error into the HTTP response.
func abortError(c *gin.Context, err error) {
	c.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
}

// pathID parses a numeric path parameter; on failure it writes the 400 and
// reports false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, 0 when absent or garbage. The
// paging layer clamps, so handlers pass the raw value through.
func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}
