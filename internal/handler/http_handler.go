package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	pkglog "github.com/ensonsoo00/twitter-redis/pkg/log"
	"github.com/ensonsoo00/twitter-redis/pkg/response"

	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/timeline"
)

// Handler exposes the timeline service over HTTP.
type Handler struct {
	svc timeline.Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(svc timeline.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all routes onto the Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/posts", h.CreatePost)
		api.POST("/posts/batch", h.CreatePostBatch)
		api.GET("/users", h.ListUsers)

		users := api.Group("/users")
		{
			users.GET("/:user_id/timeline", h.GetTimeline)
			users.GET("/:user_id/followers", h.ListFollowers)
			users.GET("/:user_id/followees", h.ListFollowees)
		}
	}
}

// createPostRequest is the request body for POST /api/v1/posts.
type createPostRequest struct {
	AuthorID int64  `json:"author_id" binding:"required"`
	Text     string `json:"text"`
}

// postView is the JSON shape of one timeline entry.
type postView struct {
	ID        int64  `json:"id"`
	AuthorID  int64  `json:"author_id"`
	CreatedAt string `json:"created_at"`
	Text      string `json:"text"`
}

func toView(p domain.Post) postView {
	return postView{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt.Format(domain.TimestampLayout),
		Text:      p.Text,
	}
}

// CreatePost handles POST /api/v1/posts.
func (h *Handler) CreatePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.svc.Post(ctx, req.AuthorID, req.Text); err != nil {
		l.Error().Err(err).Int64(pkglog.FieldUserID, req.AuthorID).Msg("post failed")
		response.InternalError(c, "failed to create post")
		return
	}

	response.Created(c, gin.H{"message": "posted"})
}

// createPostBatchRequest is the request body for POST /api/v1/posts/batch.
type createPostBatchRequest struct {
	Posts []createPostRequest `json:"posts" binding:"required"`
}

// CreatePostBatch handles POST /api/v1/posts/batch.
func (h *Handler) CreatePostBatch(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req createPostBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	drafts := make([]domain.Post, 0, len(req.Posts))
	for _, p := range req.Posts {
		drafts = append(drafts, domain.NewDraft(p.AuthorID, p.Text))
	}

	if err := h.svc.PostBatch(ctx, drafts); err != nil {
		l.Error().Err(err).Int("batch_size", len(drafts)).Msg("post batch failed")
		response.InternalError(c, "failed to create posts")
		return
	}

	response.Created(c, gin.H{"message": "posted", "count": len(drafts)})
}

// GetTimeline handles GET /api/v1/users/:user_id/timeline.
func (h *Handler) GetTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	posts, err := h.svc.Timeline(ctx, userID)
	if err != nil {
		l.Error().Err(err).Int64(pkglog.FieldUserID, userID).Msg("timeline failed")
		response.InternalError(c, "failed to get timeline")
		return
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toView(p))
	}
	response.Success(c, gin.H{"posts": views})
}

// ListUsers handles GET /api/v1/users.
func (h *Handler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	users, err := h.svc.Users(ctx)
	if err != nil {
		l.Error().Err(err).Msg("list users failed")
		response.InternalError(c, "failed to list users")
		return
	}
	response.Success(c, gin.H{"users": users})
}

// ListFollowers handles GET /api/v1/users/:user_id/followers.
func (h *Handler) ListFollowers(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	followers, err := h.svc.Followers(ctx, userID)
	if err != nil {
		l.Error().Err(err).Int64(pkglog.FieldUserID, userID).Msg("list followers failed")
		response.InternalError(c, "failed to list followers")
		return
	}
	response.Success(c, gin.H{"followers": followers})
}

// ListFollowees handles GET /api/v1/users/:user_id/followees.
func (h *Handler) ListFollowees(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	followees, err := h.svc.Followees(ctx, userID)
	if err != nil {
		l.Error().Err(err).Int64(pkglog.FieldUserID, userID).Msg("list followees failed")
		response.InternalError(c, "failed to list followees")
		return
	}
	response.Success(c, gin.H{"followees": followees})
}

func userIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("user_id")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.BadRequest(c, "user_id must be an integer")
		return 0, false
	}
	return userID, true
}
