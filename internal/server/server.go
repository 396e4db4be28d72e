package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/commune/backend/internal/content"
	"github.com/emilythestrangee/commune/backend/internal/database"
	"github.com/emilythestrangee/commune/backend/internal/handlers"
	"github.com/emilythestrangee/commune/backend/internal/middleware"
	"github.com/emilythestrangee/commune/backend/internal/store"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	// Redis backs the recent-communities cache; without it the tracker
	// falls back to Postgres reads.
	var rdb *redis.Client
	if url := os.Getenv("REDIS_URL"); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		log.Println("✅ Redis cache configured")
	} else {
		log.Println("⚠️  REDIS_URL not set, recent-communities cache disabled")
	}

	svc := content.NewService(store.New(db.GetDB()), rdb)

	newServer := &Server{
		db:      db,
		handler: handlers.NewHandler(svc),
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Public reads carry optional auth so viewer-dependent fields
		// (my_vote, joined) fill in when a token is present.
		public := api.Group("")
		public.Use(middleware.OptionalAuthMiddleware())
		{
			// Community routes
			public.GET("/communities", s.handler.Community.GetCommunities)
			public.GET("/communities/:id", s.handler.Community.GetCommunity)

			// Post routes
			public.GET("/communities/:id/posts", s.handler.Post.GetPosts)
			public.GET("/communities/:id/feed", s.handler.Post.GetFeed)
			public.GET("/posts/:id", s.handler.Post.GetPost)
			public.GET("/posts/:id/versions", s.handler.Post.GetPostVersions)
			public.GET("/posts/:id/versions/:versionId", s.handler.Post.GetPostVersion)

			// Comment routes
			public.GET("/posts/:id/comments", s.handler.Comment.GetComments)
			public.GET("/comments/:commentId/versions", s.handler.Comment.GetCommentVersions)
			public.GET("/comments/:commentId/versions/:versionId", s.handler.Comment.GetCommentVersion)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Community protected routes
			protected.POST("/communities", s.handler.Community.CreateCommunity)
			protected.POST("/communities/:id/membership", s.handler.Community.JoinCommunity)
			protected.DELETE("/communities/:id/membership", s.handler.Community.LeaveCommunity)
			protected.GET("/me/communities/recent", s.handler.Community.GetRecentCommunities)

			// Post protected routes
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)
			protected.POST("/posts/:id/vote", s.handler.Post.VotePost)
			protected.DELETE("/posts/:id/vote", s.handler.Post.UnvotePost)

			// Comment protected routes
			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)
			protected.PUT("/comments/:commentId", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:commentId", s.handler.Comment.DeleteComment)
			protected.POST("/comments/:commentId/vote", s.handler.Comment.VoteComment)
			protected.DELETE("/comments/:commentId/vote", s.handler.Comment.UnvoteComment)
		}
	}

	return r
}
