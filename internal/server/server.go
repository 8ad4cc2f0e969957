package server

import (
	"log"
	"strings"
	"time"

	"bookhaven.id/bookreview/internal/config"
	"bookhaven.id/bookreview/internal/middleware"
	"bookhaven.id/bookreview/pkg/auth"
	"bookhaven.id/bookreview/pkg/storage"

	adminHttp "bookhaven.id/bookreview/internal/modules/admin/delivery/http"
	adminService "bookhaven.id/bookreview/internal/modules/admin/service"

	bookHttp "bookhaven.id/bookreview/internal/modules/book/delivery/http"
	bookRepo "bookhaven.id/bookreview/internal/modules/book/repository"
	bookService "bookhaven.id/bookreview/internal/modules/book/service"

	commentHttp "bookhaven.id/bookreview/internal/modules/comment/delivery/http"
	commentRepo "bookhaven.id/bookreview/internal/modules/comment/repository"
	commentService "bookhaven.id/bookreview/internal/modules/comment/service"

	imageHttp "bookhaven.id/bookreview/internal/modules/image/delivery/http"
	imageRepo "bookhaven.id/bookreview/internal/modules/image/repository"
	imageService "bookhaven.id/bookreview/internal/modules/image/service"

	notifHttp "bookhaven.id/bookreview/internal/modules/notification/delivery/http"
	notifRepo "bookhaven.id/bookreview/internal/modules/notification/repository"
	notifService "bookhaven.id/bookreview/internal/modules/notification/service"

	reviewHttp "bookhaven.id/bookreview/internal/modules/review/delivery/http"
	reviewRepo "bookhaven.id/bookreview/internal/modules/review/repository"
	reviewService "bookhaven.id/bookreview/internal/modules/review/service"

	searchService "bookhaven.id/bookreview/internal/modules/search/service"

	userHttp "bookhaven.id/bookreview/internal/modules/user/delivery/http"
	userRepo "bookhaven.id/bookreview/internal/modules/user/repository"
	userService "bookhaven.id/bookreview/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		// Review images become unavailable but the rest of the API works.
		log.Printf("cloudinary storage disabled: %v", err)
		imageStorage = nil
	}

	var bookSearch searchService.BookSearchService
	if cfg.MeiliMasterKey != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		bookSearch = searchService.NewBookSearchService(meiliClient)
	}

	users := userRepo.NewUserRepository(db)
	books := bookRepo.NewBookRepository(db)
	reviews := reviewRepo.NewReviewRepository(db)
	comments := commentRepo.NewCommentRepository(db)
	images := imageRepo.NewImageRepository(db)
	notifications := notifRepo.NewNotificationRepository(db)

	authSvc := userService.NewAuthService(users, tokens)
	authHandler := userHttp.NewAuthHandler(authSvc)

	adminSvc := adminService.NewAdminService(users)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	notificationSvc := notifService.NewNotificationService(notifications, redisClient)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, redisClient)

	bookSvc := bookService.NewBookService(books, reviews, comments, images, imageStorage, bookSearch)
	bookHandler := bookHttp.NewBookHandler(bookSvc)

	reviewSvc := reviewService.NewReviewService(reviews, books, imageStorage)
	reviewHandler := reviewHttp.NewReviewHandler(reviewSvc)

	commentSvc := commentService.NewCommentService(comments, reviews, notificationSvc)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	imageSvc := imageService.NewImageService(images, reviews, imageStorage)
	imageHandler := imageHttp.NewImageHandler(imageSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/books", bookHandler.ListBooks)
	api.GET("/books/:id", bookHandler.GetBookDetail)
	api.GET("/reviews/:id/comments", commentHandler.GetCommentsByReview)
	api.GET("/reviews/:id/images", imageHandler.GetImagesByReview)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/books", bookHandler.CreateBook)
			adminGroup.PUT("/books/:id", bookHandler.UpdateBook)
			adminGroup.DELETE("/books/:id", bookHandler.DeleteBook)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.GET("/users/count", adminHandler.CountUsers)
			adminGroup.GET("/reviews/count", reviewHandler.CountReviews)
		}

		// Profile routes
		protected.GET("/profile", authHandler.GetProfile)
		protected.PUT("/profile", authHandler.UpdateProfile)

		// Review routes
		protected.POST("/books/:id/reviews", reviewHandler.CreateReview)
		protected.PUT("/reviews/:id", reviewHandler.UpdateReview)
		protected.DELETE("/reviews/:id", reviewHandler.DeleteReview)

		// Comment routes
		protected.POST("/reviews/:id/comments", commentHandler.CreateComment)
		protected.DELETE("/comments/:id", commentHandler.DeleteComment)

		// Image routes
		protected.POST("/reviews/:id/images", imageHandler.UploadImage)
		protected.DELETE("/images/:id", imageHandler.DeleteImage)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
