// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"igen/internal/config"
	"igen/internal/handlers"
	"igen/internal/middleware"
	"igen/internal/models"
	"igen/internal/services"
	"igen/internal/validator"

	_ "igen/internal/docs" // swagger docs
)

// NewRouter builds the API router on top of db.
func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	validator.Register()

	// Services
	userService := services.NewUserService(db)
	bankAccountService := services.NewBankAccountService(db)
	referenceService := services.NewReferenceService(db)
	uploadService := services.NewUploadService(db)
	bankTransactionService := services.NewBankTransactionService(db)
	classificationService := services.NewClassificationService(db)
	reportService := services.NewReportService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	bankAccountHandler := handlers.NewBankAccountHandler(bankAccountService, auditService)
	referenceHandler := handlers.NewReferenceHandler(referenceService, auditService)
	uploadHandler := handlers.NewUploadHandler(uploadService, auditService, cfg.MaxUploadBytes)
	bankTransactionHandler := handlers.NewBankTransactionHandler(bankTransactionService, auditService)
	classificationHandler := handlers.NewClassificationHandler(classificationService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Ingestion pipeline, authenticated by shared key
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/bank-uploads/upload", uploadHandler.PipelineUpload)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	superOnly := middleware.RequireRole(models.RoleSuperUser)

	users := protected.Group("/users", superOnly)
	users.POST("", userHandler.CreateUser)
	users.DELETE("/:id", userHandler.DeleteUser)

	companies := protected.Group("/companies")
	companies.GET("", referenceHandler.ListCompanies)
	companies.POST("", superOnly, referenceHandler.CreateCompany)

	bankAccounts := protected.Group("/bank-accounts")
	bankAccounts.POST("", superOnly, bankAccountHandler.CreateBankAccount)
	bankAccounts.GET("", bankAccountHandler.ListBankAccounts)
	bankAccounts.GET("/:id", bankAccountHandler.GetBankAccount)

	reference := protected.Group("/reference")
	reference.GET("/:kind", referenceHandler.List)
	reference.POST("/:kind", superOnly, referenceHandler.Create)

	uploads := protected.Group("/bank-uploads")
	uploads.POST("/upload", uploadHandler.Upload)
	uploads.GET("/batch-transactions", uploadHandler.GetBatchTransactions)
	uploads.GET("/recent-uploads", uploadHandler.GetRecentUploads)

	bankTransactions := protected.Group("/bank-transactions")
	bankTransactions.GET("", bankTransactionHandler.ListBankTransactions)
	bankTransactions.DELETE("/:id", bankTransactionHandler.DeleteBankTransaction)
	bankTransactions.POST("/:id/restore", bankTransactionHandler.RestoreBankTransaction)

	classify := protected.Group("/tx-classify")
	classify.GET("/unclassified", classificationHandler.ListLedger)
	classify.GET("/history/:bank_transaction_id", classificationHandler.History)
	classify.POST("/classify", classificationHandler.Classify)
	classify.POST("/split", classificationHandler.Split)
	classify.POST("/resplit", classificationHandler.Resplit)
	classify.POST("/reclassify", classificationHandler.Reclassify)

	reports := protected.Group("/reports")
	reports.GET("/entity-report", reportHandler.EntityReport)
	reports.GET("/entity-report/summary", reportHandler.Summary)
	reports.GET("/entity-report/export", reportHandler.Export)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", middleware.APIKeyHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
