package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"notekeeper/config"
	"notekeeper/handler"
	"notekeeper/middleware"
	"notekeeper/model"
	"notekeeper/repository"
	"notekeeper/services"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"PORT",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	registerValidations()

	if os.Getenv("GO_ENV") != "test" {
		dbConfig := config.LoadDatabaseConfig()
		utils.InitMongoClient(utils.MongoClientOptions{
			URI:             dbConfig.URI,
			MaxPoolSize:     dbConfig.MaxPoolSize,
			MinPoolSize:     dbConfig.MinPoolSize,
			MaxConnIdleTime: dbConfig.MaxConnIdleTime,
			RetryWrites:     dbConfig.RetryWrites,
		})
		if err := repository.SetupIndexes(utils.MongoClient.Database(dbConfig.DatabaseName)); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
	}
}

// registerValidations wires custom binding rules into gin's validator.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
			return model.ValidPriority(model.Priority(fl.Field().String()))
		})
	}
}

// newTokenVerifier picks the identity backend. Firebase is the production
// path; the HS256 verifier is a local development fallback.
func newTokenVerifier(ctx context.Context) services.TokenVerifier {
	if os.Getenv("FIREBASE_PROJECT_ID") != "" {
		verifier, err := services.NewFirebaseVerifier(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase verifier: %v", err)
		}
		log.Println("Using Firebase token verification")
		return verifier
	}

	verifier, err := services.NewLocalVerifier()
	if err != nil {
		log.Fatalf("No identity backend configured: %v", err)
	}
	log.Println("Using local JWT token verification (development mode)")
	return verifier
}

func setupRouter(verifier services.TokenVerifier, cache middleware.ClaimsCache, store services.BlobStore) *gin.Engine {
	router := gin.New()

	// Initialize repositories
	userRepo := repository.GetUserRepo(utils.MongoClient)
	notesRepo := repository.GetNotesRepo(utils.MongoClient)
	remindersRepo := repository.GetRemindersRepo(utils.MongoClient)

	// Initialize services
	userService := usecase.NewUserService(userRepo)
	notesService := usecase.NewNotesService(notesRepo)
	remindersService := usecase.NewRemindersService(remindersRepo)

	// Ownership loaders adapt the services to the gate's signature. Deleted
	// notes stay loadable so their owner can restore or purge them.
	loadNote := func(ctx context.Context, id string) (middleware.Owned, error) {
		return notesService.Get(ctx, id, repository.IncludeDeleted)
	}
	loadReminder := func(ctx context.Context, id string) (middleware.Owned, error) {
		return remindersService.Get(ctx, id)
	}

	// Global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(12 << 20))

	router.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Route not found")
	})

	// Rate limits: reads are generous, writes tighter, uploads tightest.
	readLimit := middleware.RateLimit(time.Minute, 120, "Too many requests, slow down")
	writeLimit := middleware.RateLimit(time.Minute, 30, "Too many write requests, slow down")
	uploadLimit := middleware.RateLimit(time.Minute, 10, "Too many uploads, slow down")

	// Public routes (no authentication required)
	router.GET("/api/health", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.RequireAuth(verifier, userService, cache))
	protected.Use(middleware.RequireActiveAccount())
	{
		protected.GET("/health/stats", readLimit, func(c *gin.Context) {
			handler.StatsHandler(c, notesService, remindersService)
		})

		me := protected.Group("/users/me")
		{
			me.GET("", readLimit, handler.GetProfileHandler)
			me.PUT("/preferences", writeLimit, func(c *gin.Context) {
				handler.UpdatePreferencesHandler(c, userService)
			})
			me.DELETE("", writeLimit, func(c *gin.Context) {
				handler.DeactivateAccountHandler(c, userService)
			})
		}

		notes := protected.Group("/notes")
		{
			// List and search operations
			notes.GET("", readLimit, func(c *gin.Context) {
				handler.GetUserNotesHandler(c, notesService)
			})
			notes.GET("/search", readLimit, func(c *gin.Context) {
				handler.SearchNotesHandler(c, notesService)
			})
			notes.GET("/archived", readLimit, func(c *gin.Context) {
				handler.GetArchivedNotesHandler(c, notesService)
			})
			notes.GET("/pinned", readLimit, func(c *gin.Context) {
				handler.GetPinnedNotesHandler(c, notesService)
			})
			notes.GET("/favorites", readLimit, func(c *gin.Context) {
				handler.GetFavoriteNotesHandler(c, notesService)
			})
			notes.GET("/trash", readLimit, func(c *gin.Context) {
				handler.GetDeletedNotesHandler(c, notesService)
			})
			notes.GET("/labels", readLimit, func(c *gin.Context) {
				handler.GetUserLabelsHandler(c, notesService)
			})

			// Basic CRUD operations
			notes.POST("", writeLimit, func(c *gin.Context) {
				handler.CreateNoteHandler(c, notesService)
			})

			owned := notes.Group("/:id")
			owned.Use(middleware.RequireOwnership(loadNote, "id"))
			{
				owned.GET("", readLimit, handler.GetNoteHandler)
				owned.PUT("", writeLimit, func(c *gin.Context) {
					handler.UpdateNoteHandler(c, notesService)
				})
				owned.DELETE("", writeLimit, func(c *gin.Context) {
					handler.DeleteNoteHandler(c, notesService)
				})
				owned.POST("/restore", writeLimit, func(c *gin.Context) {
					handler.RestoreNoteHandler(c, notesService)
				})

				// Note actions
				owned.POST("/pin", writeLimit, func(c *gin.Context) {
					handler.TogglePinHandler(c, notesService)
				})
				owned.PUT("/position", writeLimit, func(c *gin.Context) {
					handler.UpdatePinPositionHandler(c, notesService)
				})
				owned.POST("/archive", writeLimit, func(c *gin.Context) {
					handler.ToggleArchiveHandler(c, notesService)
				})
				owned.POST("/favorite", writeLimit, func(c *gin.Context) {
					handler.ToggleFavoriteHandler(c, notesService)
				})

				// Attachments; typed variants narrow the accepted kinds.
				owned.POST("/attachments", uploadLimit, middleware.RequireVerifiedEmail(), func(c *gin.Context) {
					handler.UploadAttachmentsHandler(c, notesService, store, services.PolicyAny())
				})
				owned.POST("/attachments/images", uploadLimit, middleware.RequireVerifiedEmail(), func(c *gin.Context) {
					handler.UploadAttachmentsHandler(c, notesService, store, services.PolicyImagesOnly())
				})
				owned.POST("/attachments/audio", uploadLimit, middleware.RequireVerifiedEmail(), func(c *gin.Context) {
					handler.UploadAttachmentsHandler(c, notesService, store, services.PolicyAudioOnly())
				})
				owned.POST("/attachments/documents", uploadLimit, middleware.RequireVerifiedEmail(), func(c *gin.Context) {
					handler.UploadAttachmentsHandler(c, notesService, store, services.PolicyDocumentsOnly())
				})
				owned.DELETE("/attachments/:attachmentId", writeLimit, func(c *gin.Context) {
					handler.DeleteAttachmentHandler(c, notesService, store)
				})
			}
		}

		reminders := protected.Group("/reminders")
		{
			reminders.GET("", readLimit, func(c *gin.Context) {
				handler.GetUserRemindersHandler(c, remindersService)
			})
			reminders.POST("", writeLimit, func(c *gin.Context) {
				handler.CreateReminderHandler(c, remindersService)
			})
			reminders.GET("/due", readLimit, middleware.RequireRole(model.RoleAdmin), func(c *gin.Context) {
				handler.GetDueRemindersHandler(c, remindersService)
			})
			reminders.POST("/:id/notified", writeLimit, middleware.RequireRole(model.RoleAdmin), func(c *gin.Context) {
				handler.MarkNotificationSentHandler(c, remindersService)
			})

			owned := reminders.Group("/:id")
			owned.Use(middleware.RequireOwnership(loadReminder, "id"))
			{
				owned.GET("", readLimit, handler.GetReminderHandler)
				owned.PUT("", writeLimit, func(c *gin.Context) {
					handler.UpdateReminderHandler(c, remindersService)
				})
				owned.DELETE("", writeLimit, func(c *gin.Context) {
					handler.DeleteReminderHandler(c, remindersService)
				})

				// State transitions
				owned.POST("/complete", writeLimit, func(c *gin.Context) {
					handler.CompleteReminderHandler(c, remindersService)
				})
				owned.POST("/snooze", writeLimit, func(c *gin.Context) {
					handler.SnoozeReminderHandler(c, remindersService)
				})
				owned.POST("/dismiss", writeLimit, func(c *gin.Context) {
					handler.DismissReminderHandler(c, remindersService)
				})

				owned.PUT("/priority", writeLimit, func(c *gin.Context) {
					handler.UpdateReminderPriorityHandler(c, remindersService)
				})
				owned.DELETE("/recurrence", writeLimit, func(c *gin.Context) {
					handler.ClearReminderRecurrenceHandler(c, remindersService)
				})
				owned.POST("/tags", writeLimit, func(c *gin.Context) {
					handler.AddReminderTagHandler(c, remindersService)
				})
				owned.DELETE("/tags/:tag", writeLimit, func(c *gin.Context) {
					handler.RemoveReminderTagHandler(c, remindersService)
				})
			}
		}
	}

	return router
}

func main() {
	ctx := context.Background()

	verifier := newTokenVerifier(ctx)

	// Claims cache is optional; without Redis every request hits the verifier.
	var cache middleware.ClaimsCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		claimsCache, err := services.NewClaimsCache(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer claimsCache.Close()
		cache = claimsCache
		log.Println("Token claims caching enabled")
	}

	store, err := services.NewDiskStore(
		utils.GetEnvAsString("UPLOAD_DIR", "./uploads"),
		utils.GetEnvAsString("UPLOAD_BASE_URL", "/uploads"),
	)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	router := setupRouter(verifier, cache, store)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
