package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"quezon.gov.ph/portal/internal/config"
	"quezon.gov.ph/portal/internal/jobs"
	"quezon.gov.ph/portal/internal/metrics"
	"quezon.gov.ph/portal/internal/middleware"
	"quezon.gov.ph/portal/internal/mutation"
	"quezon.gov.ph/portal/internal/site"
	"quezon.gov.ph/portal/pkg/baas"
	"quezon.gov.ph/portal/pkg/cache"
	"quezon.gov.ph/portal/pkg/storage"

	authHttp "quezon.gov.ph/portal/internal/modules/auth/delivery/http"
	authService "quezon.gov.ph/portal/internal/modules/auth/service"

	bacHttp "quezon.gov.ph/portal/internal/modules/bac/delivery/http"
	bacRepo "quezon.gov.ph/portal/internal/modules/bac/repository"
	bacService "quezon.gov.ph/portal/internal/modules/bac/service"

	contactHttp "quezon.gov.ph/portal/internal/modules/contact/delivery/http"
	contactRepo "quezon.gov.ph/portal/internal/modules/contact/repository"
	contactService "quezon.gov.ph/portal/internal/modules/contact/service"

	documentHttp "quezon.gov.ph/portal/internal/modules/document/delivery/http"
	documentRepo "quezon.gov.ph/portal/internal/modules/document/repository"
	documentService "quezon.gov.ph/portal/internal/modules/document/service"

	downloadService "quezon.gov.ph/portal/internal/modules/download/service"

	eventHttp "quezon.gov.ph/portal/internal/modules/event/delivery/http"
	eventRepo "quezon.gov.ph/portal/internal/modules/event/repository"
	eventService "quezon.gov.ph/portal/internal/modules/event/service"

	newsHttp "quezon.gov.ph/portal/internal/modules/news/delivery/http"
	newsRepo "quezon.gov.ph/portal/internal/modules/news/repository"
	newsService "quezon.gov.ph/portal/internal/modules/news/service"

	profileHttp "quezon.gov.ph/portal/internal/modules/profile/delivery/http"
	profileRepo "quezon.gov.ph/portal/internal/modules/profile/repository"
	profileService "quezon.gov.ph/portal/internal/modules/profile/service"

	roleHttp "quezon.gov.ph/portal/internal/modules/role/delivery/http"
	roleRepo "quezon.gov.ph/portal/internal/modules/role/repository"
	roleService "quezon.gov.ph/portal/internal/modules/role/service"

	searchHttp "quezon.gov.ph/portal/internal/modules/search/delivery/http"
	searchRepo "quezon.gov.ph/portal/internal/modules/search/repository"
	searchService "quezon.gov.ph/portal/internal/modules/search/service"

	statHttp "quezon.gov.ph/portal/internal/modules/stat/delivery/http"
	statService "quezon.gov.ph/portal/internal/modules/stat/service"

	uploadHttp "quezon.gov.ph/portal/internal/modules/upload/delivery/http"
	uploadRepo "quezon.gov.ph/portal/internal/modules/upload/repository"
	uploadService "quezon.gov.ph/portal/internal/modules/upload/service"
)

const downloadSyncInterval = time.Minute

type Server struct {
	engine      *gin.Engine
	cfg         *config.Config
	db          *gorm.DB
	redisClient *redis.Client
	downloads   downloadService.DownloadCounter
	scheduler   *jobs.Scheduler
	cancel      context.CancelFunc
}

// NewServer builds every module and the router. redisClient may be nil;
// caching, rate limiting and the live contact feed are then disabled.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	backend, err := baas.New(cfg.BaaS.URL, cfg.BaaS.AnonKey, baas.WithServiceKey(cfg.BaaS.ServiceRoleKey))
	if err != nil {
		return nil, err
	}

	fileStorage, err := newFileStorage(cfg)
	if err != nil {
		return nil, err
	}

	meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := searchService.NewMeiliSearchService(meiliClient, searchRepo.NewSourceRepository(db))
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	listingCache := cache.New(redisClient, cfg.CacheTTL)

	uploadRepository := uploadRepo.NewUploadRepository(db)
	uploadSvc := uploadService.NewUploadService(uploadRepository, fileStorage)
	uploadHandler := uploadHttp.NewUploadHandler(uploadSvc)

	hooks := mutation.New(listingCache, uploadSvc)

	roleRepository := roleRepo.NewRoleRepository(db)
	roleSvc := roleService.NewRoleService(roleRepository)
	roleHandler := roleHttp.NewRoleHandler(roleSvc)

	authSvc := authService.NewAuthService(backend, roleRepository, cfg.PublicURL)
	authHandler := authHttp.NewAuthHandler(authSvc)

	profileRepository := profileRepo.NewProfileRepository(db)
	profileSvc := profileService.NewProfileService(profileRepository, hooks)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	newsRepository := newsRepo.NewNewsRepository(db)
	newsSvc := newsService.NewNewsService(newsRepository, searchSvc, hooks, listingCache)
	newsHandler := newsHttp.NewNewsHandler(newsSvc)

	eventRepository := eventRepo.NewEventRepository(db)
	eventSvc := eventService.NewEventService(eventRepository, searchSvc, hooks, listingCache)
	eventHandler := eventHttp.NewEventHandler(eventSvc)

	documentRepository := documentRepo.NewDocumentRepository(db)
	downloads := downloadService.NewDownloadCounter(redisClient, documentRepository)
	documentSvc := documentService.NewDocumentService(documentRepository, searchSvc, hooks, listingCache, downloads)
	documentHandler := documentHttp.NewDocumentHandler(documentSvc)

	bacRepository := bacRepo.NewBacRepository(db)
	bacSvc := bacService.NewBacService(bacRepository, hooks, listingCache)
	bacHandler := bacHttp.NewBacHandler(bacSvc)

	contactRepository := contactRepo.NewContactRepository(db)
	contactSvc := contactService.NewContactService(contactRepository, redisClient, hooks, cfg.RateLimitContact)
	contactHandler := contactHttp.NewContactHandler(contactSvc, redisClient, cfg.Origins())

	statSvc := statService.NewStatService(profileRepository, map[string]statService.StatusCounter{
		"news":             newsRepository,
		"events":           eventRepository,
		"documents":        documentRepository,
		"bac_documents":    bacRepository,
		"contact_messages": contactRepository,
	})
	statHandler := statHttp.NewStatHandler(statSvc)

	scheduler := jobs.NewScheduler()
	for _, j := range []jobs.Job{jobs.CleanupJob(uploadSvc), jobs.ReindexJob(searchSvc)} {
		if err := scheduler.Register(j); err != nil {
			return nil, err
		}
	}

	pages, err := site.New(site.Options{
		News:         newsSvc,
		Events:       eventSvc,
		Documents:    documentSvc,
		Bac:          bacSvc,
		DownloadsDir: cfg.DownloadsDir,
		Maintenance:  cfg.MaintenanceMode,
	})
	if err != nil {
		return nil, err
	}

	metrics.Register()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := newEngine(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	setupCORS(router, cfg.Origins())

	router.Use(middleware.Recovery(cfg.IsDevelopment()))
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/metrics", "/healthz"},
	}))
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	router.GET("/healthz", healthz(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(roleRepository, cfg.BaaS.JWTSecret)

	api := router.Group("/api")

	// Public routes
	authHandler.RegisterPublic(api)
	newsHandler.RegisterPublic(api)
	eventHandler.RegisterPublic(api)
	documentHandler.RegisterPublic(api)
	bacHandler.RegisterPublic(api)
	contactHandler.RegisterPublic(api)
	api.GET("/search", searchHandler.Search)

	// Any signed-in user
	signedIn := api.Group("")
	signedIn.Use(authMiddleware.RequireAuth())
	{
		authHandler.RegisterSession(signedIn)
		profileHandler.RegisterSelf(signedIn)
	}

	admin := api.Group("/admin")
	admin.Use(authMiddleware.RequireAuth())
	{
		staff := admin.Group("", authMiddleware.RequireRole(middleware.StaffRoles...))
		statHandler.RegisterAdmin(staff)
		staff.POST("/uploads", uploadHandler.Upload)
		staff.GET("/uploads", uploadHandler.List)

		content := admin.Group("", authMiddleware.RequireRole(middleware.ContentRoles...))
		newsHandler.RegisterAdmin(content)
		eventHandler.RegisterAdmin(content)
		documentHandler.RegisterAdmin(content)
		contactHandler.RegisterAdmin(content)

		procurement := admin.Group("", authMiddleware.RequireRole(middleware.BACRoles...))
		bacHandler.RegisterAdmin(procurement)

		admins := admin.Group("", authMiddleware.RequireRole(middleware.AdminRoles...))
		authHandler.RegisterAdmin(admins)
		roleHandler.RegisterAdmin(admins)
		profileHandler.RegisterAdmin(admins)
		admins.POST("/search/reindex", searchHandler.Reindex)
	}

	pages.Register(router)

	return &Server{
		engine:      router,
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
		downloads:   downloads,
		scheduler:   scheduler,
	}, nil
}

func newFileStorage(cfg *config.Config) (storage.FileStorage, error) {
	if cfg.CloudinaryURL == "" {
		log.Println("[Server] CLOUDINARY_URL not set, uploads disabled")
		return nil, nil
	}
	fs, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryUploadFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary storage: %w", err)
	}
	return fs, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start launches the background workers. Stop ends them.
func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.redisClient != nil {
		go s.downloads.StartSyncWorker(ctx, downloadSyncInterval)
	}
	s.scheduler.Start()
}

func (s *Server) Stop(ctx context.Context) {
	if s.cancel != nil {
		s.cancel()
	}
	s.scheduler.Stop(ctx)
	if s.redisClient != nil {
		// final flush after the worker has stopped
		if n := s.downloads.Sync(ctx); n > 0 {
			log.Printf("[Server] flushed %d pending download counts", n)
		}
	}
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err = sqlDB.PingContext(ctx)
			cancel()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// newEngine builds a router that only reads X-Forwarded-For from the listed
// proxies. With none, ClientIP is the connection's peer address.
func newEngine(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	if len(trustedProxies) == 0 {
		trustedProxies = nil
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("server: trusted proxies: %w", err)
	}
	return router, nil
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
