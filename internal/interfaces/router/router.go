package router

import (
	"context"
	"fmt"

	analyticssvc "agriconnect-backend/internal/application/analytics"
	authsvc "agriconnect-backend/internal/application/auth"
	emailsvc "agriconnect-backend/internal/application/emails"
	intsvc "agriconnect-backend/internal/application/interests"
	lesvc "agriconnect-backend/internal/application/listingevents"
	listsvc "agriconnect-backend/internal/application/listings"
	msgsvc "agriconnect-backend/internal/application/messages"
	notifsvc "agriconnect-backend/internal/application/notifications"
	revsvc "agriconnect-backend/internal/application/reviews"
	seedsvc "agriconnect-backend/internal/application/seed"
	txsvc "agriconnect-backend/internal/application/transactions"
	uploadsvc "agriconnect-backend/internal/application/uploads"
	usersvc "agriconnect-backend/internal/application/user"
	"agriconnect-backend/internal/config"
	"agriconnect-backend/internal/infrastructure/database"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/infrastructure/storage"
	analyticshandler "agriconnect-backend/internal/interfaces/handlers/analytics"
	authhandler "agriconnect-backend/internal/interfaces/handlers/auth"
	healthhandler "agriconnect-backend/internal/interfaces/handlers/health"
	inthandler "agriconnect-backend/internal/interfaces/handlers/interests"
	listhandler "agriconnect-backend/internal/interfaces/handlers/listings"
	msghandler "agriconnect-backend/internal/interfaces/handlers/messages"
	notifhandler "agriconnect-backend/internal/interfaces/handlers/notifications"
	revhandler "agriconnect-backend/internal/interfaces/handlers/reviews"
	seedhandler "agriconnect-backend/internal/interfaces/handlers/seed"
	txhandler "agriconnect-backend/internal/interfaces/handlers/transactions"
	uploadhandler "agriconnect-backend/internal/interfaces/handlers/uploads"
	userhandler "agriconnect-backend/internal/interfaces/handlers/user"
	"agriconnect-backend/internal/middleware"
	"agriconnect-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Uploads are capped at 5MB by the service; leave room for multipart framing.
const bodyLimit = 8 << 20

// Deps are the connections the routes run on. Objects and Mailer are optional.
type Deps struct {
	DB      *gorm.DB
	Rdb     *redis.Client
	Objects storage.ObjectStore
	Mailer  emailsvc.Sender
}

// CreateApp connects the database, Redis, object storage and mailer from
// cfg, then builds the app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, fmt.Errorf("DATABASE_URL is not set")
	}
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	deps := Deps{DB: db, Rdb: rdb}
	if objects, err := objectStore(cfg); err != nil {
		log.Warn().Err(err).Str("driver", cfg.StorageDriver).Msg("image uploads disabled")
	} else {
		deps.Objects = objects
	}
	if cfg.SendinblueAPIKey != "" {
		deps.Mailer = &emailsvc.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}
	}
	return New(cfg, deps), db, rdb, nil
}

func objectStore(cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		return storage.NewS3(storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			BaseURL:   cfg.S3BaseURL,
		})
	case "", "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseSecretKey == "" {
			return nil, fmt.Errorf("supabase: set SUPABASE_URL and SUPABASE_SECRET_KEY: %w", storage.ErrNotConfigured)
		}
		return &storage.Supabase{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey, Bucket: cfg.StorageBucket}, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// New registers middleware and routes over already-open connections.
func New(cfg *config.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               bodyLimit,
	})

	store := repository.NewStore(deps.DB)
	sessions := middleware.NewSessionStore(deps.Rdb)
	sessionCfg := middleware.SessionConfig{
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}

	analytics := &analyticssvc.Service{Store: store}
	notifications := &notifsvc.Service{Store: store, Mailer: deps.Mailer}
	auth := &authsvc.Service{Users: store.Users, Secret: []byte(cfg.SessionSecret)}
	users := &usersvc.Service{Store: store, Analytics: analytics, EmailSender: deps.Mailer}
	listings := &listsvc.Service{Store: store, Analytics: analytics}
	interests := &intsvc.Service{Store: store, Analytics: analytics, Notifications: notifications}
	messages := &msgsvc.Service{Store: store, Notifications: notifications}
	reviews := &revsvc.Service{Store: store}
	transactions := &txsvc.Service{Store: store, Notifications: notifications}
	uploads := &uploadsvc.Service{}
	if deps.Objects != nil {
		uploads.Store = deps.Objects
	}
	seed := &seedsvc.Service{Store: store, Users: users, Production: cfg.IsProduction()}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
		AllowLocalhost: !cfg.IsProduction(),
	}))
	app.Use(middleware.HealthMarker(deps.Rdb))
	app.Use(middleware.Session(sessions))
	app.Use(middleware.Bearer(auth))

	hh := &healthhandler.Handlers{Rdb: deps.Rdb, HealthAdminKey: cfg.HealthAdminKey}
	if sqlDB, err := deps.DB.DB(); err == nil {
		hh.DB = sqlDB
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/reset", hh.Reset)

	api := app.Group("/api")

	ah := &authhandler.Handlers{Auth: auth, Users: users, Sessions: sessions, Config: sessionCfg}
	ag := api.Group("/auth")
	ag.Post("/login", ah.Login)
	ag.Post("/register", ah.Register)
	ag.Post("/logout", ah.Logout)
	ag.Get("/me", ah.Me)
	ag.Get("/session", ah.Session)

	lh := &listhandler.Handlers{Service: listings, Audit: &lesvc.Service{Store: store}}
	api.Get("/listings", lh.List)
	api.Post("/listings", lh.Create)
	api.Get("/listings/:id", lh.Get)
	api.Patch("/listings/:id", lh.Update)
	api.Delete("/listings/:id", lh.Delete)
	api.Get("/listings/:id/events", lh.Events)

	ih := &inthandler.Handlers{Service: interests}
	api.Get("/interests", ih.List)
	api.Post("/interests", ih.Create)
	api.Get("/interests/:id", ih.Get)
	api.Patch("/interests/:id", ih.Update)
	api.Delete("/interests/:id", ih.Delete)

	mh := &msghandler.Handlers{Service: messages}
	api.Get("/messages", mh.List)
	api.Post("/messages", mh.Send)
	api.Patch("/messages/:id/read", mh.MarkRead)

	uh := &userhandler.Handlers{Service: users, Sessions: sessions}
	api.Get("/users", uh.List)
	api.Post("/users", uh.Create)
	api.Get("/users/:id", uh.Get)
	api.Patch("/users/:id", middleware.RequireSelfOrRole("id", constants.Admin), uh.Update)
	api.Delete("/users/:id", middleware.RequireRole(constants.Admin), uh.Delete)
	api.Get("/users/:id/rating", uh.Rating)

	rh := &revhandler.Handlers{Service: reviews}
	api.Get("/reviews", rh.List)
	api.Post("/reviews", rh.Create)

	th := &txhandler.Handlers{Service: transactions}
	api.Get("/transactions", th.List)
	api.Post("/transactions", th.Create)
	api.Get("/transactions/:id", th.Get)
	api.Post("/transactions/:id/complete", th.Complete)
	api.Post("/transactions/:id/cancel", th.Cancel)

	nh := &notifhandler.Handlers{Service: notifications}
	api.Get("/notifications", nh.List)
	api.Post("/notifications", nh.Create)
	api.Patch("/notifications/:id/read", nh.MarkRead)

	anh := &analyticshandler.Handlers{Service: analytics}
	api.Get("/analytics", anh.List)
	api.Get("/analytics/:metric/latest", anh.Latest)
	api.Post("/analytics/increment", middleware.RequireRole(constants.Admin), anh.Increment)

	uph := &uploadhandler.Handlers{Service: uploads}
	api.Post("/upload", uph.Upload)
	api.Post("/upload-temp", uph.Temp)

	sh := &seedhandler.Handlers{Service: seed}
	api.Get("/seed", sh.Usage)
	api.Post("/seed", sh.Run)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})
	return app
}
