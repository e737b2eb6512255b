package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/dermmate/auth-service"
	"github.com/dermmate/auth-service/activitymap"
	"github.com/dermmate/auth-service/mailer"
	"github.com/dermmate/auth-service/middleware/jwtware"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, flush, err := newZapLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer flush()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("unable to open database: %v", err)
		os.Exit(1)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()
	if err := auth.RunMigrations(ctx, db); err != nil {
		logger.Error("migrations failed: %v", err)
		os.Exit(1)
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := auth.NewTokenServiceFromConfig(cfg, logger)
	provider := auth.NewUserProvider(repo, logger)
	activity := activitymap.LoggerSink{Logger: logger}
	auther := auth.NewAuthenticator(provider, tokens,
		auth.WithAutherLogger(logger),
		auth.WithAutherActivitySink(activity),
	)

	var mail mailer.Mailer
	if cfg.Mail.BrevoAPIKey != "" {
		mail, err = mailer.NewBrevoMailer(cfg.Mail.BrevoAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
		if err != nil {
			logger.Error("mailer: %v", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("no MAIL_BREVO_API_KEY set, emails go to the log")
		mail = &mailer.LogMailer{}
	}

	dispatcher, err := mailer.NewService(mail)
	if err != nil {
		logger.Error("mailer templates: %v", err)
		os.Exit(1)
	}

	ctrl := auth.NewHTTPController(auth.HTTPControllerConfig{
		Repo:     repo,
		Auther:   auther,
		Mailer:   dispatcher,
		Links:    auth.LinkBuilder{BaseURL: cfg.FrontendURL},
		Logger:   logger,
		Activity: activity,
		Debug:    cfg.Debug,
	})

	validator := auth.NewTokenValidator(tokens)
	protect := func(roles ...string) fiber.Handler {
		return jwtware.New(jwtware.Config{
			TokenValidator: jwtware.TokenValidatorFunc(func(raw string) (jwtware.AuthClaims, error) {
				return validator.Validate(raw)
			}),
			ContextKey:   cfg.GetContextKey(),
			TokenLookup:  cfg.GetTokenLookup(),
			AuthScheme:   cfg.GetAuthScheme(),
			AllowedRoles: roles,
			ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
				if jc, ok := claims.(*auth.JWTClaims); ok {
					return auth.WithClaimsContext(ctx, jc)
				}
				return ctx
			},
		})
	}

	app := fiber.New(fiber.Config{
		AppName:   "dermmate-auth",
		BodyLimit: 1 << 20,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	auth.RegisterAuthRoutes(api.Group("/auth"), ctrl, protect())

	admin := api.Group("/admin", protect(auth.RoleAdmin.String()))
	admin.Get("/stats", func(c *fiber.Ctx) error {
		count, err := db.NewSelect().Model((*auth.User)(nil)).Count(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
		}
		return c.JSON(fiber.Map{"users": count})
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server stopped: %v", err)
		}
	}()
	logger.Info("dermmate-auth listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown: %v", err)
	}
}
