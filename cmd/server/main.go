package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/authhub/internal/storage/mongodb"
	"github.com/dmitrymomot/authhub/internal/storage/redisstate"
	"github.com/dmitrymomot/authhub/modules/auth"
	"github.com/dmitrymomot/authhub/modules/profile"
	"github.com/dmitrymomot/authhub/pkg/config"
	"github.com/dmitrymomot/authhub/pkg/email"
	"github.com/dmitrymomot/authhub/pkg/file"
	"github.com/dmitrymomot/authhub/pkg/httpserver"
	"github.com/dmitrymomot/authhub/pkg/jwt"
	"github.com/dmitrymomot/authhub/pkg/logger"
	"github.com/dmitrymomot/authhub/pkg/mongo"
	"github.com/dmitrymomot/authhub/pkg/redis"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"authhub"`

	// FileDriver selects the avatar backend: "local" or "s3".
	FileDriver string `env:"FILE_DRIVER" envDefault:"local"`
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"./uploads"`
	UploadsURL string `env:"UPLOADS_URL" envDefault:"/uploads"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Environment, appCfg.ServiceName))
	logger.SetAsDefault(log)

	if err := run(ctx, appCfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	var (
		httpCfg   httpserver.Config
		mongoCfg  mongo.Config
		redisCfg  redis.Config
		emailCfg  email.Config
		authCfg   auth.Config
		googleCfg auth.GoogleOAuthConfig
	)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&googleCfg)

	mongoClient, err := mongo.New(ctx, mongoCfg)
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	repo := mongodb.NewRepository(mongoClient.Database(mongoCfg.Database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()
	states := redisstate.New(redisClient)

	sender, err := newEmailSender(emailCfg, appCfg.Environment, log)
	if err != nil {
		return err
	}

	files, localDir, err := newFileStorage(ctx, appCfg)
	if err != nil {
		return err
	}

	jwtSvc, err := jwt.NewFromString(authCfg.JWTSigningKey)
	if err != nil {
		return err
	}

	sessions := auth.NewSessionService(authCfg, jwtSvc, repo, repo)
	notifier := auth.NewNotifier(sender, log)
	localSvc := auth.NewLocalService(authCfg, repo, repo, sessions, notifier)
	googleSvc := auth.NewGoogleService(authCfg, auth.NewGoogleAdapter(googleCfg), repo, repo, states, sessions)
	profileSvc := profile.NewService(repo, files)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", httpserver.HealthCheckHandler(log,
		mongo.Healthcheck(mongoClient),
		redis.Healthcheck(redisClient),
	))
	r.Mount("/api/auth", auth.NewHandler(localSvc, googleSvc, sessions, log).Handle())
	r.Mount("/api/profile", profile.NewHandler(profileSvc, sessions, log).Handle())

	if localDir != "" {
		r.Handle(appCfg.UploadsURL+"/*", http.StripPrefix(appCfg.UploadsURL+"/",
			http.FileServer(http.Dir(localDir))))
	}

	log.Info("starting server",
		slog.String("addr", httpCfg.Addr),
		slog.String("environment", appCfg.Environment),
	)
	return httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log)).Run(ctx, r)
}

// newEmailSender picks Postmark when a server token is configured and the
// file-based dev sender otherwise, so local development needs no account.
func newEmailSender(cfg email.Config, environment string, log *slog.Logger) (email.EmailSender, error) {
	if cfg.PostmarkServerToken != "" {
		return email.NewPostmarkClient(cfg)
	}
	if environment != "development" {
		log.Warn("postmark token not configured, emails are written to disk",
			slog.String("dir", cfg.DevOutputDir))
	}
	return email.NewDevSender(cfg.DevOutputDir), nil
}

// newFileStorage returns the avatar storage plus the local directory to
// serve statically, empty when the blobs live in S3.
func newFileStorage(ctx context.Context, cfg appConfig) (file.Storage, string, error) {
	if cfg.FileDriver == "s3" {
		var s3Cfg file.S3Config
		config.MustLoad(&s3Cfg)
		storage, err := file.NewS3Storage(ctx, s3Cfg)
		return storage, "", err
	}

	storage, err := file.NewLocalStorage(cfg.UploadsDir, cfg.UploadsURL)
	if err != nil {
		return nil, "", err
	}
	return storage, storage.Dir(), nil
}
