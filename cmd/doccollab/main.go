package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doccollab/doccollab/pkg/docs"
	docsapi "github.com/doccollab/doccollab/pkg/docs/api"
	"github.com/doccollab/doccollab/pkg/notification"
	"github.com/doccollab/doccollab/pkg/notifier"
	"github.com/doccollab/doccollab/pkg/session"
	sessionapi "github.com/doccollab/doccollab/pkg/session/api"
	"github.com/doccollab/doccollab/pkg/token"
)

type AppConfig struct {
	Addr string `env:"APP_ADDR" env-default:"localhost:4000"`
}

type StoreConfig struct {
	// "file" or "postgres"
	Backend string `env:"STORE_BACKEND" env-default:"file"`
	DataDir string `env:"STORE_DATA_DIR" env-default:"./data"`
}

type DbConfig struct {
	Host     string `env:"PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"PG_PORT" env-default:"5432"`
	Database string `env:"PG_DATABASE" env-default:"doccollab_db"`
	User     string `env:"PG_USER" env-default:"doccollab"`
	Password string `env:"PG_PASSWORD" env-default:"pwd"`
}

type JwtConfig struct {
	JwtSecret string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
}

type SmtpConfig struct {
	Enabled  bool   `env:"SMTP_ENABLED" env-default:"false"`
	Host     string `env:"SMTP_HOST" env-default:"localhost"`
	Port     int    `env:"SMTP_PORT" env-default:"1025"`
	Username string `env:"SMTP_USERNAME" env-default:""`
	Password string `env:"SMTP_PASSWORD" env-default:""`
	From     string `env:"SMTP_FROM" env-default:"noreply@doccollab.local"`
	TLS      bool   `env:"SMTP_TLS" env-default:"false"`
}

type Config struct {
	AppConfig   AppConfig
	StoreConfig StoreConfig
	DbConfig    DbConfig
	JwtConfig   JwtConfig
	SmtpConfig  SmtpConfig
}

func (d DbConfig) toConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

func main() {
	config := Config{}
	cleanenv.ReadEnv(&config)

	sessionOpts := []session.Option{}
	if config.SmtpConfig.Enabled {
		emailNotifier, err := notification.NewEmailNotifier(notification.SMTPConfig{
			Host:     config.SmtpConfig.Host,
			Port:     config.SmtpConfig.Port,
			Username: config.SmtpConfig.Username,
			Password: config.SmtpConfig.Password,
			From:     config.SmtpConfig.From,
			TLS:      config.SmtpConfig.TLS,
		})
		if err != nil {
			slog.Error("Failed creating email notifier", "err", err)
			os.Exit(-1)
		}
		sessionOpts = append(sessionOpts, session.WithNotificationManager(notification.NewManager(emailNotifier)))
	}

	var accountRepo session.AccountRepository
	var documentRepo docs.DocumentRepository

	switch config.StoreConfig.Backend {
	case "postgres":
		pool, err := pgxpool.New(context.Background(), config.DbConfig.toConnString())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", config.DbConfig.Database, "host", config.DbConfig.Host, "err", err)
			os.Exit(-1)
		}
		accountRepo = session.NewPostgresAccountRepository(pool)
		documentRepo = docs.NewPostgresDocumentRepository(pool)
	case "file":
		fileRepo, err := session.NewFileAccountRepository(config.StoreConfig.DataDir)
		if err != nil {
			slog.Error("Failed creating file repository", "dataDir", config.StoreConfig.DataDir, "err", err)
			os.Exit(-1)
		}
		accountRepo = fileRepo
		documentRepo = docs.NewInMemoryDocumentRepository()
	default:
		slog.Error("Unknown store backend", "backend", config.StoreConfig.Backend)
		os.Exit(-1)
	}

	sessionService := session.NewSessionService(accountRepo, sessionOpts...)
	jwtService := token.NewJwtService(config.JwtConfig.JwtSecret)

	changeNotifier := notifier.New()
	documentService := docs.NewDocumentService(documentRepo, changeNotifier)

	sessionHandler := sessionapi.NewSessionHandler(sessionService, jwtService)
	documentHandler := docsapi.NewDocumentHandler(documentService)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Mount("/auth", sessionapi.Handler(sessionHandler))

	tokenAuth := jwtauth.New("HS256", []byte(config.JwtConfig.JwtSecret), nil)
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Mount("/api/documents", docsapi.Handler(documentHandler))
	})

	slog.Info("Starting server", "addr", config.AppConfig.Addr, "backend", config.StoreConfig.Backend)
	if err := http.ListenAndServe(config.AppConfig.Addr, r); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(-1)
	}
}
