package cmd

import (
	"context"
	"fmt"

	"boleteria/application/events"
	"boleteria/application/statistics"
	"boleteria/application/tickets/domain"
	ticketrepo "boleteria/application/tickets/repository"
	ticketsvc "boleteria/application/tickets/service"
	"boleteria/application/users"
	"boleteria/config"
	"boleteria/internal/auth"
	"boleteria/internal/clock"
	"boleteria/internal/database"
	"boleteria/internal/delivery"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the long-lived collaborators shared by the router and the
// maintenance commands.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	Clock   clock.Clock
	Tokens  *auth.TokenService
	Hasher  *auth.PasswordHasher
	Revoker auth.Revoker
	Mailer  delivery.Mailer
}

// NewApp connects to the database and, when REDIS_URL is set, to redis.
// Without redis, logout revocations live in memory.
func NewApp(ctx context.Context, c *config.Config, z *zap.Logger) (*App, error) {
	db, err := database.Open(c, z)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: c,
		Log:    z,
		DB:     db,
		Clock:  clock.NewSystem(),
		Hasher: auth.NewPasswordHasher(0),
		Mailer: delivery.NewSMTPMailer(delivery.SMTPConfig{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.SMTPUser,
			Password: c.SMTPPass,
			From:     c.MailFrom,
		}),
	}

	if c.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, c.RedisURL, z)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Redis = client
		app.Revoker = auth.NewRedisRevoker(client, app.Clock)
	} else {
		z.Warn("REDIS_URL not set, token revocations are kept in memory")
		app.Revoker = auth.NewMemoryRevoker(app.Clock)
	}

	key := []byte(c.JWTSecret)
	if c.JWTSecret == "" {
		z.Warn("JWT_SECRET not set, generating an ephemeral signing key")
		if key, err = auth.GenerateSigningKey(); err != nil {
			app.Close()
			return nil, err
		}
	}
	if app.Tokens, err = auth.NewTokenService(key, c.TokenTTL, app.Clock); err != nil {
		app.Close()
		return nil, fmt.Errorf("invalid token configuration: %w", err)
	}

	return app, nil
}

// Close releases the redis and database connections
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// Users builds the users service
func (a *App) Users() *users.Service {
	return users.NewService(users.NewRepository(a.DB), a.Hasher, a.Log)
}

// Events builds the events service
func (a *App) Events() *events.Service {
	return events.NewService(events.NewRepository(a.DB))
}

// Statistics builds the statistics service
func (a *App) Statistics() *statistics.Service {
	return statistics.NewService(statistics.NewRepository(a.DB))
}

// Tickets builds the ticket service with delivery and, when enabled, capacity checks
func (a *App) Tickets() domain.Service {
	opts := ticketsvc.Options{
		EnforceCapacity: a.Config.EnforceEventCapacity,
		Clock:           a.Clock,
		Logger:          a.Log,
	}
	if a.Config.EnforceEventCapacity {
		opts.Events = events.NewRepository(a.DB)
	}
	if a.Mailer != nil {
		opts.Sender = delivery.NewService(delivery.NewPDFRenderer(), a.Mailer, a.Log)
	}
	return ticketsvc.NewService(ticketrepo.NewRepository(a.DB), opts)
}
