package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "juntacomunal/docs"
	"juntacomunal/internal/caching"
	"juntacomunal/internal/config"
	"juntacomunal/internal/handlers"
	"juntacomunal/internal/jobs/background"
	"juntacomunal/internal/middleware"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/services"
	"juntacomunal/internal/tenancy"
	"juntacomunal/pkg/database"
	"juntacomunal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func serve(migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrate {
		m, err := database.NewMigrator(pool)
		if err != nil {
			return fmt.Errorf("load migrations: %w", err)
		}
		applied, err := m.Up(ctx)
		if err != nil {
			return err
		}
		log.WithField("applied", applied).Info("migrations up to date")
	}

	cache, err := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		return err
	}
	defer cache.Close()

	storage, err := services.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		log.WithError(err).Warn("object storage bucket not ready")
	}

	uow := database.NewUnitOfWork(pool)

	// Repositories
	users := repositories.NewAuthUserRepo()
	loginLogs := repositories.NewLoginLogRepo()
	tenants := repositories.NewTenantRepo()
	memberships := repositories.NewMembershipRepo()
	invitations := repositories.NewInvitationRepo()
	personas := repositories.NewPersonaRepo()
	terrenos := repositories.NewTerrenoRepo()
	personaTerrenos := repositories.NewPersonaTerrenoRepo()
	bienes := repositories.NewBienRepo()
	asambleas := repositories.NewAsambleaRepo()
	asistencias := repositories.NewAsistenciaRepo()
	faenas := repositories.NewFaenaRepo()
	participaciones := repositories.NewParticipacionRepo()
	juntas := repositories.NewJuntaDirectivaRepo()
	juntaMiembros := repositories.NewJuntaMiembroRepo()
	caja := repositories.NewCajaRepo()

	runner := tenancy.NewRunner(uow, memberships)

	authSvc := services.NewAuthService(pool, uow, users, loginLogs, cache,
		services.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		services.RateLimit{Limit: cfg.Server.LoginRateLimit, Window: cfg.Server.LoginRateWindow},
		log)
	invitationSvc := services.NewInvitationService(uow, runner, invitations, memberships, users, cfg.Server.InvitationTTL, log)

	svcs := handlers.Services{
		Auth:            authSvc,
		AuthUsers:       services.NewAuthUserService(uow, runner, users, log),
		Tenants:         services.NewTenantService(runner, tenants, memberships, users, log),
		Invitations:     invitationSvc,
		Personas:        services.NewPersonaService(runner, personas),
		Terrenos:        services.NewTerrenoService(runner, terrenos),
		PersonaTerrenos: services.NewPersonaTerrenoService(runner, personaTerrenos, personas, terrenos),
		Bienes:          services.NewBienService(runner, bienes),
		Asambleas:       services.NewAsambleaService(runner, asambleas),
		Asistencias:     services.NewAsistenciaService(runner, asistencias, asambleas, personas),
		AsistenciaVoid:  services.NewAsistenciaVoider(runner, asistencias),
		Faenas:          services.NewFaenaService(runner, faenas),
		Participaciones: services.NewParticipacionService(runner, participaciones, faenas, personas),
		ParticipVoid:    services.NewParticipacionVoider(runner, participaciones),
		Juntas:          services.NewJuntaDirectivaService(runner, juntas),
		JuntaMiembros:   services.NewJuntaMiembroService(runner, juntaMiembros, juntas, personas),
		Caja: services.NewCajaService(runner, caja, services.CajaReferences{
			Personas:  personas,
			Faenas:    faenas,
			Asambleas: asambleas,
			Bienes:    bienes,
		}, storage, cfg.Minio.PresignedTTL, log),
	}

	auth, err := middleware.NewAuthenticator(middleware.JWTConfig{Secret: cfg.JWT.Secret, JWKSURL: cfg.JWT.JWKSURL}, log)
	if err != nil {
		return err
	}
	defer auth.Close()

	e := handlers.NewEcho(log)
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.TenantHeader},
	}))
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.VersionHeader())

	router := &handlers.Router{
		Authenticate: auth.Middleware(),
		Guard:        middleware.NewTenantGuard(runner),
		Health: handlers.NewHealthHandlers(middleware.Version, map[string]handlers.Check{
			"database": pool.Ping,
			"redis":    cache.Ping,
			"storage":  storage.EnsureBucket,
		}, log),
		Services: svcs,
	}
	router.Register(e)

	scheduler, err := background.NewJobScheduler(invitationSvc, authSvc, background.Config{
		InvitationSweepInterval: cfg.Jobs.InvitationSweepInterval,
		LoginLogRetention:       time.Duration(cfg.Jobs.LoginLogRetentionDays) * 24 * time.Hour,
	}, log)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.WithError(err).Warn("scheduler shutdown failed")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.WithFields(logrus.Fields{"addr": addr, "version": middleware.Version}).Info("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
