package main

import (
	"context"
	"fauxhr-service/internal/app/config"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/delivery/http/controllers"
	"fauxhr-service/internal/app/delivery/http/middlewares"
	"fauxhr-service/internal/app/delivery/http/routers"
	"fauxhr-service/internal/app/drivers/database"
	"fauxhr-service/internal/app/drivers/logger"
	"fauxhr-service/internal/app/services/core/acp"
	"fauxhr-service/internal/app/services/core/crmi"
	"fauxhr-service/internal/app/services/core/practitioner"
	"fauxhr-service/internal/app/services/fhir_spark/resources"
	"fauxhr-service/internal/app/services/shared/appstate"
	"fauxhr-service/internal/app/services/shared/cache"
	"fauxhr-service/internal/app/services/shared/redis"
	"fauxhr-service/internal/pkg/constvars"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         zapLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	if internalConfig.Cache.Backend == constvars.CacheBackendRedis {
		connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		bootstrap.Redis, err = database.NewRedisClient(connectCtx, driverConfig)
		cancel()
		if err != nil {
			zapLogger.Fatal("Error connecting to redis", zap.Error(err))
		}
		zapLogger.Info("Successfully connected to redis",
			zap.String("redis_host", driverConfig.Redis.Host),
		)
	}

	if err := bootstrapingTheApp(bootstrap); err != nil {
		zapLogger.Fatal("Error bootstraping the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              net.JoinHostPort("", internalConfig.App.Port),
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Server listening",
			zap.String("address", server.Addr),
			zap.String("fhir_base_url", internalConfig.FHIR.BaseUrl),
			zap.String("cache_backend", internalConfig.Cache.Backend),
		)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	zapLogger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error closing dependencies: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig

	// Cache
	var redisRepository contracts.RedisRepository
	if bootstrap.Redis != nil {
		redisRepository = redis.NewRedisRepository(bootstrap.Redis)
	}
	resourceStore, err := cache.NewResourceStore(internalConfig.Cache, redisRepository, bootstrap.Logger)
	if err != nil {
		return err
	}

	// Application state
	state := appstate.NewAppState(
		internalConfig.FHIR.BaseUrl,
		internalConfig.ACP.ReferenceResolutionDepth,
		internalConfig.ACP.ResolverConcurrency,
		bootstrap.Logger,
	)

	// FHIR clients
	fhirClients := resources.NewFhirClientRegistry(resources.NewClientSettings(internalConfig.FHIR), state, bootstrap.Logger)

	// ACP
	referenceResolver := acp.NewReferenceResolver(fhirClients, resourceStore.Cache, resourceStore.Writer, bootstrap.Logger)
	acpQueryUsecase := acp.NewAcpQueryUsecase(fhirClients, resourceStore.Writer, referenceResolver, state, bootstrap.Logger)
	acpIntegratedDataUsecase := acp.NewAcpIntegratedDataUsecase(resourceStore.Cache, bootstrap.Logger)

	// CRMI
	crmiArtifactUsecase := crmi.NewCrmiArtifactUsecase(fhirClients, internalConfig.CRMI.CanonicalBaseUrl, bootstrap.Logger)
	terminologyUsecase, err := crmi.NewTerminologyUsecase(fhirClients, internalConfig.CRMI.ExpansionCacheSize, bootstrap.Logger)
	if err != nil {
		return err
	}
	valueSetBindingUsecase := crmi.NewValueSetBindingUsecase(resourceStore.Cache, resourceStore.Locker, terminologyUsecase, bootstrap.Logger)

	// Practitioner context
	practitionerContextUsecase := practitioner.NewPractitionerContextUsecase(resourceStore.Cache, resourceStore.Locker, state, bootstrap.Logger)
	restoreCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := practitionerContextUsecase.Restore(restoreCtx); err != nil {
		return err
	}

	// Controllers
	acpController := controllers.NewAcpController(bootstrap.Logger, acpQueryUsecase, acpIntegratedDataUsecase, state)
	settingsController := controllers.NewSettingsController(bootstrap.Logger, state, practitionerContextUsecase)
	crmiController := controllers.NewCrmiController(bootstrap.Logger, crmiArtifactUsecase)
	terminologyController := controllers.NewTerminologyController(bootstrap.Logger, terminologyUsecase, valueSetBindingUsecase)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, internalConfig)

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares,
		acpController, settingsController, crmiController, terminologyController)
	return nil
}
