package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Leganyst/parking-platform/internal/config"
	"github.com/Leganyst/parking-platform/internal/db"
	"github.com/Leganyst/parking-platform/internal/grpcapi"
	"github.com/Leganyst/parking-platform/internal/httpapi"
	"github.com/Leganyst/parking-platform/internal/logging"
	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/repository"
	"github.com/Leganyst/parking-platform/internal/service"
	"github.com/Leganyst/parking-platform/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// 1. Конфиг: .env (если есть), затем переменные окружения.
	if err := config.LoadDotEnv(); err != nil {
		logging.Logger().Fatal().Err(err).Msg("load .env")
	}
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("load app config")
	}
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("load db config")
	}

	logging.Init(appCfg.IsDev())
	log := logging.Logger()

	// 2. Телеметрия.
	tel, err := telemetry.New(ctx, telemetry.Config{
		Enabled:     appCfg.OTelEnabled,
		ServiceName: appCfg.OTelService,
		Endpoint:    appCfg.OTelEndpoint,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init telemetry")
	}

	// 3. БД и миграции.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", dbCfg.Driver).Msg("init db")
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto migrate")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("sql DB")
	}
	defer sqlDB.Close()

	store := repository.NewStore(gormDB)

	// 4. Площадка по умолчанию с типовой разметкой мест.
	if appCfg.SeedDefaultLocation {
		loc, err := store.Locations.EnsureByName(ctx, repository.DefaultLocationName, repository.DefaultLocationCity)
		if err != nil {
			log.Fatal().Err(err).Msg("seed location")
		}
		created, err := store.Slots.SeedDefaultLayout(ctx, loc.ID)
		if err != nil {
			log.Fatal().Err(err).Msg("seed slots")
		}
		log.Info().Int64("location_id", loc.ID).Int("created_slots", created).Msg("default location ready")
	}

	// 5. Сервисы.
	opts := []service.Option{
		service.WithRates(appCfg.Rates),
		service.WithReportLocation(appCfg.ReportLocation),
		service.WithTracer(tel.Tracer()),
		service.WithMeter(tel.Meter()),
	}
	parkingSvc, err := service.NewParkingService(store, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("init parking service")
	}
	reportSvc := service.NewReportService(store, opts...)

	// 6. gRPC-сервер.
	grpcServer, healthServer := grpcapi.NewServer(grpcapi.NewParkingServer(parkingSvc, reportSvc), store.Users)

	lis, err := net.Listen("tcp", appCfg.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", appCfg.GRPCAddr).Msg("listen")
	}

	go func() {
		log.Info().Str("addr", appCfg.GRPCAddr).Msg("starting gRPC server")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("grpc serve")
		}
	}()

	// 7. HTTP-сервер.
	httpServer := httpapi.NewServer(appCfg.HTTPAddr, httpapi.NewHandler(appCfg.OTelService, parkingSvc, reportSvc), store.Users)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http serve")
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down...")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	grpcServer.GracefulStop()

	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("telemetry shutdown")
	}
}
