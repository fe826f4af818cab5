package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parachute_control/internal/chute"
	"parachute_control/internal/hal"
	"parachute_control/internal/handlers"
	"parachute_control/internal/logger"
	"parachute_control/internal/repository"
	"parachute_control/internal/repository/db"
	"parachute_control/internal/server"
	"parachute_control/internal/service"
	"parachute_control/internal/vehicle"

	"github.com/spf13/viper"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := repository.NewRepository(database)

	// load persisted parameters, seeding from config on first boot
	params, err := loadParams(context.Background(), repos, log)
	if err != nil {
		log.Fatalw("failed to load chute parameters", "err", err)
	}
	if params.Trigger == chute.TriggerUnsupported {
		log.Warnw("unsupported trigger type configured; actuation will be a no-op",
			"raw_type", viper.GetInt("chute.type"))
	}

	// hardware abstraction and vehicle state source
	clock := hal.NewClock()
	relay := hal.NewRelay(log)
	servo := hal.NewServo(log)
	notify := hal.NewNotify()
	sim := vehicle.NewSim(
		int32(viper.GetInt("vehicle.roll_limit_cd")),
		int32(viper.GetInt("vehicle.pitch_limit_min_cd")),
	)

	ctrl := chute.NewController(params, relay, servo, clock, notify)

	services := service.NewService(service.Deps{
		Repos:      repos,
		Controller: ctrl,
		Vehicle:    sim,
		Clock:      clock,
		Notify:     notify,
		Stepper:    sim,
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the fixed-rate control loop
	go services.ControlLoop.Run(ctx, loopTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetDefault("vehicle.roll_limit_cd", 4500)
	viper.SetDefault("vehicle.pitch_limit_min_cd", -2500)
	viper.SetDefault("loop.tick_ms", 100)

	d := chute.DefaultParams()
	viper.SetDefault("chute.enabled", d.Enabled)
	viper.SetDefault("chute.type", int(d.Trigger))
	viper.SetDefault("chute.servo_on", int(d.ServoOnPWM))
	viper.SetDefault("chute.servo_off", int(d.ServoOffPWM))
	viper.SetDefault("chute.alt_min", d.AltMinM)
	viper.SetDefault("chute.alt_max", d.AltMaxM)
	viper.SetDefault("chute.delay_ms", d.DelayMS)
	viper.SetDefault("chute.auto_on", d.AutoEnabled)
	viper.SetDefault("chute.roll_mrgn", int(d.RollMarginCd))
	viper.SetDefault("chute.pitch_mrgn", int(d.PitchMarginCd))
	viper.SetDefault("chute.sink_rate", d.SinkRateMS)
	viper.SetDefault("chute.alt_thresh", d.AltThreshM)

	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "chute.db")
		dbPath = "chute.db"
	}
	return db.InitDB(dbPath)
}

// loadParams returns the persisted parameter set, or seeds the table from
// config defaults on first boot.
func loadParams(ctx context.Context, repos *repository.Repository, log *logger.Logger) (chute.Params, error) {
	p, found, err := repos.Params.Load(ctx)
	if err != nil {
		return chute.Params{}, err
	}
	if found {
		return p, nil
	}

	p = paramsFromConfig()
	if err := repos.Params.Save(ctx, p); err != nil {
		return chute.Params{}, err
	}
	log.Infow("seeded chute parameters from config",
		"trigger", p.Trigger.String(), "alt_min_m", p.AltMinM, "delay_ms", p.DelayMS)
	return p, nil
}

func paramsFromConfig() chute.Params {
	return chute.Params{
		Enabled:       viper.GetBool("chute.enabled"),
		Trigger:       chute.TriggerFromParam(viper.GetInt("chute.type")),
		ServoOnPWM:    uint16(viper.GetInt("chute.servo_on")),
		ServoOffPWM:   uint16(viper.GetInt("chute.servo_off")),
		AltMinM:       viper.GetInt("chute.alt_min"),
		AltMaxM:       viper.GetInt("chute.alt_max"),
		DelayMS:       viper.GetInt("chute.delay_ms"),
		AutoEnabled:   viper.GetBool("chute.auto_on"),
		RollMarginCd:  int32(viper.GetInt("chute.roll_mrgn")),
		PitchMarginCd: int32(viper.GetInt("chute.pitch_mrgn")),
		SinkRateMS:    viper.GetFloat64("chute.sink_rate"),
		AltThreshM:    viper.GetInt("chute.alt_thresh"),
	}
}

func loopTick() time.Duration {
	if ms := viper.GetInt("loop.tick_ms"); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return service.DefaultTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the control loop and simulator
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
