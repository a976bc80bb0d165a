package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rentova-solution/contract-workflow-service/internal/api"
	"github.com/rentova-solution/contract-workflow-service/internal/mailer"
	"github.com/rentova-solution/contract-workflow-service/internal/monitoring"
	"github.com/rentova-solution/contract-workflow-service/internal/otp"
	"github.com/rentova-solution/contract-workflow-service/internal/service"
	"github.com/rentova-solution/contract-workflow-service/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment")
	}

	var (
		port      = flag.Int("port", 8080, "Port for the REST API")
		dbHost    = flag.String("db-host", "localhost", "Database host")
		dbPort    = flag.Int("db-port", 5432, "Database port")
		dbUser    = flag.String("db-user", "admin", "Database user")
		dbPass    = flag.String("db-pass", "securepassword", "Database password")
		dbName    = flag.String("db-name", "contract_workflow", "Database name")
		redisAddr = flag.String("redis-addr", "localhost:6379", "Redis address for OTPs and the view cache")
		sweep     = flag.Duration("sweep-interval", time.Minute, "Activation/expiry sweep interval")
	)
	flag.Parse()

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		*dbHost, *dbPort, *dbUser, *dbPass, *dbName)

	rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})

	repo, err := store.NewWorkflowRepository(dsn, rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer repo.Close()

	workflowService := service.NewWorkflowService(repo, otp.NewStore(rdb), mailer.FromEnv())

	monitoring.InitMetrics()

	worker := service.NewActivationWorker(repo, *sweep)
	worker.Start()
	defer worker.Stop()

	app := iris.New()
	api.Register(app, workflowService)

	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		httpServer := &http.Server{
			Addr:    ":8081",
			Handler: mux,
		}

		log.Info().Msg("HTTP server for health checks and metrics started on port 8081")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	go func() {
		log.Info().Msgf("Starting Contract Workflow Service on port %d", *port)
		if err := app.Listen(fmt.Sprintf(":%d", *port), iris.WithoutInterruptHandler); err != nil {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("API server shutdown error")
	}
	log.Info().Msg("Server exiting")
}
