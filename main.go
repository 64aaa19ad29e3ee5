package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/muhammadolammi/resumeworker/internal/config"
	"github.com/muhammadolammi/resumeworker/internal/database"
	"github.com/muhammadolammi/resumeworker/internal/logger"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("error creating logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		zlog.Fatal("error opening db", zap.Error(err))
	}
	defer db.Close()
	dbqueries := database.New(db)

	var objects ObjectFetcher
	if cfg.R2.Enabled() {
		awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2.AccessKey, cfg.R2.SecretKey, "")),
			awsconfig.WithRegion("auto"),
		)
		if err != nil {
			zlog.Fatal("error creating aws config", zap.Error(err))
		}
		objects = newR2Fetcher(awsConfig, cfg.R2)
	} else {
		zlog.Info("R2 not configured, reading uploads from the database only")
	}

	analyzer, err := newAnalyzer(ctx, cfg.Generative, zlog)
	if err != nil {
		zlog.Fatal("error creating analyzer", zap.Error(err))
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		zlog.Fatal("error connecting to RabbitMQ", zap.Error(err))
	}
	defer conn.Close()

	publisher, err := newAMQPPublisher(conn)
	if err != nil {
		zlog.Fatal("error setting up update publisher", zap.Error(err))
	}

	workerConfig := WorkerConfig{
		DB:          dbqueries,
		Objects:     objects,
		Publisher:   publisher,
		Analyzer:    analyzer,
		RABBITMQUrl: cfg.RabbitMQURL,
		Logger:      zlog,
	}

	zlog.Info("starting consumer pool", zap.Int("workers", cfg.Workers))
	if err := workerConfig.StartConsumerWorkerPool(ctx, cfg.Workers); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Fatal("consumer pool stopped", zap.Error(err))
	}
	zlog.Info("shutdown complete")
}
