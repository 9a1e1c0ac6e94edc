package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donatelife/internal/auth"
	"donatelife/internal/db"
	"donatelife/internal/feed"
	"donatelife/internal/metrics"
	"donatelife/internal/server"
	"donatelife/internal/store"
	"donatelife/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	if config.CognitoClientID == "" || config.CognitoIssuerURL == "" {
		return fmt.Errorf("set COGNITO_CLIENT_ID and COGNITO_ISSUER_URL")
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	donorRepo := store.NewDonorRepository(pool)
	requestRepo := store.NewBloodRequestRepository(pool)

	jwkCache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	err = jwkCache.Register(ctx, auth.JWKSURL(config.CognitoIssuerURL))
	if err != nil {
		return fmt.Errorf("failed to register cognito jwks with cache: %w", err)
	}

	broker, closeBroker, err := newBroker(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeBroker()

	srv, err := server.New(
		config,
		logger,
		auth.NewCognito(cognitoClient, config.CognitoClientID),
		auth.NewVerifier(jwkCache, config.CognitoIssuerURL),
		donorRepo,
		requestRepo,
		broker,
		metrics.New(),
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

// newBroker uses Redis when REDIS_URL is set so every instance sees every
// listing change. Otherwise changes only reach clients of this process.
func newBroker(ctx context.Context, config *types.Config, logger *logrus.Logger) (feed.Broker, func(), error) {
	if config.RedisURL == "" {
		logger.Info("REDIS_URL not set, using in-process listing feed")
		return feed.NewLocal(), func() {}, nil
	}

	client, err := feed.NewRedisClient(ctx, config.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	broker := feed.NewRedis(client, config.FeedChannel, logger)
	return broker, func() {
		if err := broker.Close(); err != nil {
			logger.WithError(err).Warn("failed to close redis broker")
		}
	}, nil
}
