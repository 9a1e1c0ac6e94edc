package main

import (
	"context"
	"fmt"

	"donatelife/internal/db"
	"donatelife/internal/storage"
	"donatelife/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v2"
)

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Upload a JSON snapshot of all donors and blood requests to S3",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cfg.S3BucketName == "" {
			return fmt.Errorf("set S3_BUCKET_NAME")
		}

		ctx := context.Background()
		logger := newLogger()

		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		snapshots := storage.NewSnapshotStore(
			s3.NewFromConfig(awsConfig),
			cfg.S3BucketName,
			store.NewDonorRepository(pool),
			store.NewBloodRequestRepository(pool),
		)

		key, err := snapshots.Export(ctx)
		if err != nil {
			return err
		}

		logger.WithField("bucket", cfg.S3BucketName).WithField("key", key).Info("snapshot exported")
		return nil
	},
}
