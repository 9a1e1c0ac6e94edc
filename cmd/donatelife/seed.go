package main

import (
	"context"
	"fmt"
	"time"

	"donatelife/internal/db"
	"donatelife/internal/seed"
	"donatelife/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with sample donors and blood requests",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the records instead of writing them",
		},
	},
	Action: func(c *cli.Context) error {
		now := time.Now()

		if c.Bool("dry-run") {
			pp.Println(seed.FakeDonors(now))
			pp.Println(seed.FakeRequests(now))
			return nil
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		donors, err := seed.SeedFakeDonors(ctx, store.NewDonorRepository(pool), now)
		if err != nil {
			return fmt.Errorf("failed to seed donors: %w", err)
		}

		requests, err := seed.SeedFakeRequests(ctx, store.NewBloodRequestRepository(pool), now)
		if err != nil {
			return fmt.Errorf("failed to seed blood requests: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"donors":   donors,
			"requests": requests,
		}).Info("Seed data written")

		return nil
	},
}
