package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/falah-io/falah/pkg/reporting"
)

var (
	dbURL    = flag.String("db-url", getEnv("FALAH_POSTGRES_URL", "postgres://localhost/falah?sslmode=disable"), "PostgreSQL connection URL")
	schedule = flag.String("schedule", "30 0 * * *", "Cron schedule for the snapshot job (default: 00:30 UTC)")
	runOnce  = flag.Bool("run-once", false, "Run one snapshot pass and exit")
)

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	db, err := sql.Open("postgres", *dbURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("failed to ping database")
	}

	snapshotter := reporting.NewSnapshotter(reporting.NewStore(db, db))

	if *runOnce {
		written, err := snapshotter.Run(context.Background())
		if err != nil {
			log.WithError(err).Fatal("snapshot pass failed")
		}
		log.WithField("groups", written).Info("snapshot pass completed")
		return
	}

	c := cron.New()
	_, err = c.AddFunc(*schedule, func() {
		written, err := snapshotter.Run(context.Background())
		if err != nil {
			log.WithError(err).Error("scheduled snapshot pass failed")
			return
		}
		log.WithField("groups", written).Info("scheduled snapshot pass completed")
	})
	if err != nil {
		log.WithError(err).Fatal("failed to schedule snapshot job")
	}

	c.Start()
	log.WithField("schedule", *schedule).Info("falah reporter started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	ctx := c.Stop()
	<-ctx.Done()
	log.Info("reporter stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
