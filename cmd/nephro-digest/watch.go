// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// watchCmd keeps the digest pipeline running on a cron schedule.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the digest pipeline on a cron schedule",
	Long: `Watch schedules the digest pipeline with a five-field cron expression
(default: Mondays at 07:00). Each firing runs the same pipeline as the
digest command, with the window ending on the day of the run. Failures
are logged and the schedule keeps going.

Watch blocks until SIGINT or SIGTERM.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("schedule", "", "cron expression (default from config)")
	watchCmd.Flags().Bool("now", false, "run one digest immediately at startup")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	if schedule, _ := cmd.Flags().GetString("schedule"); schedule != "" {
		cfg.Watch.Schedule = schedule
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	loc := time.Local
	if cfg.Watch.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Watch.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", cfg.Watch.Timezone, err)
		}
	}

	runOnce := func() {
		log.Info("digest run starting")
		w := log.Writer()
		d, err := buildDigest(context.Background(), cfg, time.Now().UTC(), "", false, w)
		w.Close()
		if err != nil {
			log.WithError(err).Error("digest run failed")
			return
		}
		log.WithFields(logrus.Fields{
			"window":      d.Summary.Window.String(),
			"articles":    d.Summary.TotalArticles,
			"high_impact": d.Summary.HighImpactCount,
			"suggestions": len(d.Suggestions),
		}).Info("digest run complete")
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.Watch.Schedule, runOnce); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Watch.Schedule, err)
	}

	if now, _ := cmd.Flags().GetBool("now"); now {
		runOnce()
	}

	c.Start()
	log.WithFields(logrus.Fields{
		"schedule": cfg.Watch.Schedule,
		"timezone": loc.String(),
	}).Info("watch started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	// Stop returns a context that finishes when in-flight runs do.
	<-c.Stop().Done()
	return nil
}
