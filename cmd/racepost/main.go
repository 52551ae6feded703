package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/puntingio/racepost/internal/announce"
	"github.com/puntingio/racepost/internal/config"
	"github.com/puntingio/racepost/internal/courses"
	"github.com/puntingio/racepost/internal/history"
	"github.com/puntingio/racepost/internal/notify"
	"github.com/puntingio/racepost/internal/publish"
	"github.com/puntingio/racepost/internal/racing"
	"github.com/puntingio/racepost/internal/run"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel).With().Str("run_id", uuid.NewString()).Logger()

	dir := courses.Default()
	if cfg.CoursesFile != "" {
		dir, err = courses.FromFile(cfg.CoursesFile)
		if err != nil {
			log.Fatal().Err(err).Msg("loading courses file")
		}
	}

	source := racing.NewClient(cfg.RacingUser, cfg.RacingPass, log)
	publisher := publish.NewXClient(publish.Credentials{
		APIKey:       cfg.XAPIKey,
		APISecret:    cfg.XAPISecret,
		AccessToken:  cfg.XAccessToken,
		AccessSecret: cfg.XAccessSecret,
	}, log)
	dedup := history.New(cfg.PostedIDsFile, log)

	controller := run.New(source, announce.New(dir), publisher, dedup, cfg.Region, cfg.MaxPerRun, log)

	rep, err := controller.Run(context.Background(), time.Now().UTC())
	if err != nil {
		// Fetch and persistence failures are the only fatal outcomes;
		// per-candidate failures are already handled inside the run.
		log.Fatal().Err(err).Msg("run failed")
	}

	notify.ReportRun(rep, dedup.Path())

	if cfg.EmailEnabled() {
		sendDigest(cfg, rep, log)
	}
}

func sendDigest(cfg *config.Config, rep *run.Report, log zerolog.Logger) {
	msg, err := notify.NewHTMLEmailRenderer().Render(rep)
	if err != nil {
		log.Error().Err(err).Msg("rendering digest email")
		return
	}

	sender := notify.NewEmailSender(notify.EmailConfig{
		SMTPServer: cfg.SMTPServer,
		SMTPPort:   cfg.SMTPPort,
		SMTPUser:   cfg.SMTPUser,
		SMTPPass:   cfg.SMTPPass,
		FromEmail:  cfg.FromEmail,
		ToEmail:    cfg.ToEmail,
		Enabled:    true,
	})
	if err := sender.Send(msg); err != nil {
		log.Error().Err(err).Msg("sending digest email")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}
