package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/fluiddruid/telemproc/internal/profile"
	"github.com/fluiddruid/telemproc/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.New(config.DBPath)
	defer store.Close()

	return renderProfile(ctx, store, config, logger)
}

func renderProfile(ctx context.Context, store *storage.Store, config *Config, logger *slog.Logger) error {
	session, err := store.Session(ctx, config.SessionID)
	if err != nil {
		return fmt.Errorf("loading session %d: %w", config.SessionID, err)
	}

	logger.Info("loading session track",
		slog.String("source", session.SourceFile),
		slog.String("imported", session.ImportedAt.Local().Format(time.DateTime)))

	points, err := store.Track(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("loading track: %w", err)
	}

	flights, err := store.Flights(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("loading flights: %w", err)
	}

	data := profile.NewData()
	for _, p := range points {
		data.Add(profile.Point{
			At:       p.Timestamp,
			Altitude: p.Altitude,
			Current:  p.Current,
		})
	}
	for _, f := range flights {
		data.AddFlight(profile.Span{Start: f.StartedAt, End: f.EndedAt})
	}

	renderer, err := profile.NewRenderer(profile.Config{
		FontPath:      config.FontPath,
		NoAnnotations: config.NoAnnotations,
	})
	if err != nil {
		return fmt.Errorf("creating profile renderer: %w", err)
	}

	logger.Info("rendering profile",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("points", len(points)),
			slog.Int("flights", len(flights)),
		))

	img, err := renderer.Render(data)
	if err != nil {
		return fmt.Errorf("rendering profile: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}
