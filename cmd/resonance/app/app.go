package app

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/roman-kulish/rlc-resonance/internal/storage"
)

// Run solves the configured circuit with both methods, prints the report to
// stdout and writes whichever outputs the configuration enables
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	return run(ctx, config, logger, os.Stdout)
}

func run(ctx context.Context, config *Config, logger *slog.Logger, stdout io.Writer) error {
	logger.Info("solving",
		slog.Group("circuit",
			slog.Float64("inductance", config.Circuit.Inductance),
			slog.Float64("capacitance", config.Circuit.Capacitance),
		),
		slog.Float64("target", config.Solver.TargetFrequency),
		slog.Float64("tolerance", config.Solver.Tolerance),
	)

	solutions, err := Solve(ctx, config)
	if err != nil {
		return fmt.Errorf("solving: %w", err)
	}

	for _, s := range solutions {
		attrs := []any{slog.String("method", s.Method.String())}
		if s.Result != nil {
			attrs = append(attrs, slog.Int("iterations", s.Result.Iterations))
		}
		if s.Found() {
			logger.Debug("root found", append(attrs, slog.Float64("resistance", s.Resistance))...)
		} else {
			logger.Warn("root not found", append(attrs, slog.String("reason", s.Err.Error()))...)
		}
	}

	if err = WriteReport(stdout, solutions); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if !config.Output.NoChart {
		if err = writeChart(config, solutions, logger); err != nil {
			return err
		}
	}

	if config.Output.DBPath != "" {
		if err = storeSolutions(ctx, config, solutions, logger); err != nil {
			return err
		}
	}

	if config.Output.XLSXFile != "" {
		if err = SaveToXLSX(config.Output.XLSXFile, solutions); err != nil {
			return fmt.Errorf("saving workbook: %w", err)
		}
		logger.Info("workbook saved", slog.String("destination", config.Output.XLSXFile))
	}

	return nil
}

func writeChart(config *Config, solutions []Solution, logger *slog.Logger) error {
	renderer, err := NewChartRenderer(RenderConfig{})
	if err != nil {
		return fmt.Errorf("creating chart renderer: %w", err)
	}

	chart := NewChartData(config, solutions)
	img, err := renderer.Render(chart)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}

	destination := config.ChartPath()
	logger.Info("rendering chart",
		slog.Group("image",
			slog.String("destination", destination),
			slog.String("format", string(config.Output.Format)),
			slog.Int("width", img.Bounds().Dx()),
			slog.Int("height", img.Bounds().Dy()),
		))

	out, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}

	if err = encodeImage(out, img, config.Output.Format); err != nil {
		_ = out.Close()
		return fmt.Errorf("encoding chart: %w", err)
	}
	return out.Close()
}

func encodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case ImagePNG:
		return png.Encode(w, img)

	case ImageJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{
			Quality: 98,
		})

	default:
		return fmt.Errorf("unsupported image format: %s", format)
	}
}

func storeSolutions(ctx context.Context, config *Config, solutions []Solution, logger *slog.Logger) error {
	store := storage.NewSqliteStore(config.Output.DBPath)
	defer store.Close()

	sessionID, err := store.CreateSession(ctx, config)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	for _, s := range solutions {
		if _, err = store.StoreResult(ctx, sessionID, s.Result, s.Frequency, s.Err); err != nil {
			return fmt.Errorf("storing %s result: %w", s.Method, err)
		}
	}

	logger.Info("run recorded", slog.String("database", config.Output.DBPath), slog.Int64("session", sessionID))
	return nil
}
