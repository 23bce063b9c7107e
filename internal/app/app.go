package app

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/8thgencore/ledgerkv/internal/compute"
	"github.com/8thgencore/ledgerkv/internal/config"
	"github.com/8thgencore/ledgerkv/internal/storage"
	"github.com/8thgencore/ledgerkv/internal/wal"
	"github.com/8thgencore/ledgerkv/pkg/logger"
)

// App represents the main application
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	engine  *storage.Engine
	handler *compute.Handler
}

// SegmentInfo describes one WAL segment on disk
type SegmentInfo struct {
	ID   string `yaml:"id"`
	Size int64  `yaml:"size"`
}

// New creates a new instance of the application
func New(configPath string) (*App, error) {
	// Load configuration
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log := logger.New(cfg.Env, cfg.Logging.Level)

	return NewWithConfig(log, cfg)
}

// NewWithConfig wires the application from an already loaded configuration
func NewWithConfig(log *slog.Logger, cfg *config.Config) (*App, error) {
	// Initialize WAL
	w, err := wal.New(log, cfg.WAL)
	if err != nil {
		return nil, fmt.Errorf("failed to create WAL: %w", err)
	}

	// Initialize storage engine
	engine, err := storage.NewEngine(log, cfg, w)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to create storage engine: %w", err)
	}

	return &App{
		cfg:     cfg,
		log:     log,
		engine:  engine,
		handler: compute.NewHandler(log, engine),
	}, nil
}

// Handle runs a single command line
func (a *App) Handle(input string) (string, error) {
	return a.handler.Handle(input)
}

// RunShell reads commands from in until EOF or "exit" and writes responses to out
func (a *App) RunShell(in io.Reader, out io.Writer) error {
	a.log.Info("Starting shell. Type 'exit' to quit.", "wal", a.cfg.WAL.DataDirectory)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" {
			break
		}

		response, err := a.handler.Handle(input)
		if err != nil {
			fmt.Fprintf(out, "ERROR: %s\n", err)
			continue
		}
		fmt.Fprintln(out, response)
	}

	a.log.Info("Exiting shell")

	return scanner.Err()
}

// Segments describes every WAL segment in creation order
func (a *App) Segments() ([]SegmentInfo, error) {
	ids, err := a.engine.Segments()
	if err != nil {
		return nil, err
	}

	infos := make([]SegmentInfo, 0, len(ids))
	for _, id := range ids {
		info := SegmentInfo{ID: id, Size: -1}
		if st, err := os.Stat(filepath.Join(a.cfg.WAL.DataDirectory, id)); err == nil {
			info.Size = st.Size()
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// Close releases the WAL
func (a *App) Close() error {
	return a.engine.Close()
}
