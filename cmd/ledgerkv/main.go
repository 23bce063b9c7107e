package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/8thgencore/ledgerkv/internal/app"
	"github.com/8thgencore/ledgerkv/internal/compute"
)

// CLI describes the command line interface
type CLI struct {
	Config string `short:"c" help:"Path to the YAML config file." default:"config.yaml" env:"CONFIG_PATH" type:"path"`

	Repl     ReplCmd     `cmd:"" default:"1" help:"Start an interactive shell."`
	Set      SetCmd      `cmd:"" help:"Store a value."`
	Get      GetCmd      `cmd:"" help:"Read a value."`
	Del      DelCmd      `cmd:"" help:"Delete a key."`
	Rotate   RotateCmd   `cmd:"" help:"Start a new WAL segment."`
	Segments SegmentsCmd `cmd:"" help:"List WAL segments in creation order."`
}

// ReplCmd starts the interactive shell
type ReplCmd struct{}

func (c *ReplCmd) Run(a *app.App) error {
	return a.RunShell(os.Stdin, os.Stdout)
}

// SetCmd stores a value
type SetCmd struct {
	Key   string `arg:"" help:"Key to store."`
	Value string `arg:"" help:"Value to store, without whitespace."`
}

func (c *SetCmd) Run(a *app.App) error {
	return run(a, compute.CommandSet, c.Key, c.Value)
}

// GetCmd reads a value
type GetCmd struct {
	Key string `arg:"" help:"Key to read."`
}

func (c *GetCmd) Run(a *app.App) error {
	return run(a, compute.CommandGet, c.Key)
}

// DelCmd deletes a key
type DelCmd struct {
	Key string `arg:"" help:"Key to delete."`
}

func (c *DelCmd) Run(a *app.App) error {
	return run(a, compute.CommandDel, c.Key)
}

// RotateCmd starts a new WAL segment
type RotateCmd struct{}

func (c *RotateCmd) Run(a *app.App) error {
	return run(a, compute.CommandRotate)
}

// SegmentsCmd lists WAL segments
type SegmentsCmd struct {
	Format string `help:"Output format." enum:"text,yaml" default:"text"`
}

func (c *SegmentsCmd) Run(a *app.App) error {
	segments, err := a.Segments()
	if err != nil {
		return err
	}

	if c.Format == "yaml" {
		out, err := yaml.Marshal(map[string]any{"segments": segments})
		if err != nil {
			return fmt.Errorf("failed to encode segments: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	for _, s := range segments {
		fmt.Printf("%s\t%d\n", s.ID, s.Size)
	}

	return nil
}

func run(a *app.App, command string, args ...string) error {
	response, err := a.Handle(strings.Join(append([]string{command}, args...), " "))
	if err != nil {
		return err
	}
	fmt.Println(response)

	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ledgerkv"),
		kong.Description("Embedded key-value store with a write-ahead log."),
		kong.UsageOnError(),
	)

	application, err := app.New(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	err = ctx.Run(application)
	if closeErr := application.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Failed to close application: %v\n", closeErr)
	}

	if compute.IsNotFound(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ctx.FatalIfErrorf(err)
}
