package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/wrl-retro/pocketcore/pocket"
	"github.com/wrl-retro/pocketcore/pocket/render"
	"github.com/wrl-retro/pocketcore/pocket/video"
)

func main() {
	app := cli.NewApp()
	app.Name = "pocket"
	app.Description = "A handheld console core emulator"
	app.Usage = "pocket [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "model",
			Usage: "Hardware model to boot as: dmg, cgb, mgb, sgb",
			Value: "dmg",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a terminal display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("pocket: fatal", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	model, err := parseModel(c.String("model"))
	if err != nil {
		return err
	}

	romBytes, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	engine, err := pocket.New(pocket.Config{Model: model}, romBytes, nil)
	if err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}
	slog.Info("cartridge loaded", "rom", romPath, "model", c.String("model"))

	if c.Bool("headless") {
		return runHeadless(engine, c.Int("frames"), c.Int("snapshot-interval"), c.String("snapshot-dir"))
	}

	term, err := render.New(engine)
	if err != nil {
		return err
	}
	return term.Run()
}

func parseModel(name string) (pocket.Model, error) {
	switch name {
	case "dmg":
		return pocket.ModelDMG, nil
	case "cgb":
		return pocket.ModelCGB, nil
	case "mgb":
		return pocket.ModelMGB, nil
	case "sgb":
		return pocket.ModelSGB, nil
	default:
		return 0, fmt.Errorf("unknown model %q", name)
	}
}

func runHeadless(engine *pocket.Engine, frames, snapshotInterval int, snapshotDir string) error {
	if frames <= 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}

	if snapshotInterval > 0 && snapshotDir == "" {
		tempDir, err := os.MkdirTemp("", "pocket-snapshots-*")
		if err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
		snapshotDir = tempDir
	}

	frameBuf := make([]uint32, video.Size)
	for i := 0; i < frames; i++ {
		if err := engine.RunUntilFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}

		if snapshotInterval > 0 && (i+1)%snapshotInterval == 0 {
			engine.Flush(frameBuf)
			path := fmt.Sprintf("%s/frame_%d.txt", snapshotDir, i+1)
			if err := saveSnapshot(frameBuf, path); err != nil {
				slog.Error("failed to save snapshot", "frame", i+1, "path", path, "error", err)
			} else {
				slog.Info("saved frame snapshot", "frame", i+1, "path", path)
			}
		}

		if (i+1)%10 == 0 {
			slog.Info("frame progress", "completed", i+1, "total", frames)
		}
	}

	slog.Info("headless run completed", "frames", frames, "instructions", engine.InstructionCount(), "cycles", engine.CycleCount())
	return nil
}

func saveSnapshot(frame []uint32, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "# pocket frame snapshot\n")
	fmt.Fprintf(file, "# resolution: %dx%d\n", video.Width, video.Height)

	shade := func(pixel uint32) byte {
		switch pixel {
		case 0x081820:
			return '#'
		case 0x346856:
			return '+'
		case 0x88C070:
			return '.'
		default:
			return ' '
		}
	}

	for y := 0; y < video.Height; y++ {
		line := make([]byte, video.Width)
		for x := 0; x < video.Width; x++ {
			line[x] = shade(frame[y*video.Width+x])
		}
		if _, err := file.Write(line); err != nil {
			return err
		}
		if _, err := file.WriteString("\n"); err != nil {
			return err
		}
	}
	return nil
}
