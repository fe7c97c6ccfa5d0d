// main.go - aeolian: generative ambient music engine

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func boilerPlate() {
	fmt.Println("aeolian - generative ambient music engine")
	fmt.Println("https://github.com/blastshielddown/aeolian")
	fmt.Println()
}

func main() {
	boilerPlate()

	var (
		modeLive   bool
		modeExport bool
		duration   float64
		seed       int64
		presetPath string
		outPath    string
		quiet      bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&modeLive, "live", false, "Play live until stopped")
	flagSet.BoolVar(&modeExport, "export", false, "Render offline and export a WAV")
	flagSet.Float64Var(&duration, "duration", 180, "Export duration in seconds")
	flagSet.Int64Var(&seed, "seed", 0, "Random seed (0 = derive from clock)")
	flagSet.StringVar(&presetPath, "preset", "", "Lua preset script")
	flagSet.StringVar(&outPath, "out", "", "Export path (default derived from seed and duration)")
	flagSet.BoolVar(&quiet, "quiet", false, "Suppress per-chord status output")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./aeolian -live|-export [-duration 180] [-seed N] [-preset file.lua] [-out file.wav]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			flagSet.Usage()
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if modeLive && modeExport {
		fmt.Println("Error: select exactly one of -live or -export")
		os.Exit(1)
	}
	if !modeLive && !modeExport {
		modeLive = true // Default to live playback
	}

	preset := DefaultPreset()
	if presetPath != "" {
		var err error
		preset, err = LoadPresetFile(presetPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loaded preset %s\n", presetPath)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
		fmt.Printf("Seed: %d (pass -seed %d to reproduce)\n", seed, seed)
	} else {
		fmt.Printf("Seed: %d\n", seed)
	}

	cfg := EngineConfig{
		Seed:    seed,
		Preset:  preset,
		Verbose: !quiet,
	}
	if modeExport {
		cfg.Mode = SINK_CAPTURE
		cfg.Duration = duration
		cfg.OutPath = outPath
		if cfg.OutPath == "" {
			cfg.OutPath = fmt.Sprintf("aeolian_seed%d_%ds.wav", seed, int(duration))
		}
	} else {
		cfg.Mode = SINK_LIVE
	}

	engine, err := NewEngine(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nStopping...")
		cancel()
	}()

	var keys *keyListener
	if modeLive {
		fmt.Println("Playing live; press q to stop.")
		keys = newKeyListener(cancel)
		keys.Start()
	} else {
		fmt.Printf("Exporting %.0f seconds to %s...\n", duration, cfg.OutPath)
	}

	runErr := engine.Run(ctx)
	if keys != nil {
		keys.Stop()
	}
	if runErr != nil {
		fmt.Printf("Error: %v\n", runErr)
		os.Exit(1)
	}

	if modeExport {
		fmt.Printf("Exported %s (%.0f seconds, %d Hz, stereo)\n", cfg.OutPath, duration, SAMPLE_RATE)
	}
}
