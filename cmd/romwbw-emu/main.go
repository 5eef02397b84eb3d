// entry point

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/avwohl/romwbw-emu/internal/driver"
	"github.com/avwohl/romwbw-emu/internal/hbios"
	"github.com/avwohl/romwbw-emu/internal/hostterm"
	"github.com/avwohl/romwbw-emu/internal/scriptedinput"
	"github.com/avwohl/romwbw-emu/internal/vdabackend"
	"github.com/avwohl/romwbw-emu/internal/version"
)

func main() {
	romPath := flag.String("rom", "", "path to a RomWBW HBIOS ROM image")
	disk0 := flag.String("disk0", "", "path to a disk image for unit 0")
	sliceCount := flag.Int("slices", 1, "number of 8MiB slices exposed by disk0 (1-8)")
	bootString := flag.String("boot", "", "line of input to queue before the first batch")
	batchSize := flag.Int("batch", 10000, "instructions executed per RunBatch call")
	showVersion := flag.Bool("version", false, "print the version and exit")
	backend := flag.String("backend", "term", "output backend: term (interactive), or one of the headless vdabackend drivers (ansi, null, logger)")
	script := flag.String("script", "", "path to a scripted-input file to feed instead of the keyboard (implies a headless -backend)")
	flag.Parse()

	if *showVersion {
		fmt.Print(version.Banner())
		return
	}

	if *romPath == "" {
		fmt.Println("Usage: romwbw-emu -rom path/to/image.rom [-disk0 path/to/disk.img]")
		return
	}

	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	if os.Getenv("DEBUG") != "" {
		lvl.Set(slog.LevelDebug)
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Printf("Error reading ROM %s: %s\n", *romPath, err)
		os.Exit(1)
	}

	drv, err := driver.New(rom, log)
	if err != nil {
		fmt.Printf("Error loading ROM: %s\n", err)
		os.Exit(1)
	}

	if *disk0 != "" {
		data, err := os.ReadFile(*disk0)
		if err != nil {
			fmt.Printf("Error reading disk image %s: %s\n", *disk0, err)
			os.Exit(1)
		}
		if err := drv.Disks().Attach(0, data, uint8(*sliceCount)); err != nil {
			fmt.Printf("Error attaching disk image: %s\n", err)
			os.Exit(1)
		}
	}

	if *bootString != "" {
		drv.SetBootString(*bootString)
	}

	var feeder *scriptedinput.Feeder
	if *script != "" {
		feeder, err = scriptedinput.Load(*script)
		if err != nil {
			fmt.Printf("Error reading script %s: %s\n", *script, err)
			os.Exit(1)
		}
		if *backend == "term" {
			*backend = "ansi"
		}
	}

	var term *hostterm.Term
	var delegate hbios.Delegate
	if *backend == "term" {
		term = hostterm.New()
		if err := term.Setup(drv.QueueInput); err != nil {
			fmt.Printf("Error initialising terminal: %s\n", err)
			os.Exit(1)
		}
		defer term.TearDown()
		delegate = term
	} else {
		del, ok := vdabackend.New(*backend)
		if !ok {
			fmt.Printf("Unknown -backend %q (available: %v, term)\n", *backend, vdabackend.Names())
			os.Exit(1)
		}
		delegate = del
	}
	drv.SetDelegate(delegate)

	drv.Start()

	for {
		if feeder != nil {
			for feeder.Pending() {
				ch, ok := feeder.Next()
				if !ok {
					break
				}
				drv.QueueInput(ch)
			}
		}

		_, state := drv.RunBatch(*batchSize)

		if state == hbios.StateHalted {
			log.Info("CPU halted", slog.Uint64("instructions", drv.InstructionCount()))
			return
		}

		time.Sleep(time.Millisecond)
	}
}
