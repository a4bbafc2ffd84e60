package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"media-gallery/internal/catalog"
	"media-gallery/internal/decoder"
	"media-gallery/internal/logging"
	"media-gallery/internal/timer"
)

func main() {
	dbPath := flag.String("db", filepath.Join(os.TempDir(), "gallery-tui.db"), "catalog database path")
	flag.Parse()

	dir := "."
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	if err := run(dir, *dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "gallery-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(dir, dbPath string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal")
	}

	// Log lines would corrupt the screen.
	logFile, err := os.CreateTemp("", "gallery-tui-*.log")
	if err != nil {
		return err
	}
	defer logFile.Close()
	logging.SetOutput(logFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := catalog.New(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	items, err := catalog.NewScanner(store, catalog.NewProber(), nil, 0).Scan(ctx, dir)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no media files in %s", dir)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.HideCursor()
	screen.EnableMouse()

	loop := timer.NewLoop(256)
	factory := decoder.NewFactory(loop, decoder.ProbeVideo)
	a := newApp(screen, items, factory, timer.NewLoopScheduler(loop))
	defer a.close()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case ev := <-events:
				loop.Post(func() {
					if a.handleEvent(ev) {
						cancel()
					}
				})
			case now := <-ticker.C:
				loop.Post(func() {
					factory.Tick(now)
					a.tick(now)
				})
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
