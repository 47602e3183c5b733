package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"touchtris/client"
	"touchtris/gesture"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[24;0H\n\r\033[?25h"
)

type config struct {
	logFile string
	debug   bool
	options client.Options
}

// parseFlags reads the command line. The gesture flags configure the
// recognizer the client exposes to touch hosts embedding it, the terminal
// itself only delivers key presses.
func parseFlags(args []string) (*config, error) {
	c := &config{options: client.Options{Gesture: gesture.DefaultConfig()}}
	gc := &c.options.Gesture
	var hold bool

	fs := flag.NewFlagSet("touchtris", flag.ContinueOnError)
	fs.StringVar(&c.options.Name, "name", os.Getenv("USER"), "player name shown next to the board")
	fs.BoolVar(&c.options.NoGhost, "noghost", false, "hide the ghost piece")
	fs.StringVar(&c.logFile, "log", os.DevNull, "file to write logs to")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&hold, "hold", false, "touch hosts: recognize long touches instead of double taps")
	fs.Float64Var(&gc.MinSwipeDistance, "swipe", gc.MinSwipeDistance, "touch hosts: minimum swipe distance")
	fs.Float64Var(&gc.MaxTapDistance, "tap", gc.MaxTapDistance, "touch hosts: maximum distance a tap can travel")
	fs.DurationVar(&gc.DoubleTapDelay, "doubletap", gc.DoubleTapDelay, "touch hosts: maximum delay between the taps of a double tap")
	fs.DurationVar(&gc.LongTouchDelay, "longtouch", gc.LongTouchDelay, "touch hosts: how long a touch must be held")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	if hold {
		c.options.Mode = gesture.HoldMode
	}
	return c, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatalf("touchtris must be run in a terminal")
	}

	logger, closeLog, err := newLogger(cfg.logFile, cfg.debug)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer closeLog()

	c, err := client.New(logger, &cfg.options)
	if err != nil {
		log.Fatalf("unable to start client: %v", err)
	}
	defer func() {
		if err := keyboard.Close(); err != nil {
			logger.Error("unable to close keyboard", slog.String("error", err.Error()))
		}
	}()

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)
	c.Start()
}

func newLogger(path string, debug bool) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return l, func() { f.Close() }, nil //nolint:errcheck
}
