package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/popcatch/internal/config"
	"github.com/tomz197/popcatch/internal/leaderboard"
	"github.com/tomz197/popcatch/internal/loop"
	"github.com/tomz197/popcatch/internal/loop/app"
	"github.com/tomz197/popcatch/internal/prefs"
	"github.com/tomz197/popcatch/internal/skin"
)

const appName = "popcatch"

func main() {
	config.LoadDotEnv()

	// Stdout is the game screen, so logs only go to a file when asked for
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("POPCATCH_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{ReportTimestamp: true, Level: config.LogLevel()})

	tuning, err := config.LoadTuning(config.GetEnv("POPCATCH_TUNING", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load tuning: %v\n", err)
		os.Exit(1)
	}

	store := leaderboard.OpenStore(leaderboard.StoreConfig{
		BinID:   config.GetEnv("JSONBIN_BIN_ID", ""),
		Key:     config.GetEnv("JSONBIN_KEY", ""),
		URL:     config.GetEnv("JSONBIN_URL", ""),
		AppName: appName,
	}, logger)
	skins := skin.NewLibrary(config.GetEnv("SKINS_DIR", ""), logger)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, loop.Options{
		Username: prefs.LocalUser,
		App: app.Options{
			Tuning:  tuning,
			Board:   leaderboard.NewService(store, logger),
			Prefs:   prefs.Open(appName, logger),
			Sprites: skins.Sprite,
			Logger:  logger,
		},
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
