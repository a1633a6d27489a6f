package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/popcatch/internal/config"
	"github.com/tomz197/popcatch/internal/leaderboard"
	"github.com/tomz197/popcatch/internal/loop/app"
	"github.com/tomz197/popcatch/internal/prefs"
	"github.com/tomz197/popcatch/internal/skin"
)

const appName = "popcatch"

func main() {
	config.LoadDotEnv()
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Level: config.LogLevel()})

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
	skinsDir := config.GetEnv("SKINS_DIR", "")
	skins := skin.NewLibrary(skinsDir, logger)

	a := app.New(app.Options{
		User:    prefs.LocalUser,
		Tuning:  tuning,
		Board:   leaderboard.NewService(store, logger),
		Prefs:   prefs.Open(appName, logger),
		Sprites: skins.Sprite,
		Logger:  logger,
	})
	g := newGame(a, skinsDir, logger)

	t := a.Tuning()
	ebiten.SetWindowSize(int(t.Width), int(t.Height))
	ebiten.SetWindowTitle("Popcatch")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
	a.Wait()
}
