package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	loopconfig "github.com/tomz197/popcatch/internal/loop/config"
)

// ErrInvalidTuning is returned when a tuning file describes an unplayable game.
var ErrInvalidTuning = errors.New("invalid tuning")

// LoadTuning reads gameplay tuning from a YAML or TOML file (chosen by
// extension). Fields missing from the file keep their defaults.
// An empty path returns the defaults.
func LoadTuning(path string) (loopconfig.Tuning, error) {
	tuning := loopconfig.DefaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, fmt.Errorf("failed to read tuning file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &tuning); err != nil {
			return loopconfig.DefaultTuning(), fmt.Errorf("failed to parse tuning TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tuning); err != nil {
			return loopconfig.DefaultTuning(), fmt.Errorf("failed to parse tuning YAML: %w", err)
		}
	default:
		return loopconfig.DefaultTuning(), fmt.Errorf("unsupported tuning file %q", filepath.Base(path))
	}

	if err := ValidateTuning(tuning); err != nil {
		return loopconfig.DefaultTuning(), err
	}
	return tuning, nil
}

// ValidateTuning checks that the parameters keep the difficulty curve
// monotonic and bounded and that the field can hold the catcher.
func ValidateTuning(t loopconfig.Tuning) error {
	switch {
	case t.Width <= 0 || t.Height <= 0:
		return fmt.Errorf("%w: field must have positive size", ErrInvalidTuning)
	case t.ReferenceFrame <= 0 || t.MaxFrameDelta <= 0:
		return fmt.Errorf("%w: frame durations must be positive", ErrInvalidTuning)
	case t.SpawnDelayFloor <= 0 || t.SpawnDelayBase < t.SpawnDelayFloor:
		return fmt.Errorf("%w: spawn delay base must be >= floor > 0", ErrInvalidTuning)
	case t.SpawnAccel <= 0:
		return fmt.Errorf("%w: spawn acceleration must be positive", ErrInvalidTuning)
	case t.GravityGrowth < 0 || t.GravityCeiling < t.GravityBase:
		return fmt.Errorf("%w: gravity must grow toward a ceiling above its base", ErrInvalidTuning)
	case t.ObjectRadius <= 0:
		return fmt.Errorf("%w: object radius must be positive", ErrInvalidTuning)
	case t.WallDamping <= 0 || t.WallDamping > 1:
		return fmt.Errorf("%w: wall damping must be in (0, 1]", ErrInvalidTuning)
	case t.CatcherWidth <= 0 || t.CatcherWidth+2*t.CatcherEdge > t.Width:
		return fmt.Errorf("%w: catcher does not fit the field", ErrInvalidTuning)
	case t.CatcherSmoothing <= 0 || t.CatcherSmoothing > 1:
		return fmt.Errorf("%w: catcher smoothing must be in (0, 1]", ErrInvalidTuning)
	case t.MouthBand <= 0:
		return fmt.Errorf("%w: mouth band must be positive", ErrInvalidTuning)
	}
	return nil
}
