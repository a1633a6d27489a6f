// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield resolution - the logical coordinate space of the simulation.
// Actual rendering scales to fit the terminal or window.
const (
	FieldWidth  = 640
	FieldHeight = 480
)

// Player
const (
	MaxUsernameLength = 16 // Maximum length for player names
	DefaultPlayerName = "Player"
)

// Leaderboard
const (
	LeaderboardStored    = 200 // Most recent entries kept in the store
	LeaderboardDisplayed = 50  // Entries surfaced on the board
	StoreTimeout         = 10 * time.Second
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Max render resolution in terminal cells. Larger terminals get a centered
// render area with a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// UI timings
const (
	HintSeconds  = 2.0
	ToastSeconds = 2.0
)

// KeySteerSpeed is how far held arrow keys move the catcher target, in
// logical pixels per reference frame.
const KeySteerSpeed = 9.0

// Tuning holds the gameplay parameters of the simulation. Units are logical
// pixels and pixels per reference frame, tuned at 60Hz.
type Tuning struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`

	// Frame normalization
	ReferenceFrame time.Duration `yaml:"referenceFrame" toml:"reference_frame"`
	MaxFrameDelta  time.Duration `yaml:"maxFrameDelta" toml:"max_frame_delta"`

	// Spawning
	SpawnDelayBase  time.Duration `yaml:"spawnDelayBase" toml:"spawn_delay_base"`
	SpawnDelayFloor time.Duration `yaml:"spawnDelayFloor" toml:"spawn_delay_floor"`
	SpawnAccel      float64       `yaml:"spawnAccel" toml:"spawn_accel"` // per second
	FirstSpawnDelay time.Duration `yaml:"firstSpawnDelay" toml:"first_spawn_delay"`

	// Gravity
	GravityBase    float64 `yaml:"gravityBase" toml:"gravity_base"`
	GravityGrowth  float64 `yaml:"gravityGrowth" toml:"gravity_growth"` // per second
	GravityCeiling float64 `yaml:"gravityCeiling" toml:"gravity_ceiling"`

	// Falling objects
	ObjectRadius   float64 `yaml:"objectRadius" toml:"object_radius"`
	SpawnY         float64 `yaml:"spawnY" toml:"spawn_y"`
	LaunchVY       float64 `yaml:"launchVY" toml:"launch_vy"`
	LaunchVXMin    float64 `yaml:"launchVXMin" toml:"launch_vx_min"`
	LaunchVXSpread float64 `yaml:"launchVXSpread" toml:"launch_vx_spread"`
	LaunchBoostCap float64 `yaml:"launchBoostCap" toml:"launch_boost_cap"`
	LaunchBoostLog float64 `yaml:"launchBoostLog" toml:"launch_boost_log"`

	// Bounds
	WallInset   float64 `yaml:"wallInset" toml:"wall_inset"`
	WallDamping float64 `yaml:"wallDamping" toml:"wall_damping"`
	FloorInset  float64 `yaml:"floorInset" toml:"floor_inset"`

	// Catcher
	CatcherWidth     float64 `yaml:"catcherWidth" toml:"catcher_width"`
	CatcherHeight    float64 `yaml:"catcherHeight" toml:"catcher_height"`
	CatcherBottom    float64 `yaml:"catcherBottom" toml:"catcher_bottom"` // gap between catcher and field bottom
	CatcherEdge      float64 `yaml:"catcherEdge" toml:"catcher_edge"`
	CatcherSmoothing float64 `yaml:"catcherSmoothing" toml:"catcher_smoothing"` // per reference frame
	MouthOffset      float64 `yaml:"mouthOffset" toml:"mouth_offset"`
	MouthBand        float64 `yaml:"mouthBand" toml:"mouth_band"`
}

// DefaultTuning returns the stock gameplay parameters.
func DefaultTuning() Tuning {
	return Tuning{
		Width:  FieldWidth,
		Height: FieldHeight,

		ReferenceFrame: 16670 * time.Microsecond,
		MaxFrameDelta:  40 * time.Millisecond,

		SpawnDelayBase:  1400 * time.Millisecond,
		SpawnDelayFloor: 120 * time.Millisecond,
		SpawnAccel:      0.035,
		FirstSpawnDelay: 300 * time.Millisecond,

		GravityBase:    0.32,
		GravityGrowth:  0.006,
		GravityCeiling: 1.6,

		ObjectRadius:   14,
		SpawnY:         20,
		LaunchVY:       0.35,
		LaunchVXMin:    1.3,
		LaunchVXSpread: 0.8,
		LaunchBoostCap: 0.35,
		LaunchBoostLog: 0.08,

		WallInset:   6,
		WallDamping: 0.98,
		FloorInset:  8,

		CatcherWidth:     120,
		CatcherHeight:    80,
		CatcherBottom:    20,
		CatcherEdge:      4,
		CatcherSmoothing: 0.25,
		MouthOffset:      8,
		MouthBand:        18,
	}
}

// FloorY returns the y coordinate of the floor line.
func (t Tuning) FloorY() float64 {
	return t.Height - t.FloorInset
}

// Lobby
const (
	ServerTickRate  = 10 // Lobby updates per second
	ServerTickTime  = time.Second / ServerTickRate
	LiveScoresShown = 5 // Best running games listed on the HUD
)
