package leaderboard

import (
	"github.com/charmbracelet/log"
)

// StoreConfig selects the backing store.
type StoreConfig struct {
	BinID   string // JSONBin bin; empty selects the local store
	Key     string // JSONBin master key
	URL     string // JSONBin API base; empty uses DefaultJSONBinURL
	AppName string // Local data directory name
}

// OpenStore returns the JSONBin store when a bin is configured, otherwise
// the per-user local store. When the local data directory cannot be opened
// scores are kept in memory for the life of the process.
func OpenStore(cfg StoreConfig, logger *log.Logger) Store {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.BinID != "" {
		if cfg.Key == "" {
			logger.Warn("JSONBin bin set without a key; requests will be rejected")
		}
		logger.Info("using JSONBin leaderboard", "bin", cfg.BinID)
		return NewJSONBinStore(cfg.URL, cfg.BinID, cfg.Key, nil)
	}

	store, err := OpenLocalStore(cfg.AppName)
	if err != nil {
		logger.Warn("scores will not persist", "err", err)
		return NewMemoryStore()
	}
	logger.Info("using local leaderboard", "app", cfg.AppName)
	return store
}
