package app

import (
	"context"
	"errors"
)

// saveScore stores a finished game in the background.
func (a *App) saveScore(name string, score int) {
	a.saveGen++
	gen := a.saveGen
	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.opts.Timeout)
		defer cancel()

		entry, err := a.opts.Board.Save(ctx, name, score)
		a.saveCh <- saveResult{gen: gen, entry: entry, err: err}
	}()
}

// loadBoard fetches the leaderboard in the background. Results of older
// generations are dropped when they arrive.
func (a *App) loadBoard(gen int) {
	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.opts.Timeout)
		defer cancel()

		entries, err := a.opts.Board.Top(ctx)
		res := boardResult{gen: gen, entries: entries, err: err}
		// Keep only the newest result
		for {
			select {
			case a.boardCh <- res:
				return
			default:
			}
			select {
			case old := <-a.boardCh:
				if old.gen > res.gen {
					res = old
				}
			default:
			}
		}
	}()
}

// pollResults applies finished store calls without blocking.
func (a *App) pollResults() {
	for {
		select {
		case res := <-a.saveCh:
			a.applySave(res)
		case res := <-a.boardCh:
			a.applyBoard(res)
		default:
			return
		}
	}
}

func (a *App) applySave(res saveResult) {
	if res.gen != a.saveGen {
		return
	}
	if res.err != nil {
		a.save = SaveFailed
		a.logger.Error("score not saved", "score", res.entry.Score, "err", res.err)
		return
	}
	a.save = SaveDone
	// A board opened while saving should include the new score
	a.RefreshBoard()
}

func (a *App) applyBoard(res boardResult) {
	if res.gen != a.boardGen {
		return
	}
	if res.err != nil {
		a.board = BoardFailed
		a.entries = nil
		if !errors.Is(res.err, context.Canceled) {
			a.logger.Warn("leaderboard not loaded", "err", res.err)
		}
		return
	}
	a.board = BoardReady
	a.entries = res.entries
}
