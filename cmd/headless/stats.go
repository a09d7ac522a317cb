package main

import (
	"go.uber.org/zap"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/watchers"
)

// runStats aggregates match events across every match of a run.
type runStats struct {
	*watchers.Registry
	cards   *watchers.CardsPlayedWatcher
	lost    *watchers.UnitsLostWatcher
	attacks *watchers.AttacksWatcher
}

func newStats() *runStats {
	st := &runStats{
		Registry: watchers.NewRegistry(),
		cards:    watchers.NewCardsPlayedWatcher(),
		lost:     watchers.NewUnitsLostWatcher(),
		attacks:  watchers.NewAttacksWatcher(),
	}
	st.Add(st.cards)
	st.Add(st.lost)
	st.Add(st.attacks)
	return st
}

func (st *runStats) log(logger *zap.Logger) {
	for _, p := range []board.Player{board.PlayerA, board.PlayerB} {
		a := st.attacks.GetStats(p)
		logger.Info("player stats",
			zap.String("player", string(p)),
			zap.Int("cards_played", len(st.cards.GetCardsPlayed(p))),
			zap.Int("reactions", st.cards.GetReactionCount(p)),
			zap.Int("hits", a.Hits),
			zap.Int("misses", a.Misses),
			zap.Int("rerolls", a.Rerolls),
			zap.Int("units_lost", len(st.lost.GetUnitsLost(p))),
		)
	}
}
