package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"virtual-odds/internal/board"
	"virtual-odds/internal/engine"
	"virtual-odds/internal/odds"
)

// roundSource is the live board published by the engine.
type roundSource interface {
	Current() *engine.Round
}

// quoteStore is the persisted board.
type quoteStore interface {
	ListRound(roundID string) ([]board.Quote, error)
	GetFixtureOdds(fixtureID string) ([]board.Quote, error)
}

type fixtureView struct {
	ID           string                     `json:"id"`
	Index        int                        `json:"index"`
	HomeTeam     string                     `json:"home_team"`
	AwayTeam     string                     `json:"away_team"`
	Kickoff      time.Time                  `json:"kickoff"`
	Result       map[string]decimal.Decimal `json:"1x2"`
	Totals       map[string]decimal.Decimal `json:"under_over_2_5"`
	Btts         map[string]decimal.Decimal `json:"goal_nogoal"`
	CorrectScore map[string]decimal.Decimal `json:"correct_score"`
}

type roundView struct {
	RoundID  string        `json:"round_id"`
	Start    time.Time     `json:"start"`
	Fixtures []fixtureView `json:"fixtures"`
}

func newRoundView(r *engine.Round) roundView {
	view := roundView{
		RoundID:  r.ID,
		Start:    r.Start,
		Fixtures: make([]fixtureView, 0, len(r.Fixtures)),
	}
	for _, pf := range r.Fixtures {
		view.Fixtures = append(view.Fixtures, fixtureView{
			ID:           pf.ID,
			Index:        pf.Index,
			HomeTeam:     pf.Home.Name,
			AwayTeam:     pf.Away.Name,
			Kickoff:      pf.Kickoff,
			Result:       pf.Markets.Result.Wire(),
			Totals:       pf.Markets.Totals.Wire(),
			Btts:         pf.Markets.Btts.Wire(),
			CorrectScore: pf.Markets.CorrectScore.Odds.Wire(),
		})
	}
	return view
}

// quotesView groups stored quotes back into fixtures, keeping store order.
func quotesView(roundID string, quotes []board.Quote) roundView {
	view := roundView{RoundID: roundID, Fixtures: []fixtureView{}}
	byID := make(map[string]int)
	for _, q := range quotes {
		i, ok := byID[q.FixtureID]
		if !ok {
			i = len(view.Fixtures)
			byID[q.FixtureID] = i
			view.Fixtures = append(view.Fixtures, fixtureView{
				ID:           q.FixtureID,
				Index:        q.Position,
				HomeTeam:     q.HomeTeam,
				AwayTeam:     q.AwayTeam,
				Kickoff:      q.Kickoff,
				Result:       map[string]decimal.Decimal{},
				Totals:       map[string]decimal.Decimal{},
				Btts:         map[string]decimal.Decimal{},
				CorrectScore: map[string]decimal.Decimal{},
			})
			if view.Start.IsZero() || q.Kickoff.Before(view.Start) {
				view.Start = q.Kickoff
			}
		}
		f := &view.Fixtures[i]
		switch odds.MarketType(q.Market) {
		case odds.MarketResult:
			f.Result[q.Outcome] = q.Odds
		case odds.MarketTotals:
			f.Totals[q.Outcome] = q.Odds
		case odds.MarketBtts:
			f.Btts[q.Outcome] = q.Odds
		case odds.MarketCorrectScore:
			f.CorrectScore[q.Outcome] = q.Odds
		}
	}
	return view
}

func newMux(rounds roundSource, store quoteStore) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /board", func(w http.ResponseWriter, r *http.Request) {
		if roundID := r.URL.Query().Get("round"); roundID != "" {
			if store == nil {
				http.Error(w, "board store disabled", http.StatusServiceUnavailable)
				return
			}
			quotes, err := store.ListRound(roundID)
			if err != nil {
				slog.Error("Listing round", "round", roundID, "err", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if len(quotes) == 0 {
				http.Error(w, "round not found", http.StatusNotFound)
				return
			}
			writeJSON(w, quotesView(roundID, quotes))
			return
		}

		current := rounds.Current()
		if current == nil {
			http.Error(w, "no round published yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, newRoundView(current))
	})

	mux.HandleFunc("GET /fixtures/{id}", func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			http.Error(w, "board store disabled", http.StatusServiceUnavailable)
			return
		}
		id := r.PathValue("id")
		quotes, err := store.GetFixtureOdds(id)
		if err != nil {
			slog.Error("Fetching fixture", "fixture", id, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if len(quotes) == 0 {
			http.Error(w, "fixture not found", http.StatusNotFound)
			return
		}
		writeJSON(w, quotesView(quotes[0].RoundID, quotes).Fixtures[0])
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encoding response", "err", err)
	}
}
