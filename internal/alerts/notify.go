package alerts

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"virtual-odds/internal/simulation"
)

// Notifier handles alert notifications
type Notifier struct {
	mu         sync.Mutex
	lastAlerts map[string]time.Time // Dedupe alerts
	cooldown   time.Duration        // Minimum time between same alerts
}

// NewNotifier creates a new notifier
func NewNotifier(cooldown time.Duration) *Notifier {
	return &Notifier{
		lastAlerts: make(map[string]time.Time),
		cooldown:   cooldown,
	}
}

// checkCooldown records key and reports whether it fired within the cooldown.
func (n *Notifier) checkCooldown(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if lastTime, ok := n.lastAlerts[key]; ok {
		if time.Since(lastTime) < n.cooldown {
			return true
		}
	}
	n.lastAlerts[key] = time.Now()
	return false
}

// PayoutDrift describes a priced market whose payout left the target band.
type PayoutDrift struct {
	FixtureID string
	HomeTeam  string
	AwayTeam  string
	Market    string
	Payout    float64
	Target    float64
	Tolerance float64
}

// Drifted reports whether payout is outside target ± tolerance.
func Drifted(payout, target, tolerance float64) bool {
	return math.Abs(payout-target) > tolerance
}

// AlertPayoutDrift logs a payout outside the configured band
func (n *Notifier) AlertPayoutDrift(d PayoutDrift) {
	key := fmt.Sprintf("drift-%s-%s", d.FixtureID, d.Market)
	if n.checkCooldown(key) {
		return
	}

	log.Printf("PAYOUT DRIFT: %s %s-%s | payout=%.2f%% target=%.2f%% ±%.2f%%",
		d.Market, d.HomeTeam, d.AwayTeam,
		d.Payout*100, d.Target*100, d.Tolerance*100,
	)
}

// LogRoundPublished logs a newly priced round
func (n *Notifier) LogRoundPublished(roundID string, fixtures int, firstKickoff time.Time) {
	log.Printf("Round %s published: %d fixtures, first kickoff %s",
		roundID, fixtures, firstKickoff.Format("15:04"))
}

// LogResult logs one simulated result
func (n *Notifier) LogResult(home, away string, s simulation.Settlement) {
	log.Printf("RESULT: %s %d-%d %s | %s %s %s %s",
		home, s.HomeGoals, s.AwayGoals, away,
		s.Result, s.Totals, s.Btts, s.Score,
	)
}

// LogError logs an error, at most once per cooldown for the same context
func (n *Notifier) LogError(context string, err error) {
	if n.checkCooldown("error-" + context + "-" + err.Error()) {
		return
	}
	log.Printf("ERROR [%s]: %v", context, err)
}

// LogStartup logs generator startup
func (n *Notifier) LogStartup(config string) {
	log.Printf("Odds generator started |%s", config)
}

// CleanupOldAlerts removes stale alert records
func (n *Notifier) CleanupOldAlerts() {
	n.mu.Lock()
	defer n.mu.Unlock()
	cutoff := time.Now().Add(-1 * time.Hour)
	for key, t := range n.lastAlerts {
		if t.Before(cutoff) {
			delete(n.lastAlerts, key)
		}
	}
}
