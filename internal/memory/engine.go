package memory

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

// DefaultResolveDelay is how long a mismatched pair stays face up.
const DefaultResolveDelay = 700 * time.Millisecond

// Timer is the handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred callbacks. The system clock uses time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

type Option func(*Engine)

func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

func WithResolveDelay(d time.Duration) Option { return func(e *Engine) { e.delay = d } }

// WithRand fixes the random source used for deck building.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// Engine owns one game session. All methods are safe for concurrent use;
// flips and deferred resolutions are applied one at a time.
type Engine struct {
	settings  Settings
	icons     IconSource
	presenter Presenter
	clock     Clock
	delay     time.Duration
	rng       *rand.Rand
	logger    *slog.Logger

	mu       sync.Mutex
	cards    []Card
	index    map[string]int
	revealed []string
	current  Player
	scores   Scores
	moves    int
	matches  int
	locked   bool
	state    Lifecycle
	message  string

	// generation identifies the current deck; deferred resolutions
	// scheduled for an older generation are discarded.
	generation uint64
	pending    Timer
	closed     bool
}

// NewEngine creates a session for settings and deals the first game.
func NewEngine(settings Settings, icons IconSource, presenter Presenter, opts ...Option) *Engine {
	e := &Engine{
		settings:  settings.Normalize(),
		icons:     icons,
		presenter: presenter,
		clock:     systemClock{},
		delay:     DefaultResolveDelay,
		state:     LifecycleIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.presenter == nil {
		e.presenter = nopPresenter{}
	}
	if e.icons == nil {
		e.icons = IconList(nil)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}

	e.NewGame()
	return e
}

func (e *Engine) Settings() Settings { return e.settings }

// NewGame discards the current session and deals a fresh deck. A pending
// mismatch resolution from the previous deck never fires.
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	e.cancelPending()
	e.generation++

	e.moves = 0
	e.matches = 0
	e.revealed = nil
	e.locked = false
	e.current = e.settings.StartingPlayer
	e.scores = Scores{}

	e.cards = BuildDeck(e.settings.BoardSize, e.icons.ListIconIdentities(), e.rng)
	e.index = make(map[string]int, len(e.cards))
	for i, c := range e.cards {
		e.index[c.ID] = i
	}
	e.state = LifecyclePlaying

	e.logger.Debug("new game",
		"board_size", e.settings.BoardSize,
		"starting_player", e.current,
		"generation", e.generation,
	)

	e.render()
	e.publishStats()
	e.setMessage(fmt.Sprintf("%s starts", e.current.Title()))
}

// Flip reveals the card with the given id. Flips that are not allowed right
// now are ignored; the return value reports whether the flip was applied.
func (e *Engine) Flip(cardID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != LifecyclePlaying || e.locked {
		return false
	}

	card := e.card(cardID)
	if card == nil || card.State == CardMatched || card.State == CardRevealed {
		return false
	}

	card.State = CardRevealed
	e.revealed = append(e.revealed, card.ID)
	e.render()

	if len(e.revealed) < 2 {
		return true
	}

	e.moves++
	e.publishStats()

	a, b := e.card(e.revealed[0]), e.card(e.revealed[1])
	if a == nil || b == nil {
		e.logger.Warn("revealed card missing from deck", "revealed", e.revealed)
		e.revealed = nil
		return true
	}

	e.locked = true

	if a.PairKey == b.PairKey {
		e.resolveMatch(a, b)
		return true
	}

	e.scheduleHide(a.ID, b.ID)
	return true
}

func (e *Engine) resolveMatch(a, b *Card) {
	a.State, b.State = CardMatched, CardMatched
	a.MatchedBy, b.MatchedBy = e.current, e.current

	e.matches++
	e.scores.add(e.current)

	e.revealed = nil
	e.locked = false

	e.logger.Debug("pair matched", "player", e.current, "score", e.scores.Of(e.current))

	e.render()
	e.publishStats()
	e.setMessage(fmt.Sprintf("Match! %s scores and continues", e.current.Title()))
	e.checkWin()
}

func (e *Engine) scheduleHide(aID, bID string) {
	gen := e.generation
	e.pending = e.clock.AfterFunc(e.delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		if e.closed || e.generation != gen {
			return
		}
		e.pending = nil

		for _, id := range []string{aID, bID} {
			if c := e.card(id); c != nil {
				c.State = CardHidden
			}
		}
		e.revealed = nil
		e.locked = false
		e.current = e.current.Opponent()

		e.render()
		e.publishStats()
		e.setMessage(fmt.Sprintf("No match — %s's turn", e.current.Title()))
	})
}

func (e *Engine) checkWin() {
	if e.matches != e.settings.TotalPairs() {
		return
	}
	e.state = LifecycleWon

	blue, red := e.scores.Blue, e.scores.Red
	switch {
	case blue > red:
		e.setMessage(fmt.Sprintf("Game over — Blue wins (%d:%d)", blue, red))
	case red > blue:
		e.setMessage(fmt.Sprintf("Game over — Red wins (%d:%d)", red, blue))
	default:
		e.setMessage(fmt.Sprintf("Game over — Draw (%d:%d)", blue, red))
	}

	e.logger.Debug("game won", "blue", blue, "red", red, "moves", e.moves)
}

// Winner returns the leading player once the game is won. ok is false while
// the game is running and on a draw.
func (e *Engine) Winner() (winner Player, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != LifecycleWon || e.scores.Blue == e.scores.Red {
		return "", false
	}
	if e.scores.Blue > e.scores.Red {
		return PlayerBlue, true
	}
	return PlayerRed, true
}

// Snapshot returns a copy of the session safe to hand to other goroutines.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		Cards:     slices.Clone(e.cards),
		BoardSize: e.settings.BoardSize,
		Stats:     e.stats(),
		State:     e.state,
		Locked:    e.locked,
		Revealed:  slices.Clone(e.revealed),
		Message:   e.message,
	}
}

// Close stops any pending resolution. The engine ignores all input afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelPending()
	e.generation++
	e.closed = true
	e.state = LifecycleIdle
}

func (e *Engine) cancelPending() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

func (e *Engine) card(id string) *Card {
	i, ok := e.index[id]
	if !ok {
		return nil
	}
	return &e.cards[i]
}

func (e *Engine) stats() Stats {
	return Stats{
		CurrentPlayer: e.current,
		Scores:        e.scores,
		Moves:         e.moves,
		Matches:       e.matches,
		TotalPairs:    e.settings.TotalPairs(),
	}
}

func (e *Engine) render() {
	e.presenter.Render(slices.Clone(e.cards), e.settings.BoardSize)
}

func (e *Engine) publishStats() {
	e.presenter.SetStats(e.stats())
}

func (e *Engine) setMessage(text string) {
	e.message = text
	e.presenter.SetStatusMessage(text)
}

type nopPresenter struct{}

func (nopPresenter) Render([]Card, int)     {}
func (nopPresenter) SetStatusMessage(string) {}
func (nopPresenter) SetStats(Stats)          {}
