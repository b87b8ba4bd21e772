// Package memory implements the two-player concentration game: deck
// construction and the flip/match state machine. It has no knowledge of
// HTTP, storage or rendering.
package memory

type Player string

const (
	PlayerBlue Player = "blue"
	PlayerRed  Player = "red"
)

// Valid reports whether p is one of the two seats.
func (p Player) Valid() bool {
	return p == PlayerBlue || p == PlayerRed
}

func (p Player) Opponent() Player {
	if p == PlayerBlue {
		return PlayerRed
	}
	return PlayerBlue
}

// Title is the display name used in status messages.
func (p Player) Title() string {
	if p == PlayerBlue {
		return "Blue"
	}
	return "Red"
}

type CardState string

const (
	CardHidden   CardState = "hidden"
	CardRevealed CardState = "revealed"
	CardMatched  CardState = "matched"
)

type Card struct {
	ID        string    `json:"id"`
	PairKey   string    `json:"pairKey"`
	Icon      string    `json:"icon"`
	State     CardState `json:"state"`
	MatchedBy Player    `json:"matchedBy,omitempty"`
}

type Lifecycle string

const (
	LifecycleIdle    Lifecycle = "idle"
	LifecyclePlaying Lifecycle = "playing"
	LifecycleWon     Lifecycle = "won"
)

// Board sizes offered to players.
const (
	BoardSmall  = 16
	BoardMedium = 24
	BoardLarge  = 32
)

func ValidBoardSize(n int) bool {
	return n == BoardSmall || n == BoardMedium || n == BoardLarge
}

type Settings struct {
	BoardSize      int    `json:"boardSize"`
	StartingPlayer Player `json:"startingPlayer"`
}

// DefaultSettings is what a fresh profile plays with.
func DefaultSettings() Settings {
	return Settings{BoardSize: BoardSmall, StartingPlayer: PlayerBlue}
}

// Normalize replaces any invalid field with its default.
func (s Settings) Normalize() Settings {
	d := DefaultSettings()
	if ValidBoardSize(s.BoardSize) {
		d.BoardSize = s.BoardSize
	}
	if s.StartingPlayer.Valid() {
		d.StartingPlayer = s.StartingPlayer
	}
	return d
}

// TotalPairs is the number of matches needed to finish a board.
func (s Settings) TotalPairs() int {
	return s.BoardSize / 2
}

type Scores struct {
	Blue int `json:"blue"`
	Red  int `json:"red"`
}

func (s Scores) Of(p Player) int {
	if p == PlayerBlue {
		return s.Blue
	}
	return s.Red
}

func (s *Scores) add(p Player) {
	if p == PlayerBlue {
		s.Blue++
		return
	}
	s.Red++
}

type Stats struct {
	CurrentPlayer Player `json:"currentPlayer"`
	Scores        Scores `json:"scores"`
	Moves         int    `json:"moves"`
	Matches       int    `json:"matches"`
	TotalPairs    int    `json:"totalPairs"`
}

// Presenter receives every visible change of a session. The engine calls it
// while holding its lock: implementations must not block and must not call
// back into the engine.
type Presenter interface {
	Render(cards []Card, boardSize int)
	SetStatusMessage(text string)
	SetStats(stats Stats)
}

// IconSource supplies the pool of icon identities a deck is drawn from.
type IconSource interface {
	ListIconIdentities() []string
}

// IconList is an IconSource over a fixed slice.
type IconList []string

func (l IconList) ListIconIdentities() []string { return l }

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	Cards     []Card    `json:"cards"`
	BoardSize int       `json:"boardSize"`
	Stats     Stats     `json:"stats"`
	State     Lifecycle `json:"state"`
	Locked    bool      `json:"locked"`
	Revealed  []string  `json:"revealed"`
	Message   string    `json:"message"`
}
