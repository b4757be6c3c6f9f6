package replay

// ReplayTape is a parsed hand laid out as the ordered events a table view
// would receive while the hand is played back.
type ReplayTape struct {
	TapeVersion int           `json:"tape_version"`
	TableID     string        `json:"table_id"`
	HandID      string        `json:"hand_id"`
	HeroSeat    int           `json:"hero_seat"`
	Events      []ReplayEvent `json:"events"`
}

// ReplayEvent carries its payload twice: Value for in-process readers and
// EnvelopeB64, the payload as a protobuf Struct, for clients that decode
// frames without the Go types.
type ReplayEvent struct {
	Type        string `json:"type"`
	Seq         uint64 `json:"seq"`
	Value       any    `json:"value,omitempty"`
	EnvelopeB64 string `json:"envelope_b64,omitempty"`
}

const (
	EventTableSnapshot = "tableSnapshot"
	EventHandStart     = "handStart"
	EventHoleCards     = "holeCards"
	EventAction        = "action"
	EventDealBoard     = "dealBoard"
	EventShowdown      = "showdown"
	EventHandEnd       = "handEnd"
)

type SeatState struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Stack  int64  `json:"stack"`
	Bounty string `json:"bounty,omitempty"`
	IsHero bool   `json:"is_hero,omitempty"`
}

type TableSnapshot struct {
	TableName  string      `json:"table_name"`
	MaxPlayers int         `json:"max_players"`
	ButtonSeat int         `json:"button_seat"`
	Seats      []SeatState `json:"seats"`
}

type HandStart struct {
	HandID       string `json:"hand_id"`
	HandNumber   int    `json:"hand_number"`
	Level        int    `json:"level"`
	Ante         int64  `json:"ante"`
	SmallBlind   int64  `json:"small_blind"`
	BigBlind     int64  `json:"big_blind"`
	HeroPosition string `json:"hero_position"`
}

type HoleCards struct {
	Seat  int      `json:"seat"`
	Cards []string `json:"cards"`
}

type ActionResult struct {
	Street   string `json:"street"`
	Seat     int    `json:"seat"`
	Actor    string `json:"actor"`
	Kind     string `json:"kind"`
	Amount   int64  `json:"amount"`
	To       int64  `json:"to,omitempty"`
	Delta    int64  `json:"delta"`
	AllIn    bool   `json:"all_in,omitempty"`
	NewStack int64  `json:"new_stack"`
	PotTotal int64  `json:"pot_total"`
}

type DealBoard struct {
	Street string   `json:"street"`
	Cards  []string `json:"cards"`
	Board  []string `json:"board"`
}

type ShownHand struct {
	Seat  int      `json:"seat"`
	Actor string   `json:"actor"`
	Cards []string `json:"cards"`
}

type Showdown struct {
	Hands []ShownHand `json:"hands"`
	Lines []string    `json:"lines"`
}

type HandEnd struct {
	PotSize int64       `json:"pot_size"`
	Rake    int64       `json:"rake"`
	Stacks  []SeatState `json:"stacks"`
	Summary []string    `json:"summary"`
}
