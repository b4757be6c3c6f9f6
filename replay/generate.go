package replay

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"wmx-replay/card"
	"wmx-replay/winamax"
)

const tapeVersion = 1

// BuildTape lays out a parsed hand as replay events. It only keeps the chip
// count of every seat and the pot; whether an action was legal is not
// checked. An action by a name with no seat row fails the tape.
func BuildTape(h *winamax.Hand) (*ReplayTape, error) {
	if h == nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "no_hand", Message: "hand is nil"}
	}
	heroSeat := 0
	if p, ok := h.PlayerByName(h.HeroName); ok && h.HeroName != "" {
		heroSeat = p.Seat
	}
	b := newTapeBuilder(h, heroSeat)

	b.addSnapshot()
	b.add(EventHandStart, &HandStart{
		HandID:       h.HandID,
		HandNumber:   h.HandNumber,
		Level:        h.Level,
		Ante:         h.Ante,
		SmallBlind:   h.SmallBlind,
		BigBlind:     h.BigBlind,
		HeroPosition: h.HeroPosition,
	})
	if heroSeat > 0 && len(h.HeroCards) > 0 {
		b.add(EventHoleCards, &HoleCards{Seat: heroSeat, Cards: cardStrings(h.HeroCards)})
	}

	street := winamax.StreetAnteBlinds
	for i, a := range h.Actions {
		for street < a.Street {
			street++
			b.enterStreet(street)
		}
		if err := b.apply(i, a); err != nil {
			return nil, err
		}
	}
	for street < winamax.StreetRiver {
		street++
		b.enterStreet(street)
	}
	if len(h.Showdown) > 0 && !b.showdownSent {
		b.addShowdown()
	}

	b.add(EventHandEnd, &HandEnd{
		PotSize: h.PotSize,
		Rake:    h.Rake,
		Stacks:  b.seatStates(),
		Summary: h.Summary,
	})

	return &ReplayTape{
		TapeVersion: tapeVersion,
		TableID:     h.TableName,
		HandID:      h.HandID,
		HeroSeat:    heroSeat,
		Events:      b.events,
	}, nil
}

type tapeBuilder struct {
	hand      *winamax.Hand
	hero      int
	seq       uint64
	events    []ReplayEvent
	stacks    map[string]int64
	committed map[string]int64
	pot       int64
	board     card.List

	showdownSent bool
}

func newTapeBuilder(h *winamax.Hand, hero int) *tapeBuilder {
	b := &tapeBuilder{
		hand:      h,
		hero:      hero,
		events:    make([]ReplayEvent, 0, 32),
		stacks:    make(map[string]int64, len(h.Players)),
		committed: make(map[string]int64, len(h.Players)),
	}
	for _, p := range h.Players {
		b.stacks[p.Name] = p.Stack
	}
	return b
}

func (b *tapeBuilder) addSnapshot() {
	b.add(EventTableSnapshot, &TableSnapshot{
		TableName:  b.hand.TableName,
		MaxPlayers: b.hand.MaxPlayers,
		ButtonSeat: b.hand.ButtonSeat,
		Seats:      b.seatStates(),
	})
}

func (b *tapeBuilder) seatStates() []SeatState {
	out := make([]SeatState, 0, len(b.hand.Players))
	for _, p := range b.hand.Players {
		s := SeatState{Seat: p.Seat, Name: p.Name, Stack: b.stacks[p.Name], IsHero: p.Seat == b.hero}
		if !p.Bounty.IsZero() {
			s.Bounty = p.Bounty.StringFixed(2)
		}
		out = append(out, s)
	}
	return out
}

// enterStreet deals the street's board cards when the hand recorded them.
// Blinds count towards preflop commitments, so only postflop streets start
// from zero.
func (b *tapeBuilder) enterStreet(st winamax.Street) {
	if st > winamax.StreetPreflop {
		clear(b.committed)
	}

	var dealt *string
	switch st {
	case winamax.StreetFlop:
		dealt = b.hand.Flop
	case winamax.StreetTurn:
		dealt = b.hand.Turn
	case winamax.StreetRiver:
		dealt = b.hand.River
	}
	if dealt == nil {
		return
	}
	cards, err := card.ParseList(*dealt)
	if err != nil {
		return
	}
	b.board = append(b.board, cards...)
	b.add(EventDealBoard, &DealBoard{
		Street: st.String(),
		Cards:  cardStrings(cards),
		Board:  cardStrings(b.board),
	})
}

func (b *tapeBuilder) apply(step int, a winamax.Action) error {
	p, ok := b.hand.PlayerByName(a.Actor)
	if !ok {
		return &ReplayError{
			StepIndex: int32(step),
			Reason:    "unknown_actor",
			Message:   fmt.Sprintf("%q has no seat at this table", a.Actor),
			Line:      a.Raw,
		}
	}

	var delta int64
	switch {
	case a.Kind.Wagers():
		delta = b.wager(a)
		b.stacks[a.Actor] -= delta
		b.pot += delta
	case a.Kind == winamax.ActionCollect:
		b.stacks[a.Actor] += a.Amount
		b.pot = max(b.pot-a.Amount, 0)
	case a.Kind == winamax.ActionShow:
		if !b.showdownSent {
			b.addShowdown()
		}
		return nil
	}

	b.add(EventAction, &ActionResult{
		Street:   a.Street.String(),
		Seat:     p.Seat,
		Actor:    a.Actor,
		Kind:     string(a.Kind),
		Amount:   a.Amount,
		To:       a.To,
		Delta:    delta,
		AllIn:    a.AllIn,
		NewStack: b.stacks[a.Actor],
		PotTotal: b.pot,
	})
	return nil
}

// wager returns the chips a wagering action moves into the pot and tracks
// what the actor has committed on the street. Antes are dead money.
func (b *tapeBuilder) wager(a winamax.Action) int64 {
	switch a.Kind {
	case winamax.ActionAnte:
		return a.Amount
	case winamax.ActionRaise:
		to := a.To
		if to == 0 {
			to = b.committed[a.Actor] + a.Amount
		}
		delta := max(to-b.committed[a.Actor], 0)
		b.committed[a.Actor] = to
		return delta
	}
	b.committed[a.Actor] += a.Amount
	return a.Amount
}

// addShowdown emits every shown hand at once, on the first show action or
// at the end of a hand whose showdown had none.
func (b *tapeBuilder) addShowdown() {
	b.showdownSent = true
	sd := &Showdown{Hands: make([]ShownHand, 0), Lines: b.hand.Showdown}
	for _, a := range b.hand.Actions {
		if a.Kind != winamax.ActionShow {
			continue
		}
		p, ok := b.hand.PlayerByName(a.Actor)
		if !ok {
			continue
		}
		sd.Hands = append(sd.Hands, ShownHand{Seat: p.Seat, Actor: a.Actor, Cards: cardStrings(a.Cards)})
	}
	b.add(EventShowdown, sd)
}

func (b *tapeBuilder) add(eventType string, value any) {
	b.seq++
	b.events = append(b.events, ReplayEvent{
		Type:        eventType,
		Seq:         b.seq,
		Value:       value,
		EnvelopeB64: encodeEnvelope(eventType, b.seq, value),
	})
}

// encodeEnvelope wraps the payload in a protobuf Struct
// {type, seq, payload} and returns it base64 encoded.
func encodeEnvelope(eventType string, seq uint64, value any) string {
	payload, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	var body structpb.Struct
	if err := protojson.Unmarshal(payload, &body); err != nil {
		return ""
	}
	env := &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":    structpb.NewStringValue(eventType),
		"seq":     structpb.NewNumberValue(float64(seq)),
		"payload": structpb.NewStructValue(&body),
	}}
	bin, err := proto.MarshalOptions{Deterministic: true}.Marshal(env)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(bin)
}

// DecodeEnvelope reverses the EnvelopeB64 encoding.
func DecodeEnvelope(b64 string) (*structpb.Struct, error) {
	bin, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	var env structpb.Struct
	if err := proto.Unmarshal(bin, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func cardStrings(cards card.List) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
