package replay

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wmx-replay/winamax"
)

func fixtureHands(t *testing.T) []winamax.Hand {
	t.Helper()
	raw, err := os.ReadFile("../winamax/testdata/ex1_hands.txt")
	require.NoError(t, err)
	hands := winamax.ParseHands(string(raw))
	require.Len(t, hands, 3)
	return hands
}

func eventTypes(tape *ReplayTape) []string {
	out := make([]string, len(tape.Events))
	for i, e := range tape.Events {
		out[i] = e.Type
	}
	return out
}

func TestBuildTape_IsDeterministic(t *testing.T) {
	h := fixtureHands(t)[0]

	tapeA, err := BuildTape(&h)
	require.NoError(t, err)
	tapeB, err := BuildTape(&h)
	require.NoError(t, err)
	assert.Equal(t, tapeA, tapeB)

	for i, e := range tapeA.Events {
		assert.EqualValues(t, i+1, e.Seq)
		assert.NotEmpty(t, e.EnvelopeB64)
	}
}

func TestBuildTape_ShowdownHand(t *testing.T) {
	h := fixtureHands(t)[0]
	tape, err := BuildTape(&h)
	require.NoError(t, err)

	assert.Equal(t, "Ex1(777)#003", tape.TableID)
	assert.Equal(t, 4, tape.HeroSeat)
	assert.Equal(t, []string{
		EventTableSnapshot, EventHandStart, EventHoleCards,
		EventAction, EventAction, EventAction, EventAction, EventAction,
		EventAction, EventAction, EventAction, EventAction,
		EventDealBoard, EventAction, EventAction,
		EventDealBoard, EventDealBoard,
		EventShowdown, EventAction,
		EventHandEnd,
	}, eventTypes(tape))

	river := tape.Events[16].Value.(*DealBoard)
	assert.Equal(t, []string{"3h"}, river.Cards)
	assert.Equal(t, []string{"2c", "7d", "Jh", "Qs", "3h"}, river.Board)

	reraise := tape.Events[9].Value.(*ActionResult)
	assert.Equal(t, "Hero", reraise.Actor)
	assert.EqualValues(t, 550, reraise.Delta)
	assert.EqualValues(t, 930, reraise.PotTotal)

	call := tape.Events[14].Value.(*ActionResult)
	assert.EqualValues(t, 3710, call.PotTotal)

	sd := tape.Events[17].Value.(*Showdown)
	require.Len(t, sd.Hands, 2)
	assert.Equal(t, []string{"7c", "7s"}, sd.Hands[1].Cards)

	end := tape.Events[19].Value.(*HandEnd)
	assert.EqualValues(t, 3710, end.PotSize)
	stacks := map[string]int64{}
	for _, s := range end.Stacks {
		stacks[s.Name] = s.Stack
	}
	assert.Equal(t, map[string]int64{"alice": 1390, "bob": 4110, "Hero": 0}, stacks)
}

func TestBuildTape_WalkHasNoBoardOrHoleCards(t *testing.T) {
	h := fixtureHands(t)[1]
	tape, err := BuildTape(&h)
	require.NoError(t, err)

	assert.NotContains(t, eventTypes(tape), EventDealBoard)
	assert.NotContains(t, eventTypes(tape), EventHoleCards)
	assert.NotContains(t, eventTypes(tape), EventShowdown)
	assert.Equal(t, 0, tape.HeroSeat)
}

func TestBuildTape_ReturnsReplayErrorOnUnknownActor(t *testing.T) {
	h := fixtureHands(t)[0]
	h.Actions = append([]winamax.Action(nil), h.Actions...)
	h.Actions[3].Actor = "ghost"

	_, err := BuildTape(&h)
	require.Error(t, err)
	var replayErr *ReplayError
	require.True(t, errors.As(err, &replayErr))
	assert.Equal(t, "unknown_actor", replayErr.Reason)
	assert.EqualValues(t, 3, replayErr.StepIndex)
	assert.Equal(t, "Hero posts small blind 50", replayErr.Line)
}

func TestBuildTape_NilHand(t *testing.T) {
	_, err := BuildTape(nil)
	var replayErr *ReplayError
	require.True(t, errors.As(err, &replayErr))
	assert.Equal(t, "no_hand", replayErr.Reason)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	h := fixtureHands(t)[0]
	tape, err := BuildTape(&h)
	require.NoError(t, err)

	env, err := DecodeEnvelope(tape.Events[1].EnvelopeB64)
	require.NoError(t, err)
	fields := env.GetFields()
	assert.Equal(t, EventHandStart, fields["type"].GetStringValue())
	assert.EqualValues(t, 2, fields["seq"].GetNumberValue())
	payload := fields["payload"].GetStructValue().GetFields()
	assert.Equal(t, "1234567-12-1700000000", payload["hand_id"].GetStringValue())
	assert.Equal(t, "SB", payload["hero_position"].GetStringValue())
}

func TestToWireReplayTape(t *testing.T) {
	assert.Nil(t, ToWireReplayTape(nil))

	h := fixtureHands(t)[0]
	tape, err := BuildTape(&h)
	require.NoError(t, err)

	raw, err := json.Marshal(ToWireReplayTape(tape))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "1234567-12-1700000000", decoded["handId"])
	assert.EqualValues(t, 4, decoded["heroSeat"])
	events := decoded["events"].([]any)
	assert.Len(t, events, len(tape.Events))
	assert.Contains(t, events[0].(map[string]any), "envelopeB64")
}

func TestFromLog(t *testing.T) {
	raw, err := os.ReadFile("../winamax/testdata/ex1_hands.txt")
	require.NoError(t, err)

	tape, err := FromLog(string(raw), 1)
	require.NoError(t, err)
	assert.Equal(t, "1234567-12-1700000000", tape.HandID)

	_, err = FromLog(string(raw), 4)
	var re *ReplayError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "hand_not_found", re.Reason)
}
