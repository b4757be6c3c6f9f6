//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"wmx-replay/replay"
	"wmx-replay/winamax"
)

type parseResponse struct {
	OK     bool                 `json:"ok"`
	Result *winamax.LogResult   `json:"result,omitempty"`
	Error  *winamax.HeaderError `json:"error,omitempty"`
}

type replayResponse struct {
	OK    bool                `json:"ok"`
	Tape  *replay.ReplayTape  `json:"tape,omitempty"`
	Error *replay.ReplayError `json:"error,omitempty"`
}

func main() {
	js.Global().Set("__parseHandLog", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(parseResponse{
				Error: &winamax.HeaderError{Reason: "invalid_request", Message: "missing hand log"},
			})
		}
		return mustJSON(handleParse(args[0].String()))
	}))
	js.Global().Set("__replayHand", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return mustJSON(replayResponse{
				Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_request", Message: "expected hand log and hand number"},
			})
		}
		return mustJSON(handleReplay(args[0].String(), args[1].Int()))
	}))

	select {}
}

func handleParse(raw string) parseResponse {
	res, err := winamax.ParseLog(raw)
	if err != nil {
		var he *winamax.HeaderError
		if errors.As(err, &he) {
			return parseResponse{Error: he}
		}
		return parseResponse{Error: &winamax.HeaderError{Reason: "parse_failed", Message: err.Error()}}
	}
	return parseResponse{OK: true, Result: res}
}

func handleReplay(raw string, number int) replayResponse {
	tape, err := replay.FromLog(raw, number)
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			return replayResponse{Error: replayErr}
		}
		return replayResponse{
			Error: &replay.ReplayError{StepIndex: -1, Reason: "replay_generation_failed", Message: err.Error()},
		}
	}
	return replayResponse{OK: true, Tape: tape}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		fallback := replayResponse{
			Error: &replay.ReplayError{StepIndex: -1, Reason: "marshal_failed", Message: err.Error()},
		}
		b2, _ := json.Marshal(fallback)
		return string(b2)
	}
	return string(b)
}
