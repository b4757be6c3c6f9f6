package store

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"wmx-replay/winamax"
)

// Hands are stored as a protobuf Struct holding the hand's JSON form, so the
// blob stays readable by any protobuf client without a generated schema.

func encodeHand(h *winamax.Hand) ([]byte, error) {
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("marshal hand %s: %w", h.HandID, err)
	}
	var st structpb.Struct
	if err := protojson.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("hand %s to struct: %w", h.HandID, err)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(&st)
}

func decodeHand(blob []byte) (*winamax.Hand, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(blob, &st); err != nil {
		return nil, fmt.Errorf("unmarshal hand payload: %w", err)
	}
	raw, err := protojson.Marshal(&st)
	if err != nil {
		return nil, err
	}
	var h winamax.Hand
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode hand payload: %w", err)
	}
	return &h, nil
}
