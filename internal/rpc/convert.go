package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/sustainability-index/internal/indicators"
)

// #region wire-types
// ScoreRequest is the Score payload.
type ScoreRequest struct {
	Pipeline string             `json:"pipeline"`
	Inputs   map[string]float64 `json:"inputs"`
}

// AssessRequest is the Assess payload. Save persists the assessment on
// servers that have a store.
type AssessRequest struct {
	Profile indicators.FarmProfile `json:"profile"`
	Save    bool                   `json:"save,omitempty"`
}

// #endregion wire-types

// #region convert
// toStruct encodes v through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	s := new(structpb.Struct)
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return s, nil
}

// fromStruct decodes s into v through its JSON form.
func fromStruct(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// #endregion convert
