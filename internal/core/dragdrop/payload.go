// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dragdrop

import (
	"encoding/json"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/grid"
)

// PayloadType marks a drag payload that carries a binder card.
const PayloadType = "binder-card"

// Payload is what a drag carries from its source to the drop target.
type Payload struct {
	Type string         `json:"type"`
	Card binder.CardRef `json:"card"`
	Slot grid.Address   `json:"slot"`
}

// Recognized reports whether the payload is a binder-card move.
func (p Payload) Recognized() bool {
	return p.Type == PayloadType
}

// Encode serialises the payload for transfer between widgets or processes.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// DecodePayload parses a transferred payload. Malformed or foreign data yields
// a zero payload that is not [Payload.Recognized].
func DecodePayload(raw []byte) Payload {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Payload{}
	}
	return payload
}
