package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type adAlias Ad

type adWire struct {
	adAlias
	Price     json.RawMessage `json:"price"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

// UnmarshalJSON accepts a price given as a number or a numeric string.
// Anything else decodes to NaN so the ad is kept but never matches a price bound.
// A createdAt that is not a string is dropped and later shown as an unavailable date.
func (a *Ad) UnmarshalJSON(data []byte) error {
	var w adWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = Ad(w.adAlias)
	a.Price = parsePrice(w.Price)
	a.CreatedAt = parseCreatedAt(w.CreatedAt)
	return nil
}

// MarshalJSON writes a missing price as null; encoding/json rejects NaN.
func (a Ad) MarshalJSON() ([]byte, error) {
	w := adWire{adAlias: adAlias(a), Price: json.RawMessage("null")}
	if a.HasPrice() {
		w.Price = json.RawMessage(strconv.FormatFloat(a.Price, 'f', -1, 64))
	}
	createdAt, err := json.Marshal(a.CreatedAt)
	if err != nil {
		return nil, err
	}
	w.CreatedAt = createdAt
	return json.Marshal(w)
}

func (a Ad) HasPrice() bool {
	return !math.IsNaN(a.Price) && !math.IsInf(a.Price, 0)
}

func parsePrice(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return math.NaN()
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return math.NaN()
		}
		text = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseCreatedAt(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
