package id

import (
	"encoding/base32"
	"strings"
	"testing"
)

func decodeID(t *testing.T, id string) []byte {
	t.Helper()
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("decode id %q: %v", id, err)
	}
	return raw
}

func TestNewIDIsLowercaseBase32(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if len(id) != 26 {
		t.Fatalf("expected 26 characters, got %d (%q)", len(id), id)
	}
	if strings.ContainsAny(id, "=") {
		t.Fatalf("expected unpadded id, got %q", id)
	}
	for _, r := range id {
		lower := r >= 'a' && r <= 'z'
		digit := r >= '2' && r <= '7'
		if !lower && !digit {
			t.Fatalf("character %q outside lowercase base32 alphabet in %q", r, id)
		}
	}

	if raw := decodeID(t, id); len(raw) != 16 {
		t.Fatalf("expected 16 decoded bytes, got %d", len(raw))
	}
}

func TestNewIDEncodesUUIDv4Bits(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	raw := decodeID(t, id)

	if version := raw[6] >> 4; version != 4 {
		t.Fatalf("expected UUID version 4, got %d", version)
	}
	if variant := raw[8] & 0xC0; variant != 0x80 {
		t.Fatalf("expected RFC 4122 variant, got 0x%X", variant)
	}
}

func TestNewIDDoesNotRepeat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 256; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}
