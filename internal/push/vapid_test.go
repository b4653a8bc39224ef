package push

import (
	"bytes"
	"testing"
)

// Uncompressed P-256 point 0x04 followed by bytes 1..64, encoded URL-safe
// without padding.
const testVapidKey = "BAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8gISIjJCUmJygpKissLS4vMDEyMzQ1Njc4OTo7PD0-P0A"

func testVapidRaw() []byte {
	raw := make([]byte, VapidKeyLength)
	raw[0] = 0x04
	for i := 1; i < VapidKeyLength; i++ {
		raw[i] = byte(i)
	}
	return raw
}

func TestDecodeVapidKey(t *testing.T) {
	raw, err := DecodeVapidKey(testVapidKey)
	if err != nil {
		t.Fatalf("DecodeVapidKey: %v", err)
	}
	if len(raw) != VapidKeyLength {
		t.Fatalf("decoded length = %d, want %d", len(raw), VapidKeyLength)
	}
	if !bytes.Equal(raw, testVapidRaw()) {
		t.Errorf("decoded bytes differ from expected point")
	}
}

func TestDecodeVapidKey_UrlSafeAlphabet(t *testing.T) {
	// The vector contains '-'; a '_' must map to '/' the same way.
	raw, err := DecodeVapidKey("_-8")
	if err != nil {
		t.Fatalf("DecodeVapidKey: %v", err)
	}
	if len(raw) != 2 || raw[0] != 0xff || raw[1] != 0xef {
		t.Errorf("decoded = %x, want ffef", raw)
	}
}

func TestDecodeVapidKey_Malformed(t *testing.T) {
	if _, err := DecodeVapidKey("not*base64!"); err != ErrBadVapidKey {
		t.Errorf("expected ErrBadVapidKey, got %v", err)
	}
}

func TestNewManager_RejectsWrongLengthKey(t *testing.T) {
	// "AAAA" decodes to 3 bytes, not 65.
	if _, err := NewManager(newFakeSubStore(), "AAAA"); err == nil {
		t.Error("expected error for short key")
	}
}

func TestNewManager_AcceptsEmptyKey(t *testing.T) {
	m, err := NewManager(newFakeSubStore(), "")
	if err != nil {
		t.Fatalf("empty key must be allowed: %v", err)
	}
	if m.VapidPublicKey() != "" {
		t.Error("expected empty configured key")
	}
}
