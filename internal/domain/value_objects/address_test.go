package valueobjects

import (
	"strings"
	"testing"
)

func testHash160(fill byte) []byte {
	hash := make([]byte, hash160Length)
	for i := range hash {
		hash[i] = fill
	}
	return hash
}

func TestEncodeRecipientAddressRoundTrip(t *testing.T) {
	for _, addressType := range []byte{AddressTypeP2PKH, AddressTypeP2SH} {
		address, err := EncodeRecipientAddress(addressType, testHash160(0x5a))
		if err != nil {
			t.Fatalf("expected encode to succeed, got %v", err)
		}

		if !strings.HasPrefix(address, "nexa:") {
			t.Fatalf("expected nexa: prefix, got %q", address)
		}
		if !ValidateRecipientAddress(address) {
			t.Fatalf("expected encoded address %q to validate", address)
		}

		decodedType, decodedHash, ok := decodeRecipientAddress(address)
		if !ok {
			t.Fatalf("expected decode to succeed for %q", address)
		}
		if decodedType != addressType {
			t.Fatalf("expected type %#x, got %#x", addressType, decodedType)
		}
		if len(decodedHash) != hash160Length {
			t.Fatalf("expected %d byte hash, got %d", hash160Length, len(decodedHash))
		}
		for i, b := range decodedHash {
			if b != 0x5a {
				t.Fatalf("hash byte %d corrupted: %#x", i, b)
			}
		}
	}
}

func TestValidateRecipientAddressRejectsMalformedInput(t *testing.T) {
	valid, err := EncodeRecipientAddress(AddressTypeP2PKH, testHash160(0x11))
	if err != nil {
		t.Fatalf("expected encode to succeed, got %v", err)
	}

	cases := map[string]string{
		"empty":              "",
		"whitespace":         "   ",
		"no prefix":          "not-an-address",
		"wrong prefix":       "bitcoincash:" + valid[len("nexa:"):],
		"missing payload":    "nexa:",
		"payload too short":  "nexa:qqqq",
		"charset violation":  "nexa:bio1qqqqqq" + valid[len("nexa:"):],
		"uppercase payload":  "nexa:" + strings.ToUpper(valid[len("nexa:"):]),
		"truncated checksum": valid[:len(valid)-1],
	}

	for name, candidate := range cases {
		if ValidateRecipientAddress(candidate) {
			t.Fatalf("expected %s candidate %q to be rejected", name, candidate)
		}
	}
}

func TestValidateRecipientAddressRejectsCorruptedChecksum(t *testing.T) {
	valid, err := EncodeRecipientAddress(AddressTypeP2PKH, testHash160(0x42))
	if err != nil {
		t.Fatalf("expected encode to succeed, got %v", err)
	}

	// Flip one payload character to another charset character.
	index := len(valid) - 3
	replacement := byte('q')
	if valid[index] == replacement {
		replacement = 'p'
	}
	corrupted := valid[:index] + string(replacement) + valid[index+1:]

	if ValidateRecipientAddress(corrupted) {
		t.Fatalf("expected corrupted address %q to be rejected", corrupted)
	}
}

func TestValidateRecipientAddressRejectsUnknownTypeByte(t *testing.T) {
	address, err := EncodeRecipientAddress(0x10, testHash160(0x07))
	if err != nil {
		t.Fatalf("expected encode to succeed, got %v", err)
	}

	if ValidateRecipientAddress(address) {
		t.Fatalf("expected unknown type byte address %q to be rejected", address)
	}
}

func TestValidateRecipientAddressRejectsWrongPayloadLength(t *testing.T) {
	address, err := EncodeRecipientAddress(AddressTypeP2PKH, make([]byte, 24))
	if err != nil {
		t.Fatalf("expected encode to succeed, got %v", err)
	}

	if ValidateRecipientAddress(address) {
		t.Fatalf("expected 24-byte payload address %q to be rejected", address)
	}
}

func TestValidateRecipientAddressNeverPanics(t *testing.T) {
	inputs := []string{
		"nexa:" + strings.Repeat("q", 1000),
		"nexa:1",
		"nexa::",
		strings.Repeat("nexa:", 50),
		"nexa:qpzry9x8gf2tvdw0s3jn54khce6mua7l",
	}
	for _, input := range inputs {
		// Outcome does not matter, only that decoding is total.
		_ = ValidateRecipientAddress(input)
	}
}

func TestShortenAddress(t *testing.T) {
	if got := ShortenAddress("nexa:qqsh0rt"); got != "nexa:qqsh0rt" {
		t.Fatalf("expected short address unchanged, got %q", got)
	}
	if got := ShortenAddress("nexa:qqlongenoughaddress"); got != "nexa:qqlonge..." {
		t.Fatalf("unexpected shortened address %q", got)
	}
}
