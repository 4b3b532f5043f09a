package valueobjects

import (
	"strings"
)

const (
	// AddressPrefix is the human-readable prefix every recipient address
	// must carry.
	AddressPrefix = "nexa"

	hash160Length = 20

	// AddressTypeP2PKH and AddressTypeP2SH are the accepted leading type
	// bytes of a decoded address payload.
	AddressTypeP2PKH byte = 0x00
	AddressTypeP2SH  byte = 0x08
)

// ValidateRecipientAddress reports whether candidate is a well-formed Nexa
// recipient address: lowercase cashaddr payload under the "nexa" prefix,
// valid checksum, and a type byte plus 20-byte hash160 for the accepted
// address types. Malformed input is a normal rejection, never a panic.
func ValidateRecipientAddress(candidate string) bool {
	_, _, ok := decodeRecipientAddress(candidate)
	return ok
}

// EncodeRecipientAddress builds a recipient address from a type byte and a
// 20-byte hash160. Used by the devtest wallet gateway and by tests to mint
// addresses that round-trip through validation.
func EncodeRecipientAddress(addressType byte, hash160 []byte) (string, error) {
	payload := make([]byte, 0, 1+len(hash160))
	payload = append(payload, addressType)
	payload = append(payload, hash160...)

	converted, err := convertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}

	return cashaddrEncode(AddressPrefix, converted)
}

func decodeRecipientAddress(candidate string) (byte, []byte, bool) {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return 0, nil, false
	}
	if !strings.HasPrefix(trimmed, AddressPrefix+":") {
		return 0, nil, false
	}

	encoded := trimmed[len(AddressPrefix)+1:]
	if strings.ToLower(encoded) != encoded {
		return 0, nil, false
	}

	values, err := cashaddrDecode(AddressPrefix, encoded)
	if err != nil {
		return 0, nil, false
	}

	payload, err := convertBits(values, 5, 8, false)
	if err != nil {
		return 0, nil, false
	}
	if len(payload) != 1+hash160Length {
		return 0, nil, false
	}

	addressType := payload[0]
	if addressType != AddressTypeP2PKH && addressType != AddressTypeP2SH {
		return 0, nil, false
	}

	return addressType, payload[1:], true
}

// ShortenAddress renders the abbreviated form used by the public
// transactions listing.
func ShortenAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:12] + "..."
}
