package valueobjects

import (
	"fmt"
	"strings"
)

const cashaddrCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

const cashaddrChecksumLength = 8

var cashaddrGenerator = [5]uint64{
	0x98f2bc8e61,
	0x79b76d99e2,
	0xf33e5fb3c4,
	0xae2eabe2a8,
	0x1e4f43e470,
}

func cashaddrPolymod(values []byte) uint64 {
	chk := uint64(1)
	for _, value := range values {
		top := chk >> 35
		chk = (chk&0x07ffffffff)<<5 ^ uint64(value)
		for i := 0; i < len(cashaddrGenerator); i++ {
			if ((top >> uint(i)) & 1) == 1 {
				chk ^= cashaddrGenerator[i]
			}
		}
	}
	return chk ^ 1
}

func cashaddrExpandPrefix(prefix string) []byte {
	expanded := make([]byte, 0, len(prefix)+1)
	for i := 0; i < len(prefix); i++ {
		expanded = append(expanded, prefix[i]&0x1f)
	}
	expanded = append(expanded, 0)
	return expanded
}

func cashaddrCreateChecksum(prefix string, data []byte) []byte {
	values := append(cashaddrExpandPrefix(prefix), data...)
	values = append(values, make([]byte, cashaddrChecksumLength)...)
	polymod := cashaddrPolymod(values)

	checksum := make([]byte, cashaddrChecksumLength)
	for i := 0; i < cashaddrChecksumLength; i++ {
		checksum[i] = byte((polymod >> uint(5*(cashaddrChecksumLength-1-i))) & 0x1f)
	}
	return checksum
}

func cashaddrEncode(prefix string, data []byte) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("cashaddr prefix is empty")
	}

	prefix = strings.ToLower(prefix)
	checksum := cashaddrCreateChecksum(prefix, data)
	combined := append(data, checksum...)

	builder := strings.Builder{}
	builder.Grow(len(prefix) + 1 + len(combined))
	builder.WriteString(prefix)
	builder.WriteByte(':')
	for _, value := range combined {
		if value >= 32 {
			return "", fmt.Errorf("cashaddr value out of range")
		}
		builder.WriteByte(cashaddrCharset[value])
	}

	return builder.String(), nil
}

func cashaddrDecode(prefix string, encoded string) ([]byte, error) {
	if len(encoded) < cashaddrChecksumLength+1 {
		return nil, fmt.Errorf("cashaddr payload too short")
	}

	values := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); i++ {
		index := strings.IndexByte(cashaddrCharset, encoded[i])
		if index < 0 {
			return nil, fmt.Errorf("cashaddr character out of charset")
		}
		values = append(values, byte(index))
	}

	checkInput := append(cashaddrExpandPrefix(prefix), values...)
	if cashaddrPolymod(checkInput) != 0 {
		return nil, fmt.Errorf("cashaddr checksum mismatch")
	}

	return values[:len(values)-cashaddrChecksumLength], nil
}

func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var (
		accumulator uint
		bits        uint
		maxValue    = uint((1 << toBits) - 1)
	)
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)

	for _, value := range data {
		if uint(value)>>fromBits != 0 {
			return nil, fmt.Errorf("value out of range")
		}
		accumulator = (accumulator << fromBits) | uint(value)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte((accumulator>>bits)&maxValue))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte((accumulator<<(toBits-bits))&maxValue))
		}
	} else if bits >= fromBits || ((accumulator<<(toBits-bits))&maxValue) != 0 {
		return nil, fmt.Errorf("invalid padding")
	}

	return out, nil
}
