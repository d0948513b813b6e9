package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/colorfulnotion/atvm/aterrors"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseInt accepts decimal or 0x-prefixed hex. Hex is read as raw 64 bits, so
// 0xffffffffffffffff is -1.
func ParseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", s, aterrors.ErrCBadNumber)
		}
		return int64(v), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, aterrors.ErrCBadNumber)
	}
	return v, nil
}

// ParseInt32 is ParseInt limited to the 32-bit range used for offsets and addresses.
func ParseInt32(s string) (int32, error) {
	v, err := ParseInt(s)
	if err != nil {
		return 0, err
	}
	if v < -1<<31 || v > 1<<31-1 {
		return 0, fmt.Errorf("%q out of range: %w", s, aterrors.ErrCBadNumber)
	}
	return int32(v), nil
}

// ParseInt64List splits a comma separated list of ParseInt values.
func ParseInt64List(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := ParseInt(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseHexBytes decodes a non-empty, even-length run of hex digits.
func ParseHexBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) == 0 {
		return nil, fmt.Errorf("empty: %w", aterrors.ErrCBadHex)
	}
	b, err := hexutil.Decode("0x" + s)
	if err != nil {
		return nil, fmt.Errorf("%q: %v: %w", s, err, aterrors.ErrCBadHex)
	}
	return b, nil
}
