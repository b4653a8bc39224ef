package push

import (
	"encoding/base64"
	"errors"
	"strings"
)

// VapidKeyLength is the size of an uncompressed P-256 public key.
const VapidKeyLength = 65

var ErrBadVapidKey = errors.New("malformed VAPID public key")

// DecodeVapidKey converts a URL-safe base64 VAPID public key into raw bytes.
// The transform is bit-exact: '-' and '_' map to their standard-alphabet
// counterparts, the input is padded with '=' to a multiple of four, then
// standard base64 decoded. The push API requires exact-length input, so no
// other normalization is applied.
func DecodeVapidKey(key string) ([]byte, error) {
	s := strings.ReplaceAll(key, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrBadVapidKey
	}
	return raw, nil
}
