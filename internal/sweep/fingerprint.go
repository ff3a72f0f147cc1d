package sweep

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CanonicalJSON encodes v deterministically: map keys sorted (encoding/json
// ordering), no insignificant whitespace, HTML escaping disabled so the bytes
// match what other implementations of this contract hash.
func CanonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canonical encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Fingerprint returns the hex sha256 of the normalized request's canonical
// JSON. Two requests with the same fingerprint describe the same sweep.
func Fingerprint(req *NormalizedRequest) (string, error) {
	body, err := CanonicalJSON(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
