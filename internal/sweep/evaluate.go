package sweep

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// Evaluate is the deterministic synthetic evaluator: a pure function from one
// parameter point to ride metrics. The digest input is
//
//	run_id|shard_id|canonical_point|seed
//
// where canonical_point is the key-sorted, whitespace-free, ASCII-only JSON of
// the point. Identical inputs always hash to the same state, so results are
// bit-for-bit reproducible across processes and producer languages; changing
// the seed changes the digest input.
func Evaluate(runID string, shardID int, point Point, seed int64) (PointMetrics, error) {
	canonical, err := CanonicalJSON(point)
	if err != nil {
		return PointMetrics{}, fmt.Errorf("serialize point: %w", err)
	}

	digest := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%s|%d", runID, shardID, escapeNonASCII(canonical), seed))
	state := binary.BigEndian.Uint64(digest[:8])

	completed := int64(state%200) + 10
	return PointMetrics{
		CompletedRides:       completed,
		AbandonedRides:       int64((state / 10) % 40),
		PlatformRevenueCents: completed * (500 + int64(state%1200)),
	}, nil
}

// escapeNonASCII rewrites runes above 0x7E as \uXXXX escapes (surrogate pairs
// past the BMP), matching producers whose JSON encoders emit ASCII-only
// output. Bytes below that are already escaped identically by encoding/json.
func escapeNonASCII(b []byte) []byte {
	ascii := true
	for _, c := range b {
		if c > 0x7E {
			ascii = false
			break
		}
	}
	if ascii {
		return b
	}

	out := make([]byte, 0, len(b)+16)
	for _, r := range string(b) {
		switch {
		case r <= 0x7E:
			out = append(out, byte(r))
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
		default:
			out = fmt.Appendf(out, `\u%04x`, r)
		}
	}
	return out
}
