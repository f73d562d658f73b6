// Package hasher provides the canonical content hash used to link blocks
// together in the ledger.
package hasher

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Size is the length of a hex encoded digest produced by Hash.
const Size = sha256.Size * 2

// =============================================================================

// Sum returns the hex encoded sha256 digest of the canonical form of the
// value.
func Sum(value any) (string, error) {
	data, err := Canonical(value)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// Hash is Sum for callers that only compare digests. An empty string is
// returned if the value can't be encoded, which never matches a stored hash.
func Hash(value any) string {
	hash, err := Sum(value)
	if err != nil {
		return ""
	}
	return hash
}

// Canonical returns the canonical JSON encoding of the value. Object keys are
// sorted, numbers keep the exact text the encoder produced for them and
// arrays keep their order. Two values with the same content always produce
// the same bytes regardless of the field order in their Go types.
func Canonical(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Decoding into a generic value turns every object into a map, which
	// the encoder always writes with sorted keys. UseNumber keeps integers
	// above 2^53 and float text from being rounded through float64.
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()

	var generic any
	if err := d.Decode(&generic); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	e := json.NewEncoder(&buf)
	e.SetEscapeHTML(false)
	if err := e.Encode(generic); err != nil {
		return nil, err
	}

	// The encoder terminates every value with a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
