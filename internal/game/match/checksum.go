package match

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/tactica/tactica-core/internal/errors"
)

// Checksum returns a SHA-256 over the canonical JSON encoding of the state.
// encoding/json writes struct fields in declaration order and map keys
// sorted, so equal states always hash equally.
func Checksum(state *GameState) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", errors.Invariant(errors.CodeChecksumEncode, "encode state").Wrap(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
