package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateKey builds "prefix:id".
func GenerateKey(prefix string, id string) string {
	return prefix + ":" + id
}

// GenerateKeyWithParams appends each parameter as a key segment.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}

// HashKey digests free-form identifiers (catalog names contain spaces and
// punctuation) into a fixed-width key segment.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}
