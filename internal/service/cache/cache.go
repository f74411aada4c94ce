package cache

import "time"

// BytesCache stores serialized HTTP responses under a TTL. Handlers cache
// encoded fit and light-curve payloads so repeated reads skip the store
// and the grid search.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
