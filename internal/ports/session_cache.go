package ports

import "packsmith/internal/types"

// SessionCachePort keeps opened sessions keyed by archive digest so repeated
// compiles of the same archive skip decoding.
type SessionCachePort interface {
	Get(digest string) (types.Session, bool)
	Put(digest string, session types.Session)
}
