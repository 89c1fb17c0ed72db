package adapters

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"packsmith/internal/types"
)

const (
	DefaultSessionExpiration = 10 * time.Minute
	DefaultSessionCleanup    = 30 * time.Minute
)

// SessionCacheAdapter keeps decoded sessions in memory keyed by archive
// digest. Cached file maps are shared and must be treated as read-only.
type SessionCacheAdapter struct {
	cache *gocache.Cache
}

func NewSessionCacheAdapter(expiration, cleanup time.Duration) *SessionCacheAdapter {
	return &SessionCacheAdapter{cache: gocache.New(expiration, cleanup)}
}

func (a *SessionCacheAdapter) Get(digest string) (types.Session, bool) {
	value, found := a.cache.Get(digest)
	if !found {
		return types.Session{}, false
	}
	session, ok := value.(types.Session)
	if !ok {
		log.Error().Str("digest", digest).Msg("wrong type in session cache")
		return types.Session{}, false
	}
	log.Debug().Str("digest", digest).Msg("session cache hit")
	return session, true
}

func (a *SessionCacheAdapter) Put(digest string, session types.Session) {
	a.cache.Set(digest, session, gocache.DefaultExpiration)
}
