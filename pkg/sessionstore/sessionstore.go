package sessionstore

import (
	"github.com/edushare/edushare/pkg/cache"
	"github.com/gin-contrib/sessions"
)

const (
	// SessionName is the cookie carrying the session ID.
	SessionName = "edushare-session"
	keyPrefix   = "es_session_"
)

type Store interface {
	sessions.Store
}

// NewStore creates a session store whose values live in driver and whose
// cookie only carries a signed session ID.
func NewStore(driver cache.Driver, keyPairs ...[]byte) Store {
	return &store{newKvStore(keyPrefix, driver, keyPairs...)}
}

type store struct {
	*kvStore
}

func (c *store) Options(options sessions.Options) {
	c.kvStore.Options = options.ToGorillaOptions()
}
