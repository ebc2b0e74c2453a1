// Package identity resolves user ids to the names shown in the usage table.
package identity

import (
	"os/user"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/evanr70/usage/internal/usage"
)

// DefaultTTL is how long a resolved name is reused before the account
// database is consulted again.
const DefaultTTL = 5 * time.Minute

// lookupID allows tests to stub the account database.
var lookupID = user.LookupId

// Resolver looks up display names and caches them.
type Resolver struct {
	names *cache.Cache
}

// NewResolver returns a Resolver caching names for ttl. A ttl of zero or less
// uses DefaultTTL.
func NewResolver(ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{names: cache.New(ttl, 2*ttl)}
}

// Resolve returns the display name of id: the first GECOS entry of the
// account, or its login name when GECOS is empty. Ids without an account
// record are an error.
func (r *Resolver) Resolve(id usage.UserID) (string, error) {
	key := strconv.FormatUint(uint64(id), 10)
	if name, ok := r.names.Get(key); ok {
		return name.(string), nil
	}

	u, err := lookupID(key)
	if err != nil {
		return "", errors.Wrapf(err, "no account record for uid %s", key)
	}

	name := u.Name
	if name == "" {
		name = u.Username
	}
	r.names.SetDefault(key, name)

	return name, nil
}

// Forget drops every cached name.
func (r *Resolver) Forget() {
	r.names.Flush()
}
