package locker

import "context"

// AdvisoryLocker runs fn while holding a lock shared by every instance using
// the same database. Lock and unlock happen on one connection.
type AdvisoryLocker interface {
	WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error
}
