package health

import "sync/atomic"

// notReady is inverted so the zero value means the server accepts traffic.
var notReady atomic.Bool

// SetReady toggles the readiness gate. Flip it off before draining connections
// so load balancers stop routing new requests.
func SetReady(ready bool) {
	notReady.Store(!ready)
}

// IsReady reports whether the readiness gate is open.
func IsReady() bool {
	return !notReady.Load()
}
