package async

import "errors"

// ErrTimeout is returned by AwaitWithTimeout when the computation does not
// complete in time.
var ErrTimeout = errors.New("async.errors.timeout")
