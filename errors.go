package reactor

import "errors"

// ErrMoreDisposablesThanExpected is returned by a bounded CompositeDisposable's Add
// when the fixed-capacity container has no room left for another child. The children
// already held remain live; the parent remains live.
var ErrMoreDisposablesThanExpected = errors.New("reactor: more disposables than expected")

// ErrRetriesExhausted is the error a Retry/RetryWhen pipeline surfaces when the
// notifier gives up without the source ever completing.
var ErrRetriesExhausted = errors.New("reactor: retries exhausted")
