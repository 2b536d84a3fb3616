package reactor

// NewCompositeDisposable returns a Disposable backed by a dynamically growing child
// container: Add never fails due to capacity.
func NewCompositeDisposable(children ...Disposable) Disposable {
	d := &disposable{}
	for _, c := range children {
		_ = d.Add(c)
	}
	return d
}

// NewBoundedCompositeDisposable returns a Disposable backed by a fixed-capacity child
// container. Add beyond capacity returns ErrMoreDisposablesThanExpected and leaves the
// receiver and its already-held children live, per spec.md §3/§4.2.
func NewBoundedCompositeDisposable(capacity int) Disposable {
	return &disposable{capacity: capacity}
}
