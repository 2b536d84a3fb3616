package reactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	reactor "github.com/faizol/reactor"
)

func TestConnectableObservableSharesOneUpstreamSubscription(t *testing.T) {
	subscriptions := 0
	source := reactor.Create(func(o reactor.Observer[int]) {
		subscriptions++
		o.SetUpstream(reactor.NewDisposable())
	})

	connectable := reactor.Publish(source)
	connectable.Observable().SubscribeFunc(func(int) {}, func(error) {}, func() {})
	connectable.Observable().SubscribeFunc(func(int) {}, func(error) {}, func() {})

	assert.Equal(t, 0, subscriptions)
	connectable.Connect()
	assert.Equal(t, 1, subscriptions)
}

func TestRefCountConnectsOnFirstSubscriberAndDisconnectsOnLast(t *testing.T) {
	subscriptions := 0
	disconnects := 0
	source := reactor.Create(func(o reactor.Observer[int]) {
		subscriptions++
		o.SetUpstream(reactor.NewCallbackDisposable(func() { disconnects++ }))
	})

	shared := reactor.RefCount(source)

	a := shared.SubscribeFunc(func(int) {}, func(error) {}, func() {})
	assert.Equal(t, 1, subscriptions)

	b := shared.SubscribeFunc(func(int) {}, func(error) {}, func() {})
	assert.Equal(t, 1, subscriptions)

	a.Dispose()
	assert.Equal(t, 0, disconnects)

	b.Dispose()
	assert.Equal(t, 1, disconnects)

	shared.SubscribeFunc(func(int) {}, func(error) {}, func() {})
	assert.Equal(t, 2, subscriptions)
}
