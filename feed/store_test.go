package feed

import (
	"errors"
	"testing"

	"nwitter_api/types"
)

func TestUnsubscribeIsIdempotent(t *testing.T) {
	calls := 0
	sub := newSubscription(func() { calls++ })

	sub.Unsubscribe()
	sub.Unsubscribe()
	sub.Unsubscribe()

	if calls != 1 {
		t.Errorf("cancel called %d times, want 1", calls)
	}
}

func TestUnsubscribeBeforeHandleExists(t *testing.T) {
	// Teardown racing the async subscribe: no handle yet must not panic.
	sub := newSubscription(nil)
	sub.Unsubscribe()
}

func TestPublishLatestWins(t *testing.T) {
	sub := newSubscription(func() {})

	first := []types.Tweet{{Id: "a"}}
	second := []types.Tweet{{Id: "b"}, {Id: "c"}}

	sub.publish(first)
	sub.publish(second)

	got := <-sub.Snapshots()
	if len(got) != 2 || got[0].Id != "b" {
		t.Errorf("got snapshot %+v, want the later one", got)
	}

	select {
	case extra := <-sub.Snapshots():
		t.Errorf("unexpected extra snapshot %+v", extra)
	default:
	}
}

func TestPublishDeliversEachWhenConsumed(t *testing.T) {
	sub := newSubscription(func() {})

	sub.publish([]types.Tweet{{Id: "a"}})
	if got := <-sub.Snapshots(); got[0].Id != "a" {
		t.Fatalf("first snapshot = %+v", got)
	}

	sub.publish([]types.Tweet{{Id: "b"}})
	if got := <-sub.Snapshots(); got[0].Id != "b" {
		t.Fatalf("second snapshot = %+v", got)
	}
}

func TestFailDoesNotBlock(t *testing.T) {
	sub := newSubscription(func() {})

	sub.fail(errors.New("first"))
	sub.fail(errors.New("second")) // channel full; must not block

	err := <-sub.Err()
	if err == nil || err.Error() != "first" {
		t.Errorf("err = %v, want first", err)
	}
}
