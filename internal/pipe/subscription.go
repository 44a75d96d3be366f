package pipe

import "sync"

// Subscription binds one consumer to one stream.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery to the consumer. It is safe to call more than
// once and on a nil Subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Subscriptions is a set of subscriptions released together.
type Subscriptions []*Subscription

// Unsubscribe releases every subscription in the set.
func (s Subscriptions) Unsubscribe() {
	for _, sub := range s {
		sub.Unsubscribe()
	}
}
