package store

import "github.com/aretw0/moto/pkg/domain"

// Subscriber observes a store. Update runs once per dispatch that changed
// state, with full access to the store.
type Subscriber[S, A any] interface {
	Update(s *Store[S, A])
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc[S, A any] func(s *Store[S, A])

// Update calls f(s).
func (f SubscriberFunc[S, A]) Update(s *Store[S, A]) {
	f(s)
}

type subscription[S, A any] struct {
	token   domain.Token
	sub     Subscriber[S, A]
	removed bool
}
