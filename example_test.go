package moto_test

import (
	"fmt"
	"log"

	"github.com/aretw0/moto"
	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/aretw0/moto/pkg/registry"
	"github.com/aretw0/moto/pkg/store"
)

type counterAction int

const (
	inc counterAction = iota
	dec
	noop
)

type counterState struct {
	Counter int64
}

// ExampleNew builds a one-field store, subscribes to it and dispatches a few actions.
// Only dispatches that change the state reach the subscriber.
func ExampleNew() {
	reg := registry.New()
	reducer.Register(reg, "counter", func(v int64, a counterAction) domain.Outcome[int64] {
		switch a {
		case inc:
			return domain.Changed(v + 1)
		case dec:
			return domain.Changed(v - 1)
		}
		return domain.Unchanged(v)
	})

	b := reducer.New[counterState, counterAction]("counter_state")
	reducer.Field(b, "counter", func(s *counterState) *int64 { return &s.Counter }).Reducers("counter")

	s, err := moto.New(counterState{}, b, moto.WithRegistry(reg))
	if err != nil {
		log.Fatal(err)
	}

	s.SubscribeFunc(func(s *store.Store[counterState, counterAction]) {
		fmt.Println("counter is now", s.State().Counter)
	})

	s.Dispatch(inc)
	s.Dispatch(noop)
	s.Dispatch(inc)
	s.Dispatch(dec)

	// Output:
	// counter is now 1
	// counter is now 2
	// counter is now 1
}

// ExampleNew_middleware shows the order middleware runs in: the first
// declared is the outermost link.
func ExampleNew_middleware() {
	reg := registry.New()
	reducer.Register(reg, "counter", func(v int64, a counterAction) domain.Outcome[int64] {
		if a == inc {
			return domain.Changed(v + 1)
		}
		return domain.Unchanged(v)
	})
	for _, name := range []string{"outer", "inner"} {
		reg.Register(name, registry.KindMiddleware, store.Middleware[counterState, counterAction](
			func(s *store.Store[counterState, counterAction], next store.Next[counterState, counterAction], a counterAction) {
				fmt.Println("enter", name)
				next(s, a)
				fmt.Println("leave", name)
			}))
	}

	b := reducer.New[counterState, counterAction]("counter_state")
	reducer.Field(b, "counter", func(s *counterState) *int64 { return &s.Counter }).Reducers("counter")

	s, err := moto.New(counterState{}, b,
		moto.WithRegistry(reg),
		moto.WithMiddlewareNames("outer, inner"),
	)
	if err != nil {
		log.Fatal(err)
	}
	s.Dispatch(inc)

	// Output:
	// enter outer
	// enter inner
	// leave inner
	// leave outer
}
