/*
Package store owns a root state value, the composed middleware chain that
guards it, and the subscribers observing it.

A dispatch flows through the chain outermost-declared first. The innermost
link reduces the action with the root reducer.Node and, when the change flag
is set, notifies subscribers in subscription order:

	Dispatch(a) -> m1 -> m2 -> ... -> reduce -> Node.Dispatch -> subscribers

The chain is composed once in New. Middleware may suppress an action by not
calling next, or call next more than once; each call to next is an
independent reduce with its own notification pass.

Stores are single-threaded. Subscribers receive the store itself and may
dispatch again; the re-entrant dispatch runs to completion before the outer
notification pass continues. There is no recursion guard.
*/
package store
