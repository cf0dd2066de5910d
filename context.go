package goConsole

import (
	"context"

	"github.com/MrEthical07/goConsole/access"
)

type viewContextKey struct{}

// WithView attaches a resolved view to ctx so composition code receives it explicitly
// instead of reaching for process-wide state.
func WithView(ctx context.Context, view access.View) context.Context {
	return context.WithValue(ctx, viewContextKey{}, view)
}

// ViewFromContext returns the view attached by [WithView]. A context without one yields
// the zero (Initializing) view, which grants nothing.
func ViewFromContext(ctx context.Context) (access.View, bool) {
	if ctx == nil {
		return access.View{}, false
	}
	v, ok := ctx.Value(viewContextKey{}).(access.View)
	return v, ok
}
