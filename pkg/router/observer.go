package router

import "context"

// Observer receives routing events. ctx is the standard context of the
// render, see Context.Std. Implementations must be safe for concurrent use.
type Observer interface {
	// ObserveMatch is called after a Route or Switch matches a path.
	ObserveMatch(ctx context.Context, path string, matched bool)

	// ObserveWarning is called for every developer warning.
	ObserveWarning(ctx context.Context, code string)
}

type nopObserver struct{}

func (nopObserver) ObserveMatch(context.Context, string, bool) {}
func (nopObserver) ObserveWarning(context.Context, string)     {}

// Observers fans events out to several observers.
type Observers []Observer

func (os Observers) ObserveMatch(ctx context.Context, path string, matched bool) {
	for _, o := range os {
		o.ObserveMatch(ctx, path, matched)
	}
}

func (os Observers) ObserveWarning(ctx context.Context, code string) {
	for _, o := range os {
		o.ObserveWarning(ctx, code)
	}
}
