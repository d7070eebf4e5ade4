package router

import "log/slog"

// Warning is a developer warning. Warnings never change what is rendered.
type Warning struct {
	Code    string
	Message string
}

var (
	WarnComponentAndRender = Warning{
		Code:    "W001",
		Message: "You should not use component and render in the same route; render will be ignored",
	}
	WarnComponentAndChildren = Warning{
		Code:    "W002",
		Message: "You should not use component and children in the same route; children will be ignored",
	}
	WarnRenderAndChildren = Warning{
		Code:    "W003",
		Message: "You should not use render and children in the same route; children will be ignored",
	}
	WarnUncontrolledToControlled = Warning{
		Code:    "W004",
		Message: "A route is changing from uncontrolled to controlled. Decide between a controlled or uncontrolled route for the lifetime of the component.",
	}
	WarnControlledToUncontrolled = Warning{
		Code:    "W005",
		Message: "A route is changing from controlled to uncontrolled. Decide between a controlled or uncontrolled route for the lifetime of the component.",
	}
	WarnChildFuncAndChildren = Warning{
		Code:    "W006",
		Message: "You should not use a children function and child elements in the same route; child elements will be ignored",
	}
)

// warn logs w at Warn level and counts it, when developer warnings are on.
func (rc *Context) warn(w Warning, path string) {
	e := rc.environment()
	if !e.devWarnings {
		return
	}
	rc.Logger().LogAttrs(rc.Std(), slog.LevelWarn, w.Message,
		slog.String("code", w.Code),
		slog.String("route", path),
	)
	e.observer.ObserveWarning(rc.Std(), w.Code)
}
