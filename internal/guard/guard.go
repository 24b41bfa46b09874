// Package guard decides which view a session may reach.
package guard

import "plannest/internal/session"

// Paths of the routed views.
const (
	PathHome     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
)

// View names a screen that can be rendered.
type View string

const (
	ViewTodos    View = "todos"
	ViewLogin    View = "login"
	ViewRegister View = "register"
)

// Kind is the outcome of a routing decision.
type Kind int

const (
	// Placeholder means the session hasn't settled; nothing may be routed yet.
	Placeholder Kind = iota
	// Render means the requested view may be shown.
	Render
	// Redirect means the client must go to Target instead.
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Placeholder:
		return "placeholder"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	}
	return "invalid"
}

// Decision is the result of Decide. View is set for Render, Target for Redirect.
type Decision struct {
	Kind   Kind
	View   View
	Target string
}

// Decide maps a session and a requested path to a decision.
// It has no side effects.
func Decide(s session.Session, path string) Decision {
	state := s.State()
	if state == session.Unknown {
		return Decision{Kind: Placeholder}
	}
	authenticated := state == session.Authenticated

	switch path {
	case PathRegister, PathLogin:
		if authenticated {
			return redirect(PathHome)
		}
		if path == PathLogin {
			return render(ViewLogin)
		}
		return render(ViewRegister)
	case PathHome:
		if !authenticated {
			return redirect(PathLogin)
		}
		return render(ViewTodos)
	default:
		return redirect(PathHome)
	}
}

func render(v View) Decision {
	return Decision{Kind: Render, View: v}
}

func redirect(target string) Decision {
	return Decision{Kind: Redirect, Target: target}
}
