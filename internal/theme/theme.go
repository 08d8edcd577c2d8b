// Package theme holds the light/dark preference of the explorer UI.
package theme

import "strings"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// CookieName is the cookie that carries a visitor's choice.
const CookieName = "explorer-theme"

// Parse returns the theme named s and whether s named one.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return "", false
	}
}

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string {
	return string(t)
}

// State is created once at startup and handed to every component that
// renders or toggles the theme. It is read-only after construction.
type State struct {
	fallback Theme
}

// NewState returns a State whose default is the theme named def, or dark
// when def names none.
func NewState(def string) *State {
	t, ok := Parse(def)
	if !ok {
		t = Dark
	}
	return &State{fallback: t}
}

// Default returns the theme shown to visitors without a preference.
func (s *State) Default() Theme {
	return s.fallback
}

// Resolve returns the visitor's theme from their cookie value.
func (s *State) Resolve(cookie string) Theme {
	if t, ok := Parse(cookie); ok {
		return t
	}
	return s.fallback
}

// Toggle returns the theme to switch to from the visitor's current cookie.
func (s *State) Toggle(cookie string) Theme {
	return s.Resolve(cookie).Other()
}
