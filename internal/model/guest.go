package model

import "strings"

// MaxHostPicks is the number of host picks a guide link can carry.
const MaxHostPicks = 2

// CustomPlace is a spot added by the host or guest while browsing a guide.
// It travels in the page's navigation state and is never stored server-side.
type CustomPlace struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Category string `json:"category"`
	Link     string `json:"link"`
}

// HostPick is a place the host personally recommends.
type HostPick struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

// Empty reports whether the pick has no name.
func (p HostPick) Empty() bool {
	return strings.TrimSpace(p.Name) == ""
}
