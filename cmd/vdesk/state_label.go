package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vdesk/internal/session"
)

var titleCaser = cases.Title(language.English)

// stateLabel renders a session state for humans, e.g. "Fetching Params".
func stateLabel(s session.State) string {
	return titleCaser.String(strings.ReplaceAll(s.String(), "_", " "))
}
