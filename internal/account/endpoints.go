package account

import (
	"maps"
	"slices"
	"strings"
)

// Endpoint labels understood by SwitchEndpoint.
const (
	EndpointBeijing  = "beijing"
	EndpointTianjing = "tianjing"
)

var endpoints = map[string]string{
	EndpointBeijing:  "https://vdesk.knd.io",
	EndpointTianjing: "https://vdesk-tj.knd.io",
}

// LookupEndpoint returns the base URL registered for label.
func LookupEndpoint(label string) (string, bool) {
	url, ok := endpoints[strings.TrimSpace(label)]
	return url, ok
}

// EndpointLabels lists the known labels in sorted order.
func EndpointLabels() []string {
	return slices.Sorted(maps.Keys(endpoints))
}
