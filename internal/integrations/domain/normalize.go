// Package domain normalizes integration payloads received from connectors and
// the UI into canonical provider ids and a two-valued connection status.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"gtm_backend/internal/integrations/catalog"
)

// ConnectionStatus is the stored state of a workspace/provider pair.
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusNotConnected ConnectionStatus = "not_connected"
)

// ErrUnknownProvider is returned for providers missing from the catalog.
var ErrUnknownProvider = errors.New("unknown provider")

var connectedWords = map[string]struct{}{
	"connected":  {},
	"active":     {},
	"enabled":    {},
	"authorized": {},
	"live":       {},
	"ok":         {},
	"on":         {},
	"true":       {},
	"1":          {},
}

// NormalizeStatus maps the status spellings sent by sync agents onto a
// ConnectionStatus. Anything not recognised as connected is not_connected.
func NormalizeStatus(raw any) ConnectionStatus {
	switch v := raw.(type) {
	case bool:
		if v {
			return StatusConnected
		}
	case float64:
		if v == 1 {
			return StatusConnected
		}
	case int:
		if v == 1 {
			return StatusConnected
		}
	case string:
		key := strings.ToLower(strings.TrimSpace(v))
		key = strings.ReplaceAll(key, "-", "_")
		if _, ok := connectedWords[key]; ok {
			return StatusConnected
		}
	case ConnectionStatus:
		if v == StatusConnected {
			return StatusConnected
		}
	}
	return StatusNotConnected
}

// Normalize resolves provider against the catalog and normalizes status.
func Normalize(cat *catalog.Catalog, provider string, status any) (catalog.Tool, ConnectionStatus, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	tool, ok := cat.Lookup(provider)
	if !ok {
		return catalog.Tool{}, StatusNotConnected, fmt.Errorf("%w: %q", ErrUnknownProvider, strings.TrimSpace(provider))
	}
	return tool, NormalizeStatus(status), nil
}
