// Package contracts embeds the portal OpenAPI document.
package contracts

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed portal.yaml
var PortalYAML []byte

// LoadPortal parses and validates the embedded portal document.
func LoadPortal() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(PortalYAML)
	if err != nil {
		return nil, fmt.Errorf("load portal contract: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate portal contract: %w", err)
	}
	return doc, nil
}
