package service

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed branding_settings.schema.json
var brandingSettingsSchema []byte

const brandingSettingsSchemaURL = "https://rastro.app/schemas/branding_settings.json"

var compiledBrandingSettings = mustCompileBrandingSettings()

func mustCompileBrandingSettings() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(brandingSettingsSchemaURL, bytes.NewReader(brandingSettingsSchema)); err != nil {
		panic(fmt.Sprintf("register branding settings schema: %v", err))
	}
	schema, err := compiler.Compile(brandingSettingsSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("compile branding settings schema: %v", err))
	}
	return schema
}

// DecodeBrandingSettings validates a branding_settings config_value and returns it as a map.
func DecodeBrandingSettings(raw []byte) (map[string]any, error) {
	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("decode branding settings: %w", err)
	}
	if err := compiledBrandingSettings.Validate(document); err != nil {
		return nil, fmt.Errorf("branding settings validation: %w", err)
	}
	out, _ := document.(map[string]any)
	return out, nil
}
