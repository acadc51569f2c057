package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"
	"go.uber.org/zap"

	"github.com/zenGate-Global/rastro-saas/platform/go/problems"
)

// NewSpecValidator builds request validation middleware for an OpenAPI document.
// Rejections are written as problem+json.
func NewSpecValidator(logger *zap.Logger, spec *openapi3.T) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ensureBearerScheme(logger, spec)

	return oapimiddleware.OapiRequestValidatorWithOptions(spec, &oapimiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: ValidateAuthenticationViaSwagger,
		},
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			problemType := problems.TypeValidation
			title := "Request validation failed"
			if statusCode == http.StatusUnauthorized {
				problemType = problems.TypeUnauthorized
				title = "Unauthorized"
			}
			problems.Write(w, nil, problems.New(statusCode, problemType, title, message))
		},
	})
}

// ValidateAuthenticationViaSwagger enforces a Bearer header for operations that require bearerAuth.
// Operations that also allow anonymous callers never reach this for the empty requirement.
func ValidateAuthenticationViaSwagger(_ context.Context, input *openapi3filter.AuthenticationInput) error {
	if input == nil || input.SecuritySchemeName != "bearerAuth" {
		return nil
	}
	r := input.RequestValidationInput.Request
	if r == nil {
		return fmt.Errorf("no request in validation input")
	}
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return fmt.Errorf("missing or invalid Authorization header")
	}
	return nil
}

func ensureBearerScheme(logger *zap.Logger, spec *openapi3.T) {
	if spec.Components.SecuritySchemes == nil {
		spec.Components.SecuritySchemes = openapi3.SecuritySchemes{}
	}
	if _, ok := spec.Components.SecuritySchemes["bearerAuth"]; !ok {
		spec.Components.SecuritySchemes["bearerAuth"] = &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{Type: "http", Scheme: "bearer"},
		}
		logger.Warn("injecting default bearerAuth security scheme")
	}
}
