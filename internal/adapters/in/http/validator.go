package http

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

// requestValidator checks parameters and bodies against the OpenAPI document.
// Paths the document does not describe, such as /health, pass through.
func requestValidator(swagger *openapi3.T) (echo.MiddlewareFunc, error) {
	// Match on path only; the server URLs in the document are for the docs UI.
	doc := *swagger
	doc.Servers = nil

	router, err := legacy.NewRouter(&doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}
	options.WithCustomSchemaErrorFunc(schemaErrorMessage)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return fail(ctx, fmt.Errorf("%w: %v", errRequestInvalid, err))
			}
			return next(ctx)
		}
	}, nil
}

func schemaErrorMessage(err *openapi3.SchemaError) string {
	if pointer := err.JSONPointer(); len(pointer) > 0 {
		return fmt.Sprintf("field '%s' failed validation: %s", strings.Join(pointer, "."), err.Reason)
	}
	return err.Reason
}
