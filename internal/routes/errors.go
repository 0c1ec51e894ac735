package routes

import (
	"errors"
	"fmt"

	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
)

var (
	// ErrDuplicateRoute is returned when two definitions share a name.
	ErrDuplicateRoute = errors.New("duplicate route name")

	// ErrInvalidRouteName is returned for names that cannot become a single
	// output directory.
	ErrInvalidRouteName = errors.New("invalid route name")

	// ErrVariantGenerator wraps errors yielded by a variant generator.
	ErrVariantGenerator = errors.New("variant generator failed")
)

func duplicateRouteError(name string, firstIndex int) error {
	return ferrors.RouteError("route registration failed").
		WithCause(fmt.Errorf("%w: %q", ErrDuplicateRoute, name)).
		WithContext("route", name).
		WithContext("first_definition", firstIndex).
		Build()
}

func invalidRouteNameError(name, reason string) error {
	return ferrors.RouteError("route registration failed").
		WithCause(fmt.Errorf("%w %q: %s", ErrInvalidRouteName, name, reason)).
		WithContext("route", name).
		Build()
}

func variantGeneratorError(route string, cause error) error {
	return ferrors.RouteError("route expansion failed").
		WithCause(fmt.Errorf("%w: %w", ErrVariantGenerator, cause)).
		WithContext("route", route).
		Build()
}
