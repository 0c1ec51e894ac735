package paths

import (
	"errors"
	"fmt"

	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
)

var (
	// ErrUnknownRootConvention is returned for page names that are neither the
	// root route nor a single directory name.
	ErrUnknownRootConvention = errors.New("page name is neither root nor a single path segment")

	// ErrUnknownTargetRoute is returned when a link names a page that does not
	// exist in the expanded registry.
	ErrUnknownTargetRoute = errors.New("unknown link target")

	// ErrOutputPathCollision is returned when two pages, or a page and the
	// static asset directory, claim the same output location.
	ErrOutputPathCollision = errors.New("output path collision")
)

func unknownRootConventionError(name string) error {
	return ferrors.InternalError("cannot classify page name").
		WithCause(fmt.Errorf("%w: %q", ErrUnknownRootConvention, name)).
		WithContext("page", name).
		Build()
}

// UnknownTargetError builds the error recorded when source links to a missing page.
func UnknownTargetError(source, target string) error {
	return ferrors.LinkError("broken internal link").
		WithCause(fmt.Errorf("%w %q", ErrUnknownTargetRoute, target)).
		WithContext("page", source).
		WithContext("target", target).
		Build()
}

// CollisionError builds the error for an output location claimed twice.
func CollisionError(outputPath, claimant, holder string) error {
	return ferrors.NewError(ferrors.CategoryLink, "output path claimed twice").
		Fatal().
		WithCause(fmt.Errorf("%w: %s", ErrOutputPathCollision, outputPath)).
		WithContext("output_path", outputPath).
		WithContext("page", claimant).
		WithContext("claimed_by", holder).
		Build()
}
