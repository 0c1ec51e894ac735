// Package errors provides the classified error primitives used across cottonsite.
//
// A ClassifiedError carries a category, a severity and structured context next to
// the usual message and cause. Domain packages keep their own sentinel errors
// (routes.ErrDuplicateRoute, paths.ErrUnknownTargetRoute, ...) and wrap them as
// the cause, so callers can match with errors.Is while the CLI adapter still
// gets a category to map onto an exit code.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryRender, "page render failed").
//		WithContext("page", page.Name).
//		WithContext("template", page.Template).
//		Build()
package errors
