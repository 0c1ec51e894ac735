package render

import (
	"errors"
	"fmt"

	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

var (
	// ErrRenderCollaborator wraps errors returned by the Renderer for a page.
	ErrRenderCollaborator = errors.New("render collaborator failed")

	// ErrAssetCollection wraps errors returned by the AssetCollector.
	ErrAssetCollection = errors.New("asset collection failed")
)

func renderFailure(p routes.PageRecord, err error) error {
	return ferrors.RenderError("page render failed").
		WithCause(fmt.Errorf("%w: %w", ErrRenderCollaborator, err)).
		WithContext("page", p.Name).
		WithContext("template", p.Template).
		Build()
}

func writeFailure(p routes.PageRecord, err error) error {
	return ferrors.FileSystemError("page write failed").
		WithCause(err).
		WithContext("page", p.Name).
		WithContext("output_path", p.OutputPath).
		Build()
}

func assetFailure(staticRoot string, err error) error {
	return ferrors.AssetError("asset collection failed").
		WithCause(fmt.Errorf("%w: %w", ErrAssetCollection, err)).
		WithContext("destination", staticRoot).
		Build()
}
