package tex2html

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource    = errors.New("source content cannot be empty")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPageAssembly   = errors.New("page assembly failed")
	ErrPoolClosed     = errors.New("converter pool is closed")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
