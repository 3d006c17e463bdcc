package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrInvalidPDF          = errors.New("file is not a readable PDF")
	ErrMultiPagePDF        = errors.New("only single-page invoices are accepted")
	ErrBlankPDF            = errors.New("the first page is blank")
	ErrExtractionFailed    = errors.New("invoice extraction failed")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrSourceUnavailable   = errors.New("invoice source API unavailable")
	ErrBillNotFound        = errors.New("bill not found in processed log")
	ErrRunNotFound         = errors.New("validation run not found")
	ErrInvalidProfile      = errors.New("invalid billing profile")

	// Contract violations raised by the validation engine. Business-rule
	// failures are recorded as messages, never returned as errors.
	ErrMissingSection   = errors.New("required section is missing")
	ErrInvalidFieldType = errors.New("field has an unexpected type")
)
