package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
)

// AllowedContentTypes maps sniffed MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
}

// BillStatus is the outcome recorded in the processed log.
type BillStatus string

const (
	BillStatusSuccess BillStatus = "success"
	BillStatusFailed  BillStatus = "failed"
)

// RunStatus summarizes a validation run.
type RunStatus string

const (
	RunStatusSuccess          RunStatus = "success"
	RunStatusValidationErrors RunStatus = "validation_errors"
)

// RunSource records where the validated document came from.
type RunSource string

const (
	RunSourceUpload RunSource = "upload"
	RunSourceGSPPI  RunSource = "gsppi"
	RunSourceCLI    RunSource = "cli"
)

// Flag values used by the boolean-like extraction fields.
const (
	FlagTrue  = "True"
	FlagFalse = "False"
)
