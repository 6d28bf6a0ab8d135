package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code, so the
// sentinels below match wrapped-with-cause variants of themselves.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeAlreadyIngested = "ALREADY_INGESTED"
	ErrCodeExtraction      = "EXTRACTION_ERROR"
	ErrCodeIndexWrite      = "INDEX_WRITE_ERROR"
	ErrCodeDuplicateKey    = "DUPLICATE_KEY"
	ErrCodeGeneration      = "GENERATION_ERROR"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuestion        = NewDomainError(ErrCodeValidation, "question cannot be empty")
	ErrEmptyFile            = NewDomainError(ErrCodeValidation, "uploaded file is empty")
	ErrMissingFilename      = NewDomainError(ErrCodeValidation, "filename is required")
	ErrUnsupportedExtension = NewDomainError(ErrCodeValidation, "unsupported file extension")
)

// Ingestion errors. ErrAlreadyIngested is a skip signal rather than a
// failure: the pipeline reports it through IngestResult, not as an error.
var (
	ErrAlreadyIngested  = NewDomainError(ErrCodeAlreadyIngested, "document already ingested")
	ErrExtractionFailed = NewDomainError(ErrCodeExtraction, "failed to extract text from document")
	ErrIndexWriteFailed = NewDomainError(ErrCodeIndexWrite, "failed to write chunks to the vector index")
	ErrDuplicateHash    = NewDomainError(ErrCodeDuplicateKey, "content hash already recorded in ledger")
)

// Query errors
var (
	ErrGenerationFailed = NewDomainError(ErrCodeGeneration, "generation collaborator failed to produce an answer")
)

// Not found errors
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")

	// ErrArchiveNotConfigured means the deployment keeps no archived
	// originals, so there is nothing to generate a download URL for.
	ErrArchiveNotConfigured = NewDomainError(ErrCodeNotFound, "document archive is not configured")
)
