package domain

// UploadedFile is one submitted document. It lives for a single classification
// request and is never persisted.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CanonicalImage is one decoded raster frame of an uploaded document, already
// encoded in a format the vision capability accepts. A native image produces
// exactly one; a PDF produces one per page in page order.
type CanonicalImage struct {
	// Page is the 1-based source page number. Always 1 for native images.
	Page     int
	Width    int
	Height   int
	MIMEType string
	Data     []byte
}

// ClassificationResult is the validated outcome of a classification request.
// Category is always a member of the schema the pipeline was built with.
type ClassificationResult struct {
	Category string `json:"document_type"`
	Notes    string `json:"notes,omitempty"`
}
