// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the largest accepted JSON request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxFormField is the largest text field accepted in a multipart upload.
	MaxFormField = 1 << 20 // 1 MB

	// MaxFormOverhead is the allowance for text fields and part headers on
	// top of the media file when capping a multipart body.
	MaxFormOverhead = 16 << 20 // 16 MB

	// DefaultMediaBytes is the largest accepted media file unless
	// configured otherwise.
	DefaultMediaBytes int64 = 100 << 20 // 100 MB
)
