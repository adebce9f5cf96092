// internal/app/system/uploads/uploads.go
//
// Package uploads streams multipart story uploads into the media store.
// The media part is checked against the declared media type as it arrives,
// so a rejected file is never written.
package uploads

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dalemusser/storyhub/internal/app/system/apierror"
	"github.com/dalemusser/storyhub/internal/app/system/limits"
	"github.com/dalemusser/storyhub/internal/app/system/mediastore"
	"github.com/dalemusser/storyhub/internal/app/system/normalize"
	"github.com/dalemusser/storyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxBytes is the largest accepted media file.
const DefaultMaxBytes = limits.DefaultMediaBytes

// FileField is the multipart field carrying the media file.
const FileField = "media"

const sniffBytes = 3072

// File describes a media part written to the store.
type File struct {
	Name         string
	URL          string
	OriginalName string
	ContentType  string
	Size         int64
}

// Result holds the text fields and the stored media file, if any.
type Result struct {
	Fields map[string]string
	File   *File
}

// Value returns the named text field, trimmed.
func (r *Result) Value(name string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Fields[name])
}

// Intake receives story uploads.
type Intake struct {
	store    storage.Store
	maxBytes int64
	log      *zap.Logger
	newName  func(ext string) string
}

// New creates an intake writing to store. maxBytes <= 0 uses DefaultMaxBytes.
func New(store storage.Store, maxBytes int64, logger *zap.Logger) *Intake {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Intake{
		store:    store,
		maxBytes: maxBytes,
		log:      logger,
		newName:  func(ext string) string { return uuid.NewString() + ext },
	}
}

// Receive consumes the request body. Non-multipart bodies yield an empty
// result. Errors are *apierror.Error values of kind Upload, except store
// failures which are server errors. On error nothing is left in the store.
func (in *Intake) Receive(ctx context.Context, r *http.Request) (*Result, error) {
	res := &Result{Fields: map[string]string{}}

	r.Body = http.MaxBytesReader(nil, r.Body, in.maxBytes+limits.MaxFormOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		// http.ErrNotMultipart and ErrMissingBoundary: treat as no form at all.
		return res, nil
	}

	fail := func(err error) (*Result, error) {
		in.Discard(ctx, res.File)
		res.File = nil
		return res, err
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if isBodyTooLarge(err) {
				return fail(tooLarge(in.maxBytes))
			}
			return fail(apierror.Upload("Malformed multipart request", err))
		}

		if part.FileName() == "" {
			v, err := readField(part)
			part.Close()
			if err != nil {
				if isBodyTooLarge(err) {
					return fail(tooLarge(in.maxBytes))
				}
				return fail(apierror.Upload("Malformed multipart request", err))
			}
			res.Fields[part.FormName()] = v
			continue
		}

		if part.FormName() != FileField || res.File != nil {
			part.Close()
			return fail(apierror.Upload("Unexpected field", nil))
		}

		f, err := in.storePart(ctx, part, normalize.MediaType(res.Fields["mediaType"]))
		part.Close()
		if err != nil {
			return fail(err)
		}
		res.File = f
	}

	return res, nil
}

// Discard deletes a stored file, logging failures.
func (in *Intake) Discard(ctx context.Context, f *File) {
	if f == nil {
		return
	}
	if err := mediastore.Remove(context.WithoutCancel(ctx), in.store, f.Name); err != nil {
		in.log.Warn("failed to remove uploaded media",
			zap.String("name", f.Name), zap.Error(err))
	}
}

func (in *Intake) storePart(ctx context.Context, part *multipart.Part, mediaType string) (*File, error) {
	if !models.IsValidMediaType(mediaType) {
		return nil, apierror.Upload("Invalid media type", nil)
	}

	br := bufio.NewReaderSize(part, sniffBytes)
	contentType := declaredType(part.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		head, _ := br.Peek(sniffBytes)
		contentType = sniff(head, mediaType)
	}
	if !models.AllowsMIME(mediaType, contentType) {
		return nil, apierror.Upload("Invalid file type for "+mediaType, nil)
	}

	name := in.newName(extension(part.FileName()))
	lr := &limitedReader{r: br, remaining: in.maxBytes}
	if err := in.store.Put(ctx, name, lr, &storage.PutOptions{ContentType: contentType}); err != nil {
		if lr.exceeded || isBodyTooLarge(err) {
			return nil, tooLarge(in.maxBytes)
		}
		return nil, apierror.Server("Failed to store file", err)
	}

	return &File{
		Name:         name,
		URL:          mediastore.MediaURL(name),
		OriginalName: part.FileName(),
		ContentType:  contentType,
		Size:         lr.read,
	}, nil
}

func readField(part *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, limits.MaxFormField+1))
	if err != nil {
		return "", err
	}
	if len(b) > limits.MaxFormField {
		return "", fmt.Errorf("field %q too large", part.FormName())
	}
	return string(b), nil
}

func declaredType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

// sniff detects the content type, preferring a match from the declared
// media type's allow-list among the detected type's aliases.
func sniff(head []byte, mediaType string) string {
	detected := mimetype.Detect(head)
	for _, allowed := range models.AllowedMIMETypes(mediaType) {
		if detected.Is(allowed) {
			return allowed
		}
	}
	mt, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return detected.String()
	}
	return mt
}

// extension keeps the original extension when it is short and alphanumeric.
func extension(filename string) string {
	ext := filepath.Ext(filepath.Base(strings.ReplaceAll(filename, `\`, "/")))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, c := range ext[1:] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return ""
		}
	}
	return ext
}

func tooLarge(limit int64) error {
	return apierror.Upload(fmt.Sprintf("File size too large. Maximum size is %dMB", limit/(1024*1024)), nil)
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

var errFileTooLarge = errors.New("file exceeds size limit")

type limitedReader struct {
	r         io.Reader
	remaining int64
	read      int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.exceeded {
		return 0, errFileTooLarge
	}
	// Allow one byte past the limit so an exact-size file is accepted.
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		l.exceeded = true
		return 0, errFileTooLarge
	}
	return n, err
}
