package ui

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/google/uuid"
)

// DefaultMaxPreviewSize is the default upload ceiling (5 MiB).
const DefaultMaxPreviewSize = 5 * 1024 * 1024

// DefaultAllowedTypes is the default media type allow-list.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}

// Rejection reasons passed to PreviewOptions.OnError.
const (
	ErrFileTooLarge    = "File size too large"
	ErrInvalidFileType = "Invalid file type"
)

// File is a selected file as reported by a file input.
type File struct {
	Name string
	Size int64
	Type string // declared media type
	Open func() (io.ReadCloser, error)
}

// FileFromHeader adapts a multipart upload to File.
func FileFromHeader(fh *multipart.FileHeader) File {
	return File{
		Name: fh.Filename,
		Size: fh.Size,
		Type: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// FileFromBytes builds a File backed by an in-memory buffer.
func FileFromBytes(name, mediaType string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Type: mediaType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// PreviewOptions configures CreateFilePreview. Zero values select the
// defaults.
type PreviewOptions struct {
	MaxSize      int64
	AllowedTypes []string
	Container    *goquery.Selection
	OnSuccess    func(File)
	OnError      func(reason string)
	Notifier     Notifier
	Logger       *slog.Logger
}

// FilePreview is the handle returned by CreateFilePreview.
type FilePreview struct {
	input *goquery.Selection
	opts  PreviewOptions

	mu sync.Mutex // serialises container writes from readers
	wg sync.WaitGroup
}

// CreateFilePreview attaches preview behaviour to a file input. The input's
// accept attribute is set to the allow-list. It returns nil for a missing
// input.
func CreateFilePreview(input *goquery.Selection, opts PreviewOptions) *FilePreview {
	if missing(input) {
		return nil
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxPreviewSize
	}
	if len(opts.AllowedTypes) == 0 {
		opts.AllowedTypes = DefaultAllowedTypes
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Logger: opts.Logger}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	input.SetAttr("accept", strings.Join(opts.AllowedTypes, ","))
	return &FilePreview{input: input, opts: opts}
}

// Change simulates a selection on the input. Only the first file is
// considered. It reports whether the file was accepted; the preview itself
// is produced asynchronously.
func (p *FilePreview) Change(files ...File) bool {
	if p == nil || len(files) == 0 {
		return false
	}
	file := files[0]

	if file.Size > p.opts.MaxSize {
		p.reject(ErrFileTooLarge, fmt.Sprintf("File size too large. Maximum size is %s.", FormatFileSize(p.opts.MaxSize)))
		return false
	}
	if !contains(p.opts.AllowedTypes, file.Type) {
		p.reject(ErrInvalidFileType, "Invalid file type. Please select an image file.")
		return false
	}

	if !missing(p.opts.Container) && strings.HasPrefix(file.Type, "image/") && file.Open != nil {
		p.wg.Add(1)
		go p.read(file)
	}

	if p.opts.OnSuccess != nil {
		p.opts.OnSuccess(file)
	}
	return true
}

// Wait blocks until every preview read started by Change has finished.
func (p *FilePreview) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}

func (p *FilePreview) reject(reason, notice string) {
	if p.opts.OnError != nil {
		p.opts.OnError(reason)
	}
	p.opts.Notifier.Notify(notice, LevelError)
}

// read loads the file as a data URL and replaces the container content.
// Concurrent reads race; whichever finishes last is displayed.
func (p *FilePreview) read(file File) {
	defer p.wg.Done()

	readID := uuid.NewString()
	logger := p.opts.Logger.With("read_id", readID, "file", file.Name)

	dataURL, err := readDataURL(file)
	if err != nil {
		logger.Warn("preview read failed", "error", err)
		p.opts.Notifier.Notify("Could not read the selected file.", LevelError)
		return
	}

	markup := renderMarkup(previewMarkup(file, dataURL))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.Container.SetHtml(markup)
	logger.Debug("preview rendered", "size", file.Size)
}

func readDataURL(file File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file.Name, err)
	}
	return "data:" + file.Type + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func previewMarkup(file File, dataURL string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="text-center">`+
				`<img src="%s" class="img-fluid rounded" style="max-height: 200px;" alt="Preview">`+
				`<p class="mt-2 mb-0 text-muted small">%s (%s)</p></div>`,
			esc(dataURL), esc(file.Name), FormatFileSize(file.Size))
		return err
	})
}
