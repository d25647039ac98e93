// Package pdfdoc provides read access to PDF documents: page geometry,
// embedded images, per-page text and document metadata.
//
// Structural access (page count, media boxes, embedded images) goes
// through pdfcpu; text runs and the Info dictionary come from rsc.io/pdf,
// which decodes content streams that pdfcpu only exposes raw.
package pdfdoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	pdf "rsc.io/pdf"
)

// ErrOpen indicates a document that cannot be opened or parsed at all.
var ErrOpen = errors.New("cannot open PDF document")

// EmbeddedImage is a raster image found in a page's resource stream.
type EmbeddedImage struct {
	Name     string
	FileType string
	Data     []byte
}

// Document is an open PDF. Safe for concurrent reads: text extraction
// shares one reader over an io.ReaderAt, and image extraction opens its
// own file handle per call.
type Document struct {
	path      string
	file      *os.File
	reader    *pdf.Reader
	pageCount int
	dims      []types.Dim
	metadata  map[string]string
}

// Open opens and inspects the document at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	pageCount, err := api.PageCount(f, nil)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	dims, err := api.PageDims(f, nil)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	reader, err := newReader(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	d := &Document{
		path:      path,
		file:      f,
		reader:    reader,
		pageCount: pageCount,
		dims:      dims,
	}
	d.metadata = d.readMetadata()
	return d, nil
}

// newReader wraps pdf.NewReader, converting its panics into errors.
func newReader(f *os.File, size int64) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader: %v", rec)
		}
	}()
	return pdf.NewReader(f, size)
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	return d.file.Close()
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pageCount
}

// MediaBox returns the width and height of a page in native PDF units.
// pageIndex is zero-based.
func (d *Document) MediaBox(pageIndex int) (width, height float64, err error) {
	if pageIndex < 0 || pageIndex >= len(d.dims) {
		return 0, 0, fmt.Errorf("page %d out of range [0,%d)", pageIndex, len(d.dims))
	}
	dim := d.dims[pageIndex]
	return dim.Width, dim.Height, nil
}

// PageText extracts the text runs of a page in content-stream order.
// pageIndex is zero-based. rsc.io/pdf signals malformed content streams
// by panicking, so extraction runs behind a recover.
func (d *Document) PageText(pageIndex int) (text string, err error) {
	if pageIndex < 0 || pageIndex >= d.pageCount {
		return "", fmt.Errorf("page %d out of range [0,%d)", pageIndex, d.pageCount)
	}

	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("extract text from page %d: %v", pageIndex, rec)
		}
	}()

	page := d.reader.Page(pageIndex + 1)
	if page.V.Kind() != pdf.Dict {
		return "", fmt.Errorf("page %d not found", pageIndex)
	}
	return assembleText(page.Content().Text), nil
}

// PageImages returns the raster images embedded in a page, in object
// number order. pageIndex is zero-based. A fresh file handle is opened
// per call so concurrent page jobs never share a seek position.
func (d *Document) PageImages(pageIndex int) ([]EmbeddedImage, error) {
	if pageIndex < 0 || pageIndex >= d.pageCount {
		return nil, fmt.Errorf("page %d out of range [0,%d)", pageIndex, d.pageCount)
	}

	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("reopen %s: %w", d.path, err)
	}
	defer f.Close()

	pages := []string{strconv.Itoa(pageIndex + 1)}
	imgMaps, err := api.ExtractImagesRaw(f, pages, nil)
	if err != nil {
		return nil, fmt.Errorf("extract images from page %d: %w", pageIndex, err)
	}

	var images []EmbeddedImage
	for _, m := range imgMaps {
		objNrs := make([]int, 0, len(m))
		for objNr := range m {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := m[objNr]
			data, err := io.ReadAll(img)
			if err != nil {
				// Undecodable image streams are skipped, matching the
				// rasterizer's paste-what-you-can contract.
				continue
			}
			images = append(images, EmbeddedImage{
				Name:     img.Name,
				FileType: img.FileType,
				Data:     data,
			})
		}
	}
	return images, nil
}

// Metadata returns the document Info dictionary as a string map. Absent
// metadata yields an empty map, never nil.
func (d *Document) Metadata() map[string]string {
	return d.metadata
}

// readMetadata decodes the trailer Info dictionary. rsc.io/pdf panics on
// malformed objects; a document without readable metadata still opens.
func (d *Document) readMetadata() (meta map[string]string) {
	meta = map[string]string{}
	defer func() {
		recover() // keep whatever was collected before the failure
	}()

	info := d.reader.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return meta
	}
	for _, key := range info.Keys() {
		v := info.Key(key)
		switch v.Kind() {
		case pdf.String:
			meta[key] = decodeTextString(v.RawString())
		case pdf.Name:
			meta[key] = v.Name()
		}
	}
	return meta
}

// assembleText joins text runs, inserting line breaks on baseline changes
// and spaces across horizontal gaps.
func assembleText(texts []pdf.Text) string {
	var sb strings.Builder
	var last pdf.Text
	for i, t := range texts {
		if i > 0 {
			switch {
			case t.Y != last.Y:
				sb.WriteByte('\n')
			case t.X-(last.X+last.W) > last.FontSize*0.2:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t.S)
		last = t
	}
	return sb.String()
}

// decodeTextString handles the UTF-16BE variant of PDF text strings.
func decodeTextString(s string) string {
	if !strings.HasPrefix(s, "\xfe\xff") {
		return s
	}
	b := []byte(s[2:])
	u16 := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u16 = append(u16, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(u16))
}
