// Package pdfio wraps the PDF reading stack behind a single Document handle.
// The orchestrator opens one Document per request, owns its lifetime, and
// closes it after every sub-extraction referencing it has finished.
package pdfio

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Word is a positioned text fragment on a page, in PDF user-space points.
type Word struct {
	X, Y, W  float64
	S        string
	Font     string
	FontSize float64
}

// ImageInfo describes an embedded page image.
type ImageInfo struct {
	Name   string
	Format string
	Width  int
	Height int
	Size   int64
}

// Document is an open PDF. Page numbers are 1-indexed throughout.
type Document struct {
	path      string
	file      *os.File
	reader    *pdf.Reader
	pageCount int
	dims      []pageDim
}

type pageDim struct{ width, height float64 }

// Open opens the document and caches page count and page geometry. The
// caller must Close the returned Document.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	d := &Document{path: path, file: f, reader: r}
	if err := safely(func() { d.pageCount = r.NumPage() }); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read page tree: %w", err)
	}

	if dims, err := api.PageDimsFile(path); err == nil {
		d.dims = make([]pageDim, len(dims))
		for i, dim := range dims {
			d.dims[i] = pageDim{width: dim.Width, height: dim.Height}
		}
	}
	return d, nil
}

func (d *Document) Close() error { return d.file.Close() }

func (d *Document) Path() string { return d.path }

func (d *Document) PageCount() int { return d.pageCount }

// PageText returns the plain text of page n. Malformed pages yield an error,
// never a panic.
func (d *Document) PageText(n int) (string, error) {
	var text string
	var perr error
	if err := safely(func() {
		p := d.reader.Page(n)
		if p.V.IsNull() {
			perr = fmt.Errorf("page %d: missing page object", n)
			return
		}
		text, perr = p.GetPlainText(nil)
	}); err != nil {
		return "", err
	}
	return text, perr
}

// PageWords returns the positioned text fragments of page n, used by table
// detection to recover the row/column grid.
func (d *Document) PageWords(n int) (words []Word, err error) {
	err = safely(func() {
		p := d.reader.Page(n)
		if p.V.IsNull() {
			return
		}
		content := p.Content()
		words = make([]Word, 0, len(content.Text))
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			words = append(words, Word{X: t.X, Y: t.Y, W: t.W, S: t.S, Font: t.Font, FontSize: t.FontSize})
		}
	})
	return words, err
}

// PageFonts lists the font names referenced by page n.
func (d *Document) PageFonts(n int) []string {
	var fonts []string
	_ = safely(func() {
		p := d.reader.Page(n)
		if !p.V.IsNull() {
			fonts = p.Fonts()
		}
	})
	return fonts
}

// PageDims returns the width and height of page n in points. Zero values
// mean geometry could not be determined.
func (d *Document) PageDims(n int) (width, height float64) {
	if n >= 1 && n <= len(d.dims) {
		return d.dims[n-1].width, d.dims[n-1].height
	}
	return 0, 0
}

// PageHasAnnotations reports whether page n carries an Annots array.
func (d *Document) PageHasAnnotations(n int) bool {
	var has bool
	_ = safely(func() {
		p := d.reader.Page(n)
		if p.V.IsNull() {
			return
		}
		annots := p.V.Key("Annots")
		has = annots.Kind() == pdf.Array && annots.Len() > 0
	})
	return has
}

// PageImages enumerates the image XObjects of page n.
func (d *Document) PageImages(n int) []ImageInfo {
	var images []ImageInfo
	_ = safely(func() {
		p := d.reader.Page(n)
		if p.V.IsNull() {
			return
		}
		xobjs := p.V.Key("Resources").Key("XObject")
		if xobjs.Kind() != pdf.Dict {
			return
		}
		for _, name := range xobjs.Keys() {
			obj := xobjs.Key(name)
			if obj.Key("Subtype").Name() != "Image" {
				continue
			}
			images = append(images, ImageInfo{
				Name:   name,
				Format: imageFormat(obj),
				Width:  int(obj.Key("Width").Int64()),
				Height: int(obj.Key("Height").Int64()),
				Size:   obj.Key("Length").Int64(),
			})
		}
	})
	return images
}

// Info returns the document information dictionary as decoded strings.
// Missing entries are absent from the map.
func (d *Document) Info() map[string]string {
	info := map[string]string{}
	_ = safely(func() {
		dict := d.reader.Trailer().Key("Info")
		if dict.Kind() != pdf.Dict {
			return
		}
		for _, key := range dict.Keys() {
			v := dict.Key(key)
			if v.Kind() != pdf.String {
				continue
			}
			if s := decodeText(v.RawString()); s != "" {
				info[key] = s
			}
		}
	})
	return info
}

// HasForms reports whether the document catalog carries an AcroForm entry.
func (d *Document) HasForms() bool {
	var has bool
	_ = safely(func() {
		form := d.reader.Trailer().Key("Root").Key("AcroForm")
		has = form.Kind() == pdf.Dict
	})
	return has
}

// Outline reports whether the document has bookmarks and how deep they nest.
func (d *Document) Outline() (depth int, has bool) {
	_ = safely(func() {
		outline := d.reader.Outline()
		depth = outlineDepth(outline.Child, 1)
		has = len(outline.Child) > 0
	})
	return depth, has
}

func outlineDepth(children []pdf.Outline, level int) int {
	if len(children) == 0 {
		return level - 1
	}
	max := level
	for _, c := range children {
		if d := outlineDepth(c.Child, level+1); d > max {
			max = d
		}
	}
	return max
}

func imageFormat(obj pdf.Value) string {
	filter := obj.Key("Filter")
	name := filter.Name()
	if filter.Kind() == pdf.Array && filter.Len() > 0 {
		name = filter.Index(filter.Len() - 1).Name()
	}
	switch name {
	case "DCTDecode":
		return "jpeg"
	case "JPXDecode":
		return "jp2"
	case "FlateDecode":
		return "flate"
	case "CCITTFaxDecode":
		return "ccitt"
	default:
		return "unknown"
	}
}

// decodeText converts a PDF text string to UTF-8, handling the UTF-16BE BOM
// form and stripping NUL bytes.
func decodeText(raw string) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		b := []byte(raw[2:])
		u16 := make([]uint16, 0, len(b)/2)
		for i := 0; i+1 < len(b); i += 2 {
			u16 = append(u16, uint16(b[i])<<8|uint16(b[i+1]))
		}
		raw = string(utf16.Decode(u16))
	}
	raw = strings.ReplaceAll(raw, "\x00", "")
	return strings.TrimSpace(raw)
}

// The underlying reader panics on malformed cross-reference and content
// structures; fail soft so a single bad page never aborts a document.
func safely(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf structure: %v", r)
		}
	}()
	fn()
	return nil
}
