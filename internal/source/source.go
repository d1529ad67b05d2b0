// Package source rasterizes the infographic that every scene is drawn on.
package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source is a paged raster input. Page dimensions are in the source's own
// units (PDF points, SVG user units, image pixels); content positions use
// the same units.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a source by file extension; directories are image sequences.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewFitzPDFSource(path)
	case ".svg":
		return NewSVGSource(path)
	}
	return NewImageSource(path)
}

// Base renders page index of src and crops it to even dimensions, which
// yuv420p encoding requires. It also returns pixels per source unit.
func Base(src Source, index, dpi int) (*image.RGBA, float64, error) {
	if index < 0 || index >= src.PageCount() {
		return nil, 0, fmt.Errorf("page %d out of range (%d pages)", index, src.PageCount())
	}
	img, err := src.RenderPage(index, dpi)
	if err != nil {
		return nil, 0, fmt.Errorf("render page %d: %w", index, err)
	}
	rgba := EvenCrop(img)
	if rgba.Bounds().Empty() {
		return nil, 0, fmt.Errorf("page %d renders empty", index)
	}

	scale := 1.0
	if w, _, err := src.GetPageDimensions(index); err == nil && w > 0 {
		scale = float64(img.Bounds().Dx()) / w
	}
	return rgba, scale, nil
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage opens its own document handle; fitz documents are not safe
// for concurrent use.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	doc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return doc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
