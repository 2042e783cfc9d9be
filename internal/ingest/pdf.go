package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	dstypes "github.com/jackzampolin/docsift/internal/types"
)

// US Letter, used when a page has no usable media box.
const defaultPageHeight = 792.0

// PDFSource extracts positioned text lines from PDF content streams. Text is
// decoded from simple font encodings only; glyphs of composite fonts without
// a Unicode mapping are not recovered.
type PDFSource struct{}

// NewPDFSource returns a PDF reader.
func NewPDFSource() *PDFSource {
	return &PDFSource{}
}

// Name returns the source identifier.
func (s *PDFSource) Name() string {
	return "pdf"
}

// Read parses the PDF at path page by page.
func (s *PDFSource) Read(ctx context.Context, path, documentID string) ([]dstypes.TextLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	var lines []dstypes.TextLine
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Pages whose content cannot be decoded contribute no lines.
		content, err := pageContent(pdfCtx, pageNr)
		if err != nil || len(content) == 0 {
			continue
		}

		fonts, height := pageResources(pdfCtx, pageNr)
		lines = append(lines, parsePageContent(content, fonts, height, pageNr)...)
	}

	return normalizeLines(lines, documentID), nil
}

func pageContent(pdfCtx *model.Context, pageNr int) ([]byte, error) {
	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	return io.ReadAll(r)
}

// pageResources resolves the page's font resources and height. Failures
// degrade to no font information and the default height.
func pageResources(pdfCtx *model.Context, pageNr int) (map[string]fontInfo, float64) {
	height := defaultPageHeight

	pageDict, _, inherited, err := pdfCtx.PageDict(pageNr, false)
	if err != nil || pageDict == nil {
		return nil, height
	}
	if inherited != nil && inherited.MediaBox != nil && inherited.MediaBox.Height() > 0 {
		height = inherited.MediaBox.Height()
	}

	var resources types.Dict
	if o, found := pageDict.Find("Resources"); found {
		resources, _ = pdfCtx.DereferenceDict(o)
	}
	if resources == nil && inherited != nil {
		resources = inherited.Resources
	}
	if resources == nil {
		return nil, height
	}

	fontObj, found := resources.Find("Font")
	if !found {
		return nil, height
	}
	fontDict, err := pdfCtx.DereferenceDict(fontObj)
	if err != nil || fontDict == nil {
		return nil, height
	}

	fonts := make(map[string]fontInfo, len(fontDict))
	for name, ref := range fontDict {
		fd, err := pdfCtx.DereferenceDict(ref)
		if err != nil || fd == nil {
			continue
		}
		base := baseFontName(pdfCtx, fd)
		fonts[name] = fontInfo{BaseFont: base, Bold: isBoldFont(base)}
	}
	return fonts, height
}

func baseFontName(pdfCtx *model.Context, fd types.Dict) string {
	o, found := fd.Find("BaseFont")
	if !found {
		return ""
	}
	o, err := pdfCtx.Dereference(o)
	if err != nil {
		return ""
	}
	if n, ok := o.(types.Name); ok {
		return string(n)
	}
	return ""
}

var _ Source = (*PDFSource)(nil)
