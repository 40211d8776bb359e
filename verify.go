package posture

import (
	"strings"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// VerifyResult describes a generated document as pdfium parses it back.
type VerifyResult struct {
	PageCount int
	PageText  []string
}

// Contains reports whether any page's extracted text contains s.
func (r *VerifyResult) Contains(s string) bool {
	for _, text := range r.PageText {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// Verifier re-opens generated PDFs through a pdfium instance, confirming the
// output parses and exposing the extracted text for inspection.
type Verifier struct {
	instance pdfium.Pdfium
}

// NewVerifier creates a verifier backed by the given pdfium instance.
func NewVerifier(instance pdfium.Pdfium) *Verifier {
	return &Verifier{instance: instance}
}

// VerifyBytes opens the PDF bytes and extracts text from every page.
func (v *Verifier) VerifyBytes(pdfBytes []byte) (*VerifyResult, error) {
	doc, err := v.instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer v.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := v.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}

	result := &VerifyResult{PageCount: pageCount.PageCount}
	for i := 0; i < pageCount.PageCount; i++ {
		text, err := v.extractPageText(doc.Document, i)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to extract text from page %d", i+1)
		}
		result.PageText = append(result.PageText, text)
	}
	return result, nil
}

// VerifyFile opens a PDF from disk and extracts text from every page.
func (v *Verifier) VerifyFile(path string) (*VerifyResult, error) {
	doc, err := v.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &path,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer v.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := v.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}

	result := &VerifyResult{PageCount: pageCount.PageCount}
	for i := 0; i < pageCount.PageCount; i++ {
		text, err := v.extractPageText(doc.Document, i)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to extract text from page %d", i+1)
		}
		result.PageText = append(result.PageText, text)
	}
	return result, nil
}

func (v *Verifier) extractPageText(doc references.FPDF_DOCUMENT, index int) (string, error) {
	pageResp, err := v.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: doc,
		Index:    index,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load page")
	}
	defer v.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	textPage, err := v.instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &pageResp.Page,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load text page")
	}
	defer v.instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := v.instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to count characters")
	}

	var sb strings.Builder
	for i := 0; i < charCount.Count; i++ {
		unicodeRes, err := v.instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage.TextPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}
		sb.WriteRune(rune(unicodeRes.Unicode))
	}
	return sb.String(), nil
}
