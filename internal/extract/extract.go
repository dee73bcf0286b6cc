package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"resume-builder/internal/shared/storage/object"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"

	// MaxFileSize is the largest upload accepted for extraction.
	MaxFileSize = 10 << 20

	pageSeparator = "\n\n"
)

// ErrUnsupported is returned for file types other than PDF, DOCX and plain text.
var ErrUnsupported = errors.New("unsupported file type")

// Result is the text of a document split by page. DOCX and text files are one page.
type Result struct {
	Text      string   `json:"text"`
	Pages     []string `json:"pages"`
	PageCount int      `json:"pageCount"`
}

// ExtractText pulls text from a stored object and persists a derived .extracted.txt copy.
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: read: %w", fileKey, mimeType, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	extractedKey := fileKey + ".extracted.txt"
	if _, err := store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	return text, nil
}

// ExtractTextFromBytes extracts text from an in-memory payload.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	res, err := Extract(ctx, data, mimeType, fileName)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Extract detects the document type and returns its text page by page.
func Extract(ctx context.Context, data []byte, mimeType string, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	normalized := normalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case mimePDF:
		pages, err := PDFPages(data)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: JoinPages(pages), Pages: pages, PageCount: len(pages)}, nil
	case mimeDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return Result{}, err
		}
		return single(text), nil
	case mimeText:
		if !utf8.Valid(data) {
			return Result{}, fmt.Errorf("%w: text file is not valid UTF-8", ErrUnsupported)
		}
		return single(string(data)), nil
	default:
		return Result{}, fmt.Errorf("%w: unsupported mime type: %s", ErrUnsupported, normalized)
	}
}

func single(text string) Result {
	return Result{Text: text, Pages: []string{text}, PageCount: 1}
}

// PDFPages returns the text of every page, its text runs joined by single spaces.
func PDFPages(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, errors.New("empty pdf data")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		runs, err := pageRuns(p)
		if err != nil {
			return nil, fmt.Errorf("pdf page %d: %w", i, err)
		}
		pages = append(pages, strings.Join(strings.Fields(strings.Join(runs, " ")), " "))
	}
	return pages, nil
}

// tjSpaceThreshold is the TJ adjustment (thousandths of an em, negative moves
// right) past which a gap inside one array is read as a word break.
const tjSpaceThreshold = -200

// pageRuns returns the decoded string of every text-showing operator on the
// page in content-stream order. Each Tj, ', " and TJ is one run.
func pageRuns(p pdf.Page) (runs []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			runs, err = nil, fmt.Errorf("interpret content: %v", r)
		}
	}()
	contents := p.V.Key("Contents")
	if contents.Kind() == pdf.Null {
		return nil, nil
	}

	encoders := make(map[string]pdf.TextEncoding)
	for _, name := range p.Fonts() {
		encoders[name] = p.Font(name).Encoder()
	}
	var enc pdf.TextEncoding
	decode := func(raw string) string {
		if enc == nil {
			return raw
		}
		return enc.Decode(raw)
	}

	pdf.Interpret(contents, func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		switch op {
		case "Tf":
			if n == 2 {
				enc = encoders[args[0].Name()]
			}
		case "Tj", "'", "\"":
			if n > 0 {
				runs = append(runs, decode(args[n-1].RawString()))
			}
		case "TJ":
			if n != 1 {
				return
			}
			var b strings.Builder
			arr := args[0]
			for i := 0; i < arr.Len(); i++ {
				v := arr.Index(i)
				switch v.Kind() {
				case pdf.String:
					b.WriteString(decode(v.RawString()))
				case pdf.Integer, pdf.Real:
					if v.Float64() < tjSpaceThreshold {
						b.WriteByte(' ')
					}
				}
			}
			runs = append(runs, b.String())
		}
	})
	return runs, nil
}

// PDFText extracts a PDF and joins its pages with JoinPages.
func PDFText(data []byte) (string, error) {
	pages, err := PDFPages(data)
	if err != nil {
		return "", err
	}
	return JoinPages(pages), nil
}

// JoinPages follows every page with a blank line.
func JoinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteString(pageSeparator)
	}
	return b.String()
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == "" || clean == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".pdf":
			return mimePDF
		case ".docx":
			return mimeDOCX
		case ".txt", ".md":
			return mimeText
		}
		if bytes.HasPrefix(data, []byte("%PDF-")) {
			return mimePDF
		}
	}
	if clean == "text/markdown" {
		return mimeText
	}
	if clean != "application/zip" {
		return clean
	}

	if mapped := mapOOXMLFromZip(data); mapped != "" {
		return mapped
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".docx":
		return mimeDOCX
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	default:
		return clean
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		switch name {
		case "word/document.xml":
			return mimeDOCX
		case "xl/workbook.xml":
			return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "ppt/presentation.xml":
			return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
		}
	}
	return ""
}
