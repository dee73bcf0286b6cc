package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/storage/object/local"
)

// buildPDF writes a minimal PDF with one Helvetica text object per line on each page.
func buildPDF(t *testing.T, pages ...[]string) []byte {
	t.Helper()
	streams := make([]string, len(pages))
	for i, lines := range pages {
		var content strings.Builder
		y := 720
		for _, line := range lines {
			fmt.Fprintf(&content, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", y, line)
			y -= 16
		}
		streams[i] = content.String()
	}
	return buildPDFStreams(t, streams...)
}

// buildPDFStreams writes a minimal PDF whose pages use the given raw content streams.
func buildPDFStreams(t *testing.T, streams ...string) []byte {
	t.Helper()

	n := len(streams)
	fontID := 3 + 2*n
	objects := make([]string, fontID)
	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"

	kids := make([]string, n)
	for i, content := range streams {
		pageID := 3 + 2*i
		contentID := pageID + 1
		kids[i] = fmt.Sprintf("%d 0 R", pageID)
		objects[pageID-1] = fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontID, contentID)
		objects[contentID-1] = fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n)
	objects[fontID-1] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestPDFPagesJoinsRunsWithSpaces(t *testing.T) {
	data := buildPDF(t,
		[]string{"Jane Doe", "Senior   Go Engineer"},
		[]string{"Experience"},
	)

	pages, err := PDFPages(data)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Jane Doe Senior Go Engineer", pages[0])
	assert.Equal(t, "Experience", pages[1])

	text, err := PDFText(data)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Senior Go Engineer\n\nExperience\n\n", text)
}

func TestPDFPagesSeparatesRunsInsideOneTextObject(t *testing.T) {
	data := buildPDFStreams(t,
		"BT /F1 12 Tf 72 720 Td (Software Engineer) Tj 0 -14 Td (San Francisco) Tj ET\n",
		"BT /F1 12 Tf 72 720 Td [(Jane)-300(Doe)] TJ 0 -14 Td [(Ka)12(fka)] TJ T* (Go) ' ET\n",
	)

	pages, err := PDFPages(data)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Software Engineer San Francisco", pages[0])
	assert.Equal(t, "Jane Doe Kafka Go", pages[1])
}

func TestPDFPagesRejectsGarbage(t *testing.T) {
	_, err := PDFPages([]byte("definitely not a pdf, just some bytes that are long enough to be read from the end of the file"))
	assert.Error(t, err)

	_, err = PDFPages(nil)
	assert.Error(t, err)
}

func TestExtractDetectsByExtension(t *testing.T) {
	data := buildPDF(t, []string{"Hello"})

	res, err := Extract(context.Background(), data, "application/octet-stream", "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, res.PageCount)
	assert.Equal(t, "Hello\n\n", res.Text)
}

func TestExtractDOCXFromZipMime(t *testing.T) {
	data := buildDOCX(t, "Jane Doe", "Go Engineer")

	text, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "cv.docx")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo Engineer", text)
}

func TestExtractPlainZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.Contains(t, err.Error(), "unsupported mime type: application/zip")
}

func TestExtractPlainText(t *testing.T) {
	res, err := Extract(context.Background(), []byte("line one\nline two"), "text/plain; charset=utf-8", "cv.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"line one\nline two"}, res.Pages)

	_, err = Extract(context.Background(), []byte{0xff, 0xfe, 0xfd}, "text/plain", "bad.txt")
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestExtractTextSavesDerivedCopy(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	key, _, _, err := store.Save(ctx, "guest:abc", "cv.docx", bytes.NewReader(buildDOCX(t, "Jane Doe")))
	require.NoError(t, err)

	text, err := ExtractText(ctx, store, key, mimeDOCX, "cv.docx")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", text)

	rc, err := store.Open(ctx, key+".extracted.txt")
	require.NoError(t, err)
	defer rc.Close()
	saved, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", string(saved))
}

func TestHandlerExtract(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler().RegisterRoutes(r.Group("/api/v1"))

	upload := func(name, contentType string, data []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, name)}
		h["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := upload("cv.pdf", "application/pdf", buildPDF(t, []string{"Jane Doe"}, []string{"Skills"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"text":"Jane Doe\n\nSkills\n\n","pages":["Jane Doe","Skills"],"pageCount":2}`, w.Body.String())

	w = upload("photo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
