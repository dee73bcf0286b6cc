package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPrefix(t *testing.T) {
	cases := map[string][3]string{
		"no prefix":       {"", "abc/cv.pdf", "abc/cv.pdf"},
		"simple prefix":   {"exports", "abc/cv.pdf", "exports/abc/cv.pdf"},
		"leading slashes": {"/exports/", "/abc/cv.pdf", "exports/abc/cv.pdf"},
		"nested prefix":   {"prod/resumes", "abc/cv.pdf", "prod/resumes/abc/cv.pdf"},
		"empty key":       {"exports", "", "exports"},
	}
	for name, c := range cases {
		assert.Equal(t, c[2], applyPrefix(c[0], c[1]), name)
	}
}

// fakeS3 records requests made against a path-style endpoint.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	calls   []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	switch r.Method {
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, body)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, fake *fakeS3) *Store {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	})
	return newWithClient(client, Options{Bucket: "resumes", Prefix: "/prod/"})
}

func TestOpenReadsPrefixedKey(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"/resumes/prod/abc/cv.pdf.extracted.txt": "Jane Doe"}}
	store := newTestStore(t, fake)

	rc, err := store.Open(context.Background(), "abc/cv.pdf.extracted.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", string(data))

	_, err = store.Open(context.Background(), "abc/missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key=prod/abc/missing.pdf")
}

func TestDeleteRemovesObject(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"/resumes/prod/abc/cv.pdf": "x"}}
	store := newTestStore(t, fake)

	require.NoError(t, store.Delete(context.Background(), "abc/cv.pdf"))
	assert.Empty(t, fake.objects)
	require.NotEmpty(t, fake.calls)
	assert.True(t, strings.HasPrefix(fake.calls[len(fake.calls)-1], "DELETE /resumes/prod/abc/cv.pdf"))
}

func TestSaveRejectsTraversal(t *testing.T) {
	store := newTestStore(t, &fakeS3{objects: map[string]string{}})
	_, _, _, err := store.Save(context.Background(), "guest:1", "../../etc/passwd", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Options{Region: "us-east-1"})
	assert.Error(t, err)
}
