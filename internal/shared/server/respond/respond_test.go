package respond

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/validation"
)

func TestValidationEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	telemetry.SetOutput(&logs)
	defer telemetry.SetOutput(nil)

	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		Validation(c, "invalid profile", []validation.FieldError{{Field: "personalInfo.email", Rule: "email"}})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/x", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details []struct {
				Field string `json:"field"`
				Rule  string `json:"rule"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != CodeValidation || body.Error.Message != "invalid profile" {
		t.Fatalf("unexpected error body: %+v", body.Error)
	}
	if len(body.Error.Details) != 1 || body.Error.Details[0].Field != "personalInfo.email" {
		t.Fatalf("unexpected details: %+v", body.Error.Details)
	}
	if !bytes.Contains(logs.Bytes(), []byte(`"msg":"http.error"`)) {
		t.Fatalf("expected http.error log line, got %s", logs.String())
	}
}

func TestAttachmentSetsDisposition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Attachment(c, "resume_profile_2026-01-02.json", "application/json", []byte("{}"))
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="resume_profile_2026-01-02.json"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if resp.Body.String() != "{}" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}
