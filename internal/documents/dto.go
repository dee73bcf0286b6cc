package documents

import "time"

// DocumentResponse is the JSON shape of an uploaded resume.
type DocumentResponse struct {
	DocumentID  string     `json:"documentId"`
	FileName    string     `json:"fileName"`
	MimeType    string     `json:"mimeType"`
	SizeBytes   int64      `json:"sizeBytes"`
	UploadedAt  time.Time  `json:"uploadedAt"`
	Extracted   bool       `json:"extracted"`
	ExtractedAt *time.Time `json:"extractedAt,omitempty"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:  doc.ID,
		FileName:    doc.FileName,
		MimeType:    doc.MimeType,
		SizeBytes:   doc.SizeBytes,
		UploadedAt:  doc.CreatedAt,
		Extracted:   doc.ExtractedTextKey != "",
		ExtractedAt: doc.ExtractedAt,
	}
}
