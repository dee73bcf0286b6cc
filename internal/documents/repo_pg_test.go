package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var documentRowColumns = []string{
	"id", "user_id", "file_name", "mime_type", "size_bytes", "storage_provider",
	"storage_key", "extracted_text_key", "extracted_at", "created_at",
}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "guest:a", "cv.pdf", "application/pdf", int64(42), "s3",
			"u/cv.pdf", created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Document{
		ID: "doc-1", UserID: "guest:a", FileName: "cv.pdf", MimeType: "application/pdf",
		SizeBytes: 42, StorageProvider: "s3", StorageKey: "u/cv.pdf", CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetCurrentScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("guest:a").
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow("doc-1", "guest:a", "cv.pdf", "application/pdf", int64(42), nil, "u/cv.pdf", nil, nil, created))

	repo := &PGRepo{DB: db}
	doc, err := repo.GetCurrentByUser(context.Background(), "guest:a")
	if err != nil {
		t.Fatalf("GetCurrentByUser: %v", err)
	}
	if doc.StorageKey != "u/cv.pdf" || doc.StorageProvider != "" || doc.ExtractedAt != nil {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("guest:a", "missing").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "guest:a", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListClampsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	extracted := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("guest:a", 20, 0).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow("doc-1", "guest:a", "cv.pdf", "application/pdf", int64(42), "local", "k", "k.extracted.txt", extracted, extracted))

	repo := &PGRepo{DB: db}
	docs, err := repo.ListByUser(context.Background(), "guest:a", 500, -1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 1 || docs[0].ExtractedAt == nil || !docs[0].ExtractedAt.Equal(extracted) {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}

func TestPGRepoUpdateExtraction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	at := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE documents").
		WithArgs("k.extracted.txt", at, "guest:a", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.UpdateExtraction(context.Background(), "guest:a", "doc-1", "k.extracted.txt", at); err != nil {
		t.Fatalf("UpdateExtraction: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
