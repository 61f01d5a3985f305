package pgx

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/docugraph/backend/pkg/common"

	"github.com/pashagolub/pgxmock/v3"
)

func newMockStorage(t *testing.T) (pgxmock.PgxPoolIface, *GraphDBStorage) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewGraphDBStorage(mock)
}

func documentColumns() []string {
	return []string{
		"id", "filename", "file_type", "file_size", "storage_key", "chunk_count",
		"status", "error_message", "user_id", "uploaded_at", "processed_at",
	}
}

func TestCreateDocument(t *testing.T) {
	mock, s := newMockStorage(t)

	uploadedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs("report.txt", "txt", int64(128), "documents/7/abc_report.txt", common.DocumentStatusProcessing, int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "uploaded_at"}).AddRow(int64(3), uploadedAt))

	doc, err := s.CreateDocument(context.Background(), common.Document{
		Filename:   "report.txt",
		FileType:   "txt",
		FileSize:   128,
		StorageKey: "documents/7/abc_report.txt",
		UserID:     7,
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	if doc.ID != 3 {
		t.Errorf("expected id 3, got %d", doc.ID)
	}
	if doc.Status != common.DocumentStatusProcessing {
		t.Errorf("expected status %q, got %q", common.DocumentStatusProcessing, doc.Status)
	}
	if !doc.UploadedAt.Equal(uploadedAt) {
		t.Errorf("expected uploaded_at %v, got %v", uploadedAt, doc.UploadedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	mock, s := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WithArgs(int64(9), int64(7)).
		WillReturnRows(pgxmock.NewRows(documentColumns()))

	doc, err := s.GetDocument(context.Background(), 9, 7)
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if doc != nil {
		t.Errorf("expected nil document, got %+v", doc)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListCompletedDocuments(t *testing.T) {
	mock, s := newMockStorage(t)

	uploadedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(documentColumns()).
		AddRow(int64(1), "a.txt", "txt", int64(10), "documents/7/a.txt", 4,
			common.DocumentStatusCompleted, "", int64(7), uploadedAt, nil).
		AddRow(int64(2), "b.txt", "txt", int64(20), "documents/7/b.txt", 8,
			common.DocumentStatusCompleted, "", int64(7), uploadedAt, nil)

	mock.ExpectQuery(regexp.QuoteMeta("status = $2")).
		WithArgs(int64(7), common.DocumentStatusCompleted).
		WillReturnRows(rows)

	docs, err := s.ListCompletedDocuments(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("ListCompletedDocuments failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != 1 || docs[1].ID != 2 {
		t.Errorf("unexpected document order: %d, %d", docs[0].ID, docs[1].ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListCompletedDocumentsFiltersByID(t *testing.T) {
	mock, s := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("id = ANY($3)")).
		WithArgs(int64(7), common.DocumentStatusCompleted, []int64{1, 2}).
		WillReturnRows(pgxmock.NewRows(documentColumns()))

	docs, err := s.ListCompletedDocuments(context.Background(), 7, []int64{1, 2})
	if err != nil {
		t.Fatalf("ListCompletedDocuments failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMarkDocumentFailed(t *testing.T) {
	mock, s := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents")).
		WithArgs(int64(3), common.DocumentStatusFailed, "embedding service unreachable", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := s.MarkDocumentFailed(context.Background(), 3, "embedding service unreachable"); err != nil {
		t.Fatalf("MarkDocumentFailed failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	mock, s := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM documents")).
		WithArgs(int64(3), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := s.DeleteDocument(context.Background(), 3, 7); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
