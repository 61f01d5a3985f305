package pgx

import (
	"context"
	"regexp"
	"testing"

	"github.com/docugraph/backend/pkg/common"

	"github.com/pashagolub/pgxmock/v3"
)

func TestCreateRelationship(t *testing.T) {
	mock, s := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("EXISTS(SELECT 1 FROM entities WHERE id = $1)")).
		WithArgs("e1", "e2").
		WillReturnRows(pgxmock.NewRows([]string{"exists", "exists"}).AddRow(true, true))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO relationships")).
		WithArgs("r1", "works_at", "Employment", "e1", "e2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.CreateRelationship(context.Background(), common.Relationship{
		ID:          "r1",
		Type:        "works_at",
		Description: "Employment",
		SourceID:    "e1",
		TargetID:    "e2",
	})
	if err != nil {
		t.Fatalf("CreateRelationship failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateRelationshipDropsMissingEndpoint(t *testing.T) {
	mock, s := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("EXISTS(SELECT 1 FROM entities WHERE id = $1)")).
		WithArgs("e1", "missing").
		WillReturnRows(pgxmock.NewRows([]string{"exists", "exists"}).AddRow(true, false))

	err := s.CreateRelationship(context.Background(), common.Relationship{
		ID:       "r1",
		Type:     "works_at",
		SourceID: "e1",
		TargetID: "missing",
	})
	if err != nil {
		t.Fatalf("CreateRelationship failed: %v", err)
	}

	// No insert expectation was registered, so one would fail the test.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
