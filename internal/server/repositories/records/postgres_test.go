package records

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eranshir/scenic/internal/common"
	"github.com/eranshir/scenic/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSpotRepository(db), mock, db
}

func TestUpsert_InsertReturnsRemoteID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO spots .* ON CONFLICT \(id\) DO UPDATE SET .* RETURNING remote_id;`).
		WithArgs("s1", "r-s1", at, []byte(`{"id":"s1"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"remote_id"}).AddRow("r-s1"))

	remoteID, err := repo.Upsert(context.Background(), &models.Record{
		ID:        "s1",
		RemoteID:  "r-s1",
		UpdatedAt: at,
		Doc:       []byte(`{"id":"s1"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remoteID != "r-s1" {
		t.Fatalf("want r-s1, got %q", remoteID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsert_ConflictKeepsExistingRemoteID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO spots .* RETURNING remote_id;`).
		WithArgs("s1", "r-new", at, []byte(`{}`)).
		WillReturnRows(sqlmock.NewRows([]string{"remote_id"}).AddRow("r-original"))

	remoteID, err := repo.Upsert(context.Background(), &models.Record{
		ID: "s1", RemoteID: "r-new", UpdatedAt: at, Doc: []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remoteID != "r-original" {
		t.Fatalf("existing remote id must win, got %q", remoteID)
	}
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO spots`).
		WillReturnError(errors.New("connection lost"))

	_, err := repo.Upsert(context.Background(), &models.Record{ID: "s1"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, remote_id, updated_at, doc FROM spots WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, remote_id, updated_at, doc FROM spots WHERE id = \$1`).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "remote_id", "updated_at", "doc"}).
			AddRow("s1", "r-s1", at, []byte(`{"id":"s1"}`)))

	rec, err := repo.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.RemoteID != "r-s1" || !rec.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSelectUpdatedSince_NilCursorReturnsEverything(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, remote_id, updated_at, doc FROM spots WHERE updated_at > \$1 ORDER BY updated_at`).
		WithArgs(time.Time{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "remote_id", "updated_at", "doc"}).
			AddRow("s1", "r-s1", at, []byte(`{}`)).
			AddRow("s2", "r-s2", at.Add(time.Minute), []byte(`{}`)))

	recs, err := repo.SelectUpdatedSince(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("want 2 records, got %d", len(recs))
	}
}

func TestSelectUpdatedSince_PassesCursor(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cursor := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, remote_id, updated_at, doc FROM spots WHERE updated_at > \$1`).
		WithArgs(cursor).
		WillReturnRows(sqlmock.NewRows([]string{"id", "remote_id", "updated_at", "doc"}))

	recs, err := repo.SelectUpdatedSince(context.Background(), &cursor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("want 0 records, got %d", len(recs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTableBinding_PerKind(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, remote_id, updated_at, doc FROM comments`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT id, remote_id, updated_at, doc FROM plans`).
		WillReturnError(sql.ErrNoRows)

	if _, err := NewCommentRepository(db).Get(context.Background(), "x"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("comments: want ErrNotFound, got %v", err)
	}
	if _, err := NewPlanRepository(db).Get(context.Background(), "x"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("plans: want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
