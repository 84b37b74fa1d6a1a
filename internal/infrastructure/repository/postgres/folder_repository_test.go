package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFolderEnsureByName(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFolderRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow("folder-1", "AI_Planting", now)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO folders")).
		WithArgs(sqlmock.AnyArg(), "AI_Planting", sqlmock.AnyArg()).
		WillReturnRows(rows)

	folder, err := repo.EnsureByName(context.Background(), "AI_Planting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if folder.ID != "folder-1" || folder.Name != "AI_Planting" {
		t.Fatalf("unexpected folder: %+v", folder)
	}
}

func TestFolderEnsureByNameReturnsExistingOnConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFolderRepository(db)

	created := time.Now().UTC().Add(-24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow("folder-old", "AI_Livestock", created)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (name)")).
		WithArgs(sqlmock.AnyArg(), "AI_Livestock", sqlmock.AnyArg()).
		WillReturnRows(rows)

	folder, err := repo.EnsureByName(context.Background(), "AI_Livestock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if folder.ID != "folder-old" {
		t.Fatalf("expected existing folder row, got %+v", folder)
	}
}

func TestFolderList(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFolderRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow("folder-1", "AI_Planting", now).
		AddRow("folder-2", "AI_Unclassified", now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM folders")).
		WillReturnRows(rows)

	folders, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(folders) != 2 || folders[0].Name != "AI_Planting" {
		t.Fatalf("unexpected folders: %+v", folders)
	}
}

func TestDocumentListByFolder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "file_kind", "storage_path", "checksum",
		"folder_id", "status", "error_message", "created_at", "updated_at",
	}).AddRow("doc-1", "a.pdf", "application/pdf", "pdf", "doc-1_a.pdf", "",
		"folder-1", "analyzed", "", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE folder_id = $1")).
		WithArgs("folder-1").
		WillReturnRows(rows)

	docs, err := repo.ListByFolder(context.Background(), "folder-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].FolderID != "folder-1" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}
