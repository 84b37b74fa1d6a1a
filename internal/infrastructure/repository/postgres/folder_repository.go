package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrostack/agridocs/internal/core/domain"
)

type FolderRepository struct {
	db *sql.DB
}

func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// EnsureByName returns the folder with the given name, creating it when
// missing. Concurrent creators race on the unique name; the upsert keeps
// the first row and both callers see the same folder.
func (r *FolderRepository) EnsureByName(ctx context.Context, name string) (*domain.Folder, error) {
	folder := domain.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	row := r.db.QueryRowContext(ctx, `
INSERT INTO folders (id, name, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, name, created_at
`, folder.ID, folder.Name, folder.CreatedAt)

	var out domain.Folder
	if err := row.Scan(&out.ID, &out.Name, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("ensure folder %q: %w", name, err)
	}
	return &out, nil
}

func (r *FolderRepository) List(ctx context.Context) ([]domain.Folder, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, created_at
FROM folders
ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []domain.Folder
	for rows.Next() {
		var folder domain.Folder
		if err := rows.Scan(&folder.ID, &folder.Name, &folder.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan folder row: %w", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder rows: %w", err)
	}
	return folders, nil
}
