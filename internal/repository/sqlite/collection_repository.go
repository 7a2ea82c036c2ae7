package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/repository"
)

type collectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new CollectionRepository implementation
func NewCollectionRepository(db *sql.DB) repository.CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Insert(ctx context.Context, c models.Collection) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("collection_repo")
	log.Debug("inserting collection: owner_id=%d, title=%s", c.OwnerID, c.Title)

	res, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO collections (owner_id, title, created_at) VALUES (?, ?, ?)
`, c.OwnerID, c.Title, c.CreatedAt.UTC())
	if err != nil {
		log.Error("failed to insert collection: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

// AddMember assigns the collection to userID. Adding an existing member is a no-op.
func (r *collectionRepository) AddMember(ctx context.Context, collectionID, userID int64) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT OR IGNORE INTO collection_members (collection_id, user_id) VALUES (?, ?)
`, collectionID, userID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("collection_repo").Error("failed to add member: %v", err)
	}
	return err
}

func (r *collectionRepository) ListForUser(ctx context.Context, userID int64) ([]models.Collection, error) {
	log := logger.FromContext(ctx).WithPrefix("collection_repo")

	rows, err := conn(ctx, r.db).QueryContext(ctx, `
SELECT id, owner_id, title, created_at FROM collections
WHERE owner_id = ? OR id IN (SELECT collection_id FROM collection_members WHERE user_id = ?)
ORDER BY id
`, userID, userID)
	if err != nil {
		log.Error("failed to list collections: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Title, &c.CreatedAt); err != nil {
			log.Error("failed to scan collection row: %v", err)
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
