package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
)

// DirectoryRepository searches the public resident and household directory.
type DirectoryRepository interface {
	Search(ctx context.Context, query string, limit int) ([]domain.LookupCandidate, error)
}

type directoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository builds the repository.
func NewDirectoryRepository(pool *pgxpool.Pool) DirectoryRepository {
	return &directoryRepository{pool: pool}
}

func (r *directoryRepository) Search(ctx context.Context, query string, limit int) ([]domain.LookupCandidate, error) {
	const sql = `
        SELECT subject_type, subject_id, label FROM (
            SELECT 'RESIDENT' AS subject_type, id AS subject_id, full_name AS label
            FROM residents WHERE is_listed = TRUE AND full_name ILIKE $1
            UNION ALL
            SELECT 'HOUSEHOLD', id, display_name
            FROM households WHERE is_listed = TRUE AND display_name ILIKE $1
        ) AS hits
        ORDER BY label
        LIMIT $2`
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, sql, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LookupCandidate
	for rows.Next() {
		var hit domain.LookupCandidate
		if err := rows.Scan(&hit.SubjectType, &hit.SubjectID, &hit.Label); err != nil {
			return nil, err
		}
		result = append(result, hit)
	}
	return result, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
