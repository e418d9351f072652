package repo

import (
	"context"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]dom.Project, error)
	GetByID(ctx context.Context, userID int64, id string) (dom.Project, error)
	Create(ctx context.Context, p dom.Project) (dom.Project, error)
	Update(ctx context.Context, userID int64, id, name, color string) (dom.Project, error)
	Delete(ctx context.Context, userID int64, id string) error
}

const projectColumns = `id::text, user_id, name, color, created_at`

type PGProjectRepo struct {
	db *pgxpool.Pool
}

func NewPGProjectRepo(db *pgxpool.Pool) *PGProjectRepo {
	return &PGProjectRepo{db: db}
}

func (r *PGProjectRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Project, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGProjectRepo) GetByID(ctx context.Context, userID int64, id string) (dom.Project, error) {
	return scanProject(r.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *PGProjectRepo) Create(ctx context.Context, p dom.Project) (dom.Project, error) {
	query := `
		INSERT INTO projects (id, user_id, name, color)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + projectColumns
	return scanProject(r.db.QueryRow(ctx, query, p.ID, p.UserID, p.Name, p.Color))
}

func (r *PGProjectRepo) Update(ctx context.Context, userID int64, id, name, color string) (dom.Project, error) {
	query := `
		UPDATE projects SET name = $3, color = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + projectColumns
	return scanProject(r.db.QueryRow(ctx, query, id, userID, name, color))
}

// Delete removes the project; its tasks stay, unassigned.
func (r *PGProjectRepo) Delete(ctx context.Context, userID int64, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProject(row pgx.Row) (dom.Project, error) {
	var p dom.Project
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Color, &p.CreatedAt)
	return p, err
}
