package repo

import (
	"context"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepo provides task persistence. Every query is scoped to one user;
// a task of another user is reported as pgx.ErrNoRows.
type TaskRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]dom.Task, error)
	GetByID(ctx context.Context, userID int64, id string) (dom.Task, error)
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	Update(ctx context.Context, userID int64, id string, patch dom.Task) (dom.Task, error)
	Delete(ctx context.Context, userID int64, id string) error
	SetCompleted(ctx context.Context, userID int64, id string, done bool) (dom.Task, error)
	Search(ctx context.Context, userID int64, q string) ([]dom.Task, error)
}

const taskColumns = `id::text, user_id, project_id::text, type, title, description, details, is_big_note,
	date, time, reminder_minutes, completed, created_at, updated_at`

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE user_id = $1
		ORDER BY date NULLS LAST, time, created_at`
	return r.list(ctx, query, userID)
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID int64, id string) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return scanTask(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (id, user_id, project_id, type, title, description, details, is_big_note,
			date, time, reminder_minutes, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		t.ID, t.UserID, t.ProjectID, string(t.Type), t.Title, t.Description, t.Details, t.IsBigNote,
		t.Date, t.Time, t.ReminderMinutes, t.Completed,
	))
}

func (r *PGTaskRepo) Update(ctx context.Context, userID int64, id string, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET project_id = $3, type = $4, title = $5, description = $6, details = $7,
			is_big_note = $8, date = $9, time = $10, reminder_minutes = $11, completed = $12,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, userID,
		patch.ProjectID, string(patch.Type), patch.Title, patch.Description, patch.Details, patch.IsBigNote,
		patch.Date, patch.Time, patch.ReminderMinutes, patch.Completed,
	))
}

func (r *PGTaskRepo) Delete(ctx context.Context, userID int64, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGTaskRepo) SetCompleted(ctx context.Context, userID int64, id string, done bool) (dom.Task, error) {
	query := `
		UPDATE tasks SET completed = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, userID, done))
}

func (r *PGTaskRepo) Search(ctx context.Context, userID int64, q string) ([]dom.Task, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE user_id = $1 AND (title ILIKE $2 OR description ILIKE $2 OR details ILIKE $2)
		ORDER BY date NULLS LAST, time, created_at`
	return r.list(ctx, query, userID, pattern)
}

func (r *PGTaskRepo) list(ctx context.Context, query string, args ...any) ([]dom.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var (
		t        dom.Task
		taskType string
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.ProjectID, &taskType, &t.Title, &t.Description, &t.Details, &t.IsBigNote,
		&t.Date, &t.Time, &t.ReminderMinutes, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	t.Type = dom.TaskType(taskType)
	return t, err
}
