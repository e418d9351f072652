package repo

import (
	"context"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepo interface {
	// Get returns pgx.ErrNoRows when the user never saved a profile.
	Get(ctx context.Context, userID int64) (dom.Profile, error)
	Upsert(ctx context.Context, p dom.Profile) (dom.Profile, error)
}

type PGProfileRepo struct {
	db *pgxpool.Pool
}

func NewPGProfileRepo(db *pgxpool.Pool) *PGProfileRepo {
	return &PGProfileRepo{db: db}
}

func (r *PGProfileRepo) Get(ctx context.Context, userID int64) (dom.Profile, error) {
	var p dom.Profile
	err := r.db.QueryRow(ctx, `
		SELECT user_id, name, email, avatar, reminder_tone, dark_mode, updated_at
		FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.Name, &p.Email, &p.Avatar, &p.ReminderTone, &p.DarkMode, &p.UpdatedAt)
	return p, err
}

func (r *PGProfileRepo) Upsert(ctx context.Context, p dom.Profile) (dom.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, name, email, avatar, reminder_tone, dark_mode)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, avatar = EXCLUDED.avatar,
			reminder_tone = EXCLUDED.reminder_tone, dark_mode = EXCLUDED.dark_mode,
			updated_at = NOW()
		RETURNING user_id, name, email, avatar, reminder_tone, dark_mode, updated_at`
	var out dom.Profile
	err := r.db.QueryRow(ctx, query, p.UserID, p.Name, p.Email, p.Avatar, p.ReminderTone, p.DarkMode).Scan(
		&out.UserID, &out.Name, &out.Email, &out.Avatar, &out.ReminderTone, &out.DarkMode, &out.UpdatedAt,
	)
	return out, err
}
