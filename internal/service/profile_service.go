package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/repo"
)

// ToneListener is told when a user picks another reminder tone.
type ToneListener interface {
	SetTone(userID int64, tone string)
}

type ProfileService struct {
	repo  repo.ProfileRepo
	tones ToneListener
}

func NewProfileService(r repo.ProfileRepo, tones ToneListener) *ProfileService {
	return &ProfileService{repo: r, tones: tones}
}

// Get returns the saved profile or the defaults of a fresh account.
func (s *ProfileService) Get(ctx context.Context, userID int64) (dom.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(mapReadErr(err), ErrNotFound) {
			return dom.Profile{UserID: userID, ReminderTone: dom.DefaultReminderTone}, nil
		}
		return dom.Profile{}, err
	}
	return p, nil
}

// Save replaces the profile of p.UserID.
func (s *ProfileService) Save(ctx context.Context, p dom.Profile) (dom.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.ReminderTone = strings.TrimSpace(p.ReminderTone)
	if p.ReminderTone == "" {
		p.ReminderTone = dom.DefaultReminderTone
	}
	if p.Avatar != nil && strings.TrimSpace(*p.Avatar) == "" {
		p.Avatar = nil
	}
	out, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return dom.Profile{}, err
	}
	if s.tones != nil {
		s.tones.SetTone(out.UserID, out.ReminderTone)
	}
	return out, nil
}
