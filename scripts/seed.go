// One-off: go run scripts/seed.go [username] [password]
// Creates a demo user with a project and a few tasks whose reminders fire
// within the next minutes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/app"
	"github.com/thinkeasyacademy/Dayplanner/internal/config"
	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/reminder"
	"github.com/thinkeasyacademy/Dayplanner/internal/repo"
	"github.com/thinkeasyacademy/Dayplanner/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	username, password := "admin", "admin"
	if len(os.Args) > 1 {
		username = os.Args[1]
	}
	if len(os.Args) > 2 {
		password = os.Args[2]
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	loc, err := cfg.Reminder.Location()
	if err != nil {
		panic(err)
	}
	if err := app.RunMigrations(cfg.PG.DSN); err != nil {
		panic(err)
	}
	db, err := app.NewPostgres(cfg.PG.DSN)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()
	users := service.NewUserService(repo.NewPGUserRepo(db))
	u, err := users.Register(ctx, username, password)
	if err != nil {
		panic(err)
	}

	clock := reminder.SystemClock{Location: loc}
	tasks := service.NewTaskService(repo.NewPGTaskRepo(db), nil, nil, clock)
	projects := service.NewProjectService(repo.NewPGProjectRepo(db), tasks)
	profiles := service.NewProfileService(repo.NewPGProfileRepo(db), nil)

	if _, err := profiles.Save(ctx, dom.Profile{UserID: u.ID, Name: username}); err != nil {
		panic(err)
	}
	p, err := projects.Create(ctx, u.ID, "Work", "")
	if err != nil {
		panic(err)
	}

	now := clock.Now()
	today := now.Format(reminder.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(reminder.DateLayout)
	minuteFrom := func(d time.Duration) string { return now.Add(d).Format("15:04") }

	seed := []service.TaskFields{
		{Title: "Stand-up", ProjectID: &p.ID, Date: &today, Time: minuteFrom(7 * time.Minute), ReminderMinutes: intPtr(5)},
		{Title: "Stretch", Date: &today, Time: minuteFrom(time.Minute), ReminderMinutes: intPtr(0)},
		{Title: "Plan the week", Date: &tomorrow, Time: "09:00", ReminderMinutes: intPtr(15)},
		{Title: "Read later"},
		{Title: "Ideas", Type: dom.TaskTypeNote, Details: "Notes never ring.", IsBigNote: true},
	}
	for _, f := range seed {
		if _, err := tasks.Create(ctx, u.ID, f); err != nil {
			panic(err)
		}
	}
	fmt.Printf("seeded user %s (id %d) with %d tasks\n", u.Username, u.ID, len(seed))
}

func intPtr(v int) *int { return &v }
