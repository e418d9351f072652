package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/thinkeasyacademy/Dayplanner/internal/reminder"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	atStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Width(7)
	dueStyle    = lipgloss.NewStyle().Faint(true).Width(7)
	emptyStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
)

type row struct {
	RemindAt string `json:"remind_at" yaml:"remind_at"`
	Due      string `json:"due" yaml:"due"`
	Minutes  int    `json:"reminder_minutes" yaml:"reminder_minutes"`
	TaskID   string `json:"task_id" yaml:"task_id"`
	Title    string `json:"title" yaml:"title"`
}

func toRows(instants []reminder.Instant) []row {
	rows := make([]row, 0, len(instants))
	for _, in := range instants {
		r := row{
			RemindAt: reminder.FormatMinute(in.Minute),
			Due:      in.Task.Time,
			TaskID:   in.Task.ID,
			Title:    in.Task.Title,
		}
		if in.Task.ReminderMinutes != nil {
			r.Minutes = *in.Task.ReminderMinutes
		}
		rows = append(rows, r)
	}
	return rows
}

func render(w io.Writer, format, day string, rows []row) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return renderTable(w, day, rows)
	default:
		return fmt.Errorf("unknown output format %q (table, yaml, json)", format)
	}
}

func renderTable(w io.Writer, day string, rows []row) error {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Reminders for "+day) + "\n")
	if len(rows) == 0 {
		b.WriteString(emptyStyle.Render("nothing scheduled") + "\n")
	}
	for _, r := range rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			atStyle.Render(r.RemindAt),
			dueStyle.Render(r.Due),
			r.Title,
		) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
