package handlers

import (
	"errors"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/reminder"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the planner's binding tags to gin's validator:
//
//	clock  "HH:MM" 24h time of day
//	ymd    "YYYY-MM-DD" calendar day
//
// Both accept the empty string, which clears the field on update.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	if err := v.RegisterValidation("clock", validateClock); err != nil {
		return err
	}
	return v.RegisterValidation("ymd", validateYMD)
}

func validateClock(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := reminder.ParseClock(s)
	return err == nil
}

func validateYMD(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(reminder.DateLayout, s)
	return err == nil
}
