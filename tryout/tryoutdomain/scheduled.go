package tryoutdomain

import (
	"errors"
	"strings"
	"time"
)

type ScheduleStatus string

const (
	ScheduleOpen       ScheduleStatus = "open"
	ScheduleClosed     ScheduleStatus = "closed"
	ScheduleRegistered ScheduleStatus = "registered"
)

type ScheduledTryout struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         time.Time      `json:"date"`
	Time         string         `json:"time"`
	Participants int            `json:"participants"`
	Prize        string         `json:"prize"`
	Status       ScheduleStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (s *ScheduledTryout) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("scheduled tryout title must not be empty")
	}
	if s.Date.IsZero() {
		return errors.New("scheduled tryout date must be set")
	}
	if s.Status != ScheduleOpen && s.Status != ScheduleClosed {
		return errors.New("scheduled tryout status must be open or closed")
	}
	return nil
}

type Registration struct {
	ScheduledTryoutID string    `json:"scheduledTryoutId"`
	UserID            string    `json:"userId"`
	RegisteredAt      time.Time `json:"registeredAt"`
}
