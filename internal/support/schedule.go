package support

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"signage-portal/internal/models"

	"github.com/google/uuid"
)

// Booking errors
var (
	ErrDateUnavailable = errors.New("date is not available for callbacks")
	ErrSlotUnavailable = errors.New("time slot is not available")
	ErrMissingContact  = errors.New("name and email are required")
)

// DateLayout is the wire format of callback dates
const DateLayout = "2006-01-02"

// MonthLayout is the wire format of calendar months
const MonthLayout = "2006-01"

var timeSlots = []string{
	"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"12:00 PM", "12:30 PM", "1:00 PM", "1:30 PM", "2:00 PM", "2:30 PM",
	"3:00 PM", "3:30 PM", "4:00 PM", "4:30 PM", "5:00 PM",
}

// TimeSlots returns the bookable times of day
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

func validSlot(slot string) bool {
	for _, s := range timeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Day is one cell of the callback calendar
type Day struct {
	Date     string `json:"date"`
	Day      int    `json:"day"`
	Weekday  string `json:"weekday"`
	Disabled bool   `json:"disabled"`
}

// Month is the callback calendar for one month. LeadingBlanks is the number
// of empty cells before day 1 in a Sunday-first grid.
type Month struct {
	Month         string `json:"month"`
	Title         string `json:"title"`
	LeadingBlanks int    `json:"leading_blanks"`
	Days          []Day  `json:"days"`
}

// ParseMonth parses "YYYY-MM" in loc
func ParseMonth(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", raw, err)
	}
	return t, nil
}

// Calendar lays out the month containing month. Days before today (in now's
// location) and weekends are disabled.
func Calendar(month, now time.Time) Month {
	loc := now.Location()
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	daysIn := first.AddDate(0, 1, -1).Day()

	m := Month{
		Month:         first.Format(MonthLayout),
		Title:         first.Format("January 2006"),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]Day, 0, daysIn),
	}

	for d := 1; d <= daysIn; d++ {
		date := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, loc)
		m.Days = append(m.Days, Day{
			Date:     date.Format(DateLayout),
			Day:      d,
			Weekday:  date.Weekday().String(),
			Disabled: DateDisabled(date, now),
		})
	}

	return m
}

// DateDisabled reports whether date cannot take callbacks: it is before
// today or falls on a weekend.
func DateDisabled(date, now time.Time) bool {
	today := startOfDay(now)
	day := startOfDay(date.In(now.Location()))
	if day.Before(today) {
		return true
	}
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BookingRequest is the callback form
type BookingRequest struct {
	Date        string `json:"date" binding:"required"`
	TimeSlot    string `json:"time_slot" binding:"required"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

// Scheduler books support callbacks; one booking per date and slot.
// It is safe for concurrent use.
type Scheduler struct {
	mu       sync.Mutex
	bookings []models.CallbackRequest
	taken    map[string]bool
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{taken: make(map[string]bool)}
}

// Book validates req against now and records the callback
func (s *Scheduler) Book(req BookingRequest, now time.Time) (models.CallbackRequest, error) {
	date, err := time.ParseInLocation(DateLayout, req.Date, now.Location())
	if err != nil {
		return models.CallbackRequest{}, fmt.Errorf("%w: %v", ErrDateUnavailable, err)
	}
	if DateDisabled(date, now) {
		return models.CallbackRequest{}, ErrDateUnavailable
	}
	if !validSlot(req.TimeSlot) {
		return models.CallbackRequest{}, fmt.Errorf("%w: %q", ErrSlotUnavailable, req.TimeSlot)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return models.CallbackRequest{}, ErrMissingContact
	}

	key := req.Date + " " + req.TimeSlot

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken[key] {
		return models.CallbackRequest{}, fmt.Errorf("%w: %s already booked", ErrSlotUnavailable, key)
	}

	cb := models.CallbackRequest{
		ID:          uuid.New().String(),
		Date:        date,
		TimeSlot:    req.TimeSlot,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Description: req.Description,
		CreatedAt:   now,
	}
	s.taken[key] = true
	s.bookings = append(s.bookings, cb)

	return cb, nil
}

// Bookings returns every booked callback in booking order
func (s *Scheduler) Bookings() []models.CallbackRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CallbackRequest, len(s.bookings))
	copy(out, s.bookings)
	return out
}
