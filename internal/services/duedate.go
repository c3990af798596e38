package services

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/jp"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/us"
)

// DueDateService rolls payment due dates onto business days using the
// project's country calendar. Unknown countries fall back to the US calendar.
type DueDateService struct {
	calendars map[string]*cal.BusinessCalendar
}

func NewDueDateService() *DueDateService {
	s := &DueDateService{
		calendars: make(map[string]*cal.BusinessCalendar),
	}
	s.calendars["US"] = newCalendar("United States", us.Holidays...)
	s.calendars["GB"] = newCalendar("United Kingdom", gb.Holidays...)
	s.calendars["DE"] = newCalendar("Germany", de.Holidays...)
	s.calendars["FR"] = newCalendar("France", fr.Holidays...)
	s.calendars["JP"] = newCalendar("Japan", jp.Holidays...)
	s.calendars["AU"] = newCalendar("Australia", au.HolidaysNSW...)
	s.calendars["CA"] = newCalendar("Canada", ca.Holidays...)
	s.calendars["NL"] = newCalendar("Netherlands", nl.Holidays...)
	return s
}

func newCalendar(name string, holidays ...*cal.Holiday) *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = name
	c.AddHoliday(holidays...)
	return c
}

func (s *DueDateService) calendar(country string) *cal.BusinessCalendar {
	if c, ok := s.calendars[country]; ok {
		return c
	}
	return s.calendars["US"]
}

// DueDate returns period end + grace days, rolled forward to the next
// business day in the given country.
func (s *DueDateService) DueDate(periodEnd time.Time, graceDays int, country string) time.Time {
	c := s.calendar(country)

	due := DateOnly(periodEnd).AddDate(0, 0, graceDays)
	for !c.IsWorkday(due) {
		due = due.AddDate(0, 0, 1)
	}
	return due
}

// IsBusinessDay reports whether t is a workday in the given country.
func (s *DueDateService) IsBusinessDay(t time.Time, country string) bool {
	return s.calendar(country).IsWorkday(t)
}
