package calendar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/spreadsheet"
	"github.com/xuri/excelize/v2"
)

type DayType string

const (
	DayTypeHoliday      DayType = "holiday"
	DayTypeCompanyLeave DayType = "company_leave"
)

// Day is a non-working date declared in the calendar workbook.
type Day struct {
	Date time.Time
	Name string
	Type DayType
}

// Calendar answers the working-day question from weekly offs plus declared
// holidays and company leave days.
type Calendar struct {
	mu        sync.RWMutex
	weeklyOff map[time.Weekday]bool
	days      map[string]Day
}

func New(weeklyOff []time.Weekday, days ...Day) *Calendar {
	c := &Calendar{
		weeklyOff: make(map[time.Weekday]bool, len(weeklyOff)),
		days:      make(map[string]Day, len(days)),
	}
	for _, wd := range weeklyOff {
		c.weeklyOff[wd] = true
	}
	c.Replace(days)
	return c
}

// NewFromFile builds a calendar from an XLSX workbook. An empty path yields
// a calendar with weekly offs only.
func NewFromFile(path string, weeklyOff []time.Weekday) (*Calendar, error) {
	c := New(weeklyOff)
	if path == "" {
		return c, nil
	}
	if err := c.ReloadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Calendar) ReloadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open calendar file: %w", err)
	}
	defer file.Close()

	days, err := LoadXLSX(file)
	if err != nil {
		return fmt.Errorf("load calendar %s: %w", path, err)
	}

	c.Replace(days)

	slog.Info("calendar loaded", "path", path, "days", len(days))
	return nil
}

// Replace swaps the declared days in one step, so readers see either the
// old set or the new one.
func (c *Calendar) Replace(days []Day) {
	next := make(map[string]Day, len(days))
	for _, d := range days {
		next[d.Date.Format("2006-01-02")] = d
	}

	c.mu.Lock()
	c.days = next
	c.mu.Unlock()
}

func (c *Calendar) IsWorkingDay(_ context.Context, date time.Time) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.weeklyOff[date.Weekday()] {
		return false, nil
	}
	if _, declared := c.days[date.Format("2006-01-02")]; declared {
		return false, nil
	}
	return true, nil
}

// Lookup returns the declared day for date, if any.
func (c *Calendar) Lookup(date time.Time) (Day, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.days[date.Format("2006-01-02")]
	return d, ok
}

// LoadXLSX reads every worksheet of the workbook. Each sheet starts with a
// header row containing "date" and optionally "name" and "type"; blank rows
// are skipped and an unparseable date fails the load.
func LoadXLSX(r io.Reader) ([]Day, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var days []Day
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		idx := spreadsheet.HeaderIndex(rows[0])
		dateCol, ok := idx["date"]
		if !ok {
			return nil, fmt.Errorf("sheet %s: missing date column", sheet)
		}
		nameCol, hasName := idx["name"]
		typeCol, hasType := idx["type"]

		for i, row := range rows[1:] {
			if spreadsheet.IsBlank(row) {
				continue
			}
			date, err := spreadsheet.ParseDate(spreadsheet.Cell(row, dateCol))
			if err != nil {
				return nil, fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
			}

			day := Day{Date: date, Type: DayTypeHoliday}
			if hasName {
				day.Name = spreadsheet.Cell(row, nameCol)
			}
			if hasType && strings.EqualFold(spreadsheet.Cell(row, typeCol), string(DayTypeCompanyLeave)) {
				day.Type = DayTypeCompanyLeave
			}
			days = append(days, day)
		}
	}
	return days, nil
}
