package schedule

import (
	"time"

	"taskfollow/internal/domain"
	"taskfollow/internal/errors"
)

// maxDisplayRunes is the widest task name a calendar cell shows before
// truncation.
const maxDisplayRunes = 8

// TaskStyle selects the display treatment of a task inside a calendar cell
type TaskStyle int

const (
	StylePending TaskStyle = iota
	StyleCompleted
	StyleOverdue
)

// String returns the string representation of the task style
func (s TaskStyle) String() string {
	switch s {
	case StylePending:
		return "pending"
	case StyleCompleted:
		return "completed"
	case StyleOverdue:
		return "overdue"
	default:
		return "unknown"
	}
}

// CalendarTask is a task annotated for compact display in a day cell.
// DisplayName is truncated; Name keeps the full text for tooltips.
type CalendarTask struct {
	ID          int64
	Name        string
	DisplayName string
	Style       TaskStyle
}

// Day is a single cell of the month grid
type Day struct {
	Date    time.Time
	Number  int
	InMonth bool
	Tasks   []CalendarTask
}

// Week is one Monday-to-Sunday row of the grid
type Week [7]Day

// MonthRef identifies a month for navigation links
type MonthRef struct {
	Year  int
	Month time.Month
}

// MonthGrid is a whole-week month view. Weeks always hold exactly seven
// days; leading and trailing days belong to adjacent months and never
// carry tasks.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks []Week
	Prev  MonthRef
	Next  MonthRef
}

// PrevMonth returns the month before the given one, rolling the year back
// at the January boundary.
func PrevMonth(year int, month time.Month) MonthRef {
	prev := int(month) - 1
	if prev == 0 {
		return MonthRef{Year: year - 1, Month: time.December}
	}
	return MonthRef{Year: year, Month: time.Month(prev)}
}

// NextMonth returns the month after the given one, rolling the year
// forward at the December boundary.
func NextMonth(year int, month time.Month) MonthRef {
	next := int(month) + 1
	if next == 13 {
		return MonthRef{Year: year + 1, Month: time.January}
	}
	return MonthRef{Year: year, Month: time.Month(next)}
}

// RenderMonth builds the month grid for the given year and month,
// bucketing each task onto the calendar date its deadline falls on in loc.
// Tasks are bucketed only when that date lies inside the target month:
// overflow cells from adjacent months stay empty even when a deadline maps
// onto them.
func RenderMonth(tasks []*domain.Task, year int, month time.Month, now time.Time, loc *time.Location) (*MonthGrid, error) {
	if month < time.January || month > time.December {
		return nil, errors.NewValidationError("invalid month", nil)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Weeks start Monday; shift Go's Sunday-based weekday.
	offset := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -offset)
	weekCount := (offset + daysInMonth + 6) / 7

	buckets := bucketTasks(tasks, year, month, now, loc)

	grid := &MonthGrid{
		Year:  year,
		Month: month,
		Weeks: make([]Week, weekCount),
		Prev:  PrevMonth(year, month),
		Next:  NextMonth(year, month),
	}

	cur := start
	for w := 0; w < weekCount; w++ {
		for d := 0; d < 7; d++ {
			day := Day{
				Date:    cur,
				Number:  cur.Day(),
				InMonth: cur.Month() == month && cur.Year() == year,
			}
			if day.InMonth {
				day.Tasks = buckets[cur.Day()]
			}
			grid.Weeks[w][d] = day
			cur = cur.AddDate(0, 0, 1)
		}
	}

	return grid, nil
}

// bucketTasks groups tasks by day-of-month for deadlines falling inside
// the target month.
func bucketTasks(tasks []*domain.Task, year int, month time.Month, now time.Time, loc *time.Location) map[int][]CalendarTask {
	buckets := make(map[int][]CalendarTask)
	for _, task := range tasks {
		deadline := task.Deadline.In(loc)
		if deadline.Year() != year || deadline.Month() != month {
			continue
		}
		buckets[deadline.Day()] = append(buckets[deadline.Day()], CalendarTask{
			ID:          task.ID,
			Name:        task.Name,
			DisplayName: truncateName(task.Name),
			Style:       styleFor(task, now),
		})
	}
	return buckets
}

// styleFor picks the display style. Overdue here is a plain boolean check,
// independent of the urgency classifier.
func styleFor(task *domain.Task, now time.Time) TaskStyle {
	if task.IsCompleted {
		return StyleCompleted
	}
	if task.Deadline.Before(now) {
		return StyleOverdue
	}
	return StylePending
}

// truncateName shortens names that do not fit a compact cell. Counting is
// by rune, not byte, so multibyte names truncate cleanly.
func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxDisplayRunes {
		return name
	}
	return string(runes[:maxDisplayRunes]) + ".."
}
