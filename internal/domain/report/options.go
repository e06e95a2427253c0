package report

import "time"

// Defaults for the appended columns.
const (
	DefaultStatusColumn = "Attendance Status"
	DefaultTimeColumn   = "Check-in Time"
	DefaultTimeLayout   = "2006-01-02 15:04:05"
	DefaultPresent      = "Present"
	DefaultAbsent       = "Absent"
)

type settings struct {
	statusColumn string
	timeColumn   string
	timeLayout   string
	location     *time.Location
	present      string
	absent       string
}

func defaults() settings {
	return settings{
		statusColumn: DefaultStatusColumn,
		timeColumn:   DefaultTimeColumn,
		timeLayout:   DefaultTimeLayout,
		location:     time.Local,
		present:      DefaultPresent,
		absent:       DefaultAbsent,
	}
}

// Option configures how a report is built.
type Option func(*settings)

// WithColumns renames the appended status and time columns. Empty names
// keep the defaults.
func WithColumns(status, checkIn string) Option {
	return func(s *settings) {
		if status != "" {
			s.statusColumn = status
		}
		if checkIn != "" {
			s.timeColumn = checkIn
		}
	}
}

// WithTimeLayout sets the Go time layout for check-in timestamps.
func WithTimeLayout(layout string) Option {
	return func(s *settings) {
		if layout != "" {
			s.timeLayout = layout
		}
	}
}

// WithLocation sets the time zone timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLabels sets the present and absent status values.
func WithLabels(present, absent string) Option {
	return func(s *settings) {
		if present != "" {
			s.present = present
		}
		if absent != "" {
			s.absent = absent
		}
	}
}
