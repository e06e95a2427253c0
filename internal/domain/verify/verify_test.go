package verify_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/okian/checkin/internal/domain/model"
	"github.com/okian/checkin/internal/domain/roster"
	"github.com/okian/checkin/internal/domain/verify"
	. "github.com/smartystreets/goconvey/convey"
)

var mapping = roster.ColumnMapping{ID: "ID", Name: "Name", Email: "Email"}

func guests() *roster.Roster {
	r, err := roster.New(
		[]string{"ID", "Name", "Email"},
		[]roster.Record{
			{"ID": "A1", "Name": "Alice", "Email": "a@x.com"},
			{"ID": "B2", "Name": "Bob"},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// fixedEngine returns an engine whose clock advances one second per call
// and whose entry ids are sequential.
func fixedEngine(opts ...verify.Option) *verify.Engine {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick, seq := 0, 0
	opts = append([]verify.Option{
		verify.WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
		verify.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("e-%d", seq)
		}),
	}, opts...)
	return verify.NewEngine(opts...)
}

func scan(text string) model.ScanEvent {
	return model.NewScanEvent(text, time.Now())
}

func TestNewSession(t *testing.T) {
	Convey("Given session construction", t, func() {
		Convey("When the roster is missing", func() {
			_, err := verify.NewSession(nil, mapping)
			So(errors.Is(err, verify.ErrNoRoster), ShouldBeTrue)
		})

		Convey("When the mapping names unknown columns", func() {
			s, err := verify.NewSession(guests(), roster.ColumnMapping{ID: "ID", Email: "Mail"})
			So(err, ShouldBeNil)

			Convey("Then they are treated as unmapped", func() {
				So(s.Mapping().Email, ShouldEqual, "")
				So(s.Mapping().ID, ShouldEqual, "ID")
				So(s.Log().Len(), ShouldEqual, 0)
				So(s.Tracker().Size(), ShouldEqual, 0)
				So(s.StartedAt().IsZero(), ShouldBeFalse)
			})
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a session over Alice and Bob", t, func() {
		ctx := context.Background()
		s, err := verify.NewSession(guests(), mapping)
		So(err, ShouldBeNil)
		e := fixedEngine()

		Convey("When the email form is scanned before the id form", func() {
			first, _ := e.Verify(ctx, s, scan("a@x.COM"))
			second, _ := e.Verify(ctx, s, scan(" A1 "))

			Convey("Then the id form is the duplicate", func() {
				So(first.Status, ShouldEqual, verify.StatusSuccess)
				So(first.Key, ShouldEqual, "A1")
				So(second.Status, ShouldEqual, verify.StatusDuplicate)
				So(second.Record.Get("Name"), ShouldEqual, "Alice")
				So(s.Tracker().Size(), ShouldEqual, 1)
			})
		})

		Convey("When running the reference scan sequence", func() {
			first, _ := e.Verify(ctx, s, scan("A1"))
			second, _ := e.Verify(ctx, s, scan("a@x.com"))
			third, _ := e.Verify(ctx, s, scan("Z9"))
			fourth, _ := e.Verify(ctx, s, scan("B2\tBob\tsome@team.com"))

			Convey("Then A1 checks Alice in", func() {
				So(first.Status, ShouldEqual, verify.StatusSuccess)
				So(first.Record.Get("Name"), ShouldEqual, "Alice")
				So(first.ScannedValue, ShouldEqual, "A1")
				So(first.Message, ShouldEqual, "")
				So(first.ID, ShouldEqual, "e-1")
			})

			Convey("And Alice's email is a duplicate", func() {
				So(second.Status, ShouldEqual, verify.StatusDuplicate)
				So(second.Key, ShouldEqual, "A1")
				So(second.Record.Get("Name"), ShouldEqual, "Alice")
				So(second.Message, ShouldEqual, verify.MessageDuplicate)
			})

			Convey("And Z9 is not found", func() {
				So(third.Status, ShouldEqual, verify.StatusNotFound)
				So(third.Record, ShouldBeNil)
				So(third.MatchedID, ShouldEqual, "Z9")
				So(third.Message, ShouldEqual, verify.MessageNotFound)
			})

			Convey("And the tab separated badge checks Bob in", func() {
				So(fourth.Status, ShouldEqual, verify.StatusSuccess)
				So(fourth.Record.Get("Name"), ShouldEqual, "Bob")
				So(fourth.MatchedID, ShouldEqual, "B2")
			})

			Convey("And every call produced one log entry in order", func() {
				entries := s.Log().Entries()
				So(len(entries), ShouldEqual, 4)
				So(entries[0].ID, ShouldEqual, "e-1")
				So(entries[3].ID, ShouldEqual, "e-4")
				So(entries[2].Status, ShouldEqual, verify.StatusNotFound)
				So(entries[1].Timestamp.After(entries[0].Timestamp), ShouldBeTrue)
			})

			Convey("And the tracker holds both identities only", func() {
				So(s.Tracker().Size(), ShouldEqual, 2)
				So(s.Tracker().Contains(ctx, "A1"), ShouldBeTrue)
				So(s.Tracker().Contains(ctx, "B2"), ShouldBeTrue)
			})

			Convey("And the log tallies statuses", func() {
				counts := s.Log().Counts()
				So(counts[verify.StatusSuccess], ShouldEqual, 2)
				So(counts[verify.StatusDuplicate], ShouldEqual, 1)
				So(counts[verify.StatusNotFound], ShouldEqual, 1)
			})
		})

		Convey("When an unknown value is scanned repeatedly", func() {
			for i := 0; i < 3; i++ {
				entry, err := e.Verify(ctx, s, scan("nobody"))
				So(err, ShouldBeNil)
				So(entry.Status, ShouldEqual, verify.StatusNotFound)
			}

			Convey("Then the tracker is untouched", func() {
				So(s.Tracker().Size(), ShouldEqual, 0)
				So(s.Log().Len(), ShouldEqual, 3)
			})
		})

		Convey("When every roster id is scanned first", func() {
			for i := 0; i < s.Roster().Len(); i++ {
				rec := s.Roster().At(i)
				entry, _ := e.Verify(ctx, s, scan(rec.Get("ID")))
				So(entry.Status, ShouldEqual, verify.StatusSuccess)
				So(entry.Record, ShouldResemble, rec)
			}
		})

		Convey("When a long unknown value is scanned", func() {
			long := strings.Repeat("x", 45)
			entry, _ := e.Verify(ctx, s, scan("  "+long+"  "))

			Convey("Then only the display value is truncated", func() {
				So(entry.ScannedValue, ShouldEqual, strings.Repeat("x", 30)+"...")
				So(entry.MatchedID, ShouldEqual, long)
				So(entry.Key, ShouldEqual, long)
			})
		})

		Convey("When truncation is disabled", func() {
			e := fixedEngine(verify.WithDisplayTruncate(0))
			long := strings.Repeat("y", 45)
			entry, _ := e.Verify(ctx, s, scan(long))
			So(entry.ScannedValue, ShouldEqual, long)
		})

		Convey("When the scan is blank", func() {
			entry, err := e.Verify(ctx, s, scan("   "))
			So(err, ShouldBeNil)
			So(entry.Status, ShouldEqual, verify.StatusNotFound)
			So(s.Log().Len(), ShouldEqual, 1)
		})

		Convey("When the session is reset", func() {
			_, _ = e.Verify(ctx, s, scan("A1"))
			s.Reset(ctx)

			Convey("Then the same attendee can check in again", func() {
				So(s.Log().Len(), ShouldEqual, 0)
				entry, _ := e.Verify(ctx, s, scan("A1"))
				So(entry.Status, ShouldEqual, verify.StatusSuccess)
			})
		})

		Convey("When the mapping changes mid session", func() {
			_, _ = e.Verify(ctx, s, scan("A1"))
			m := s.SetMapping(roster.ColumnMapping{ID: "ID", Name: "Name"})

			Convey("Then check-ins survive and email matching stops", func() {
				So(m.Email, ShouldEqual, "")
				So(s.Tracker().Contains(ctx, "A1"), ShouldBeTrue)
				So(s.Log().Len(), ShouldEqual, 1)

				entry, _ := e.Verify(ctx, s, scan("a@x.com"))
				So(entry.Status, ShouldEqual, verify.StatusNotFound)
			})
		})

		Convey("When the session is nil", func() {
			_, err := e.Verify(ctx, nil, scan("A1"))
			So(errors.Is(err, verify.ErrNoRoster), ShouldBeTrue)
		})
	})

	Convey("Given a mapping without an id column", t, func() {
		ctx := context.Background()
		s, err := verify.NewSession(guests(), roster.ColumnMapping{Name: "Name", Email: "Email"})
		So(err, ShouldBeNil)
		e := fixedEngine()

		Convey("When an email is scanned twice", func() {
			first, _ := e.Verify(ctx, s, scan("a@x.com"))
			second, _ := e.Verify(ctx, s, scan("A@X.com"))

			Convey("Then the roster position is the dedup key", func() {
				So(first.Status, ShouldEqual, verify.StatusSuccess)
				So(first.Key, ShouldNotEqual, "row:1")
				So(first.Key, ShouldEndWith, "row:1")
				So(second.Status, ShouldEqual, verify.StatusDuplicate)
				So(second.Record.Get("Name"), ShouldEqual, "Alice")
			})
		})

		Convey("When a bare id is scanned", func() {
			entry, _ := e.Verify(ctx, s, scan("A1"))
			So(entry.Status, ShouldEqual, verify.StatusNotFound)
		})
	})

	Convey("Given a roster where one guest has no id", t, func() {
		ctx := context.Background()
		r, err := roster.New(
			[]string{"ID", "Name", "Email"},
			[]roster.Record{
				{"Name": "Alice", "Email": "a@x.com"},
				{"ID": "B2", "Name": "Bob", "Email": "b@x.com"},
			},
		)
		So(err, ShouldBeNil)
		s, err := verify.NewSession(r, mapping)
		So(err, ShouldBeNil)
		e := fixedEngine()

		Convey("When her email is scanned and then the text of a position key", func() {
			first, _ := e.Verify(ctx, s, scan("a@x.com"))
			second, _ := e.Verify(ctx, s, scan("row:1"))
			nulKey, _ := e.Verify(ctx, s, scan(first.Key))

			Convey("Then only the email checks anyone in", func() {
				So(first.Status, ShouldEqual, verify.StatusSuccess)
				So(first.Record.Get("Name"), ShouldEqual, "Alice")

				So(second.Status, ShouldEqual, verify.StatusNotFound)
				So(second.Record, ShouldBeNil)
				So(second.Message, ShouldEqual, verify.MessageNotFound)

				So(nulKey.Status, ShouldEqual, verify.StatusNotFound)
				So(s.Tracker().Size(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given the default engine", t, func() {
		s, _ := verify.NewSession(guests(), mapping)
		entry, err := verify.NewEngine().Verify(context.Background(), s, scan("B2"))
		So(err, ShouldBeNil)
		So(len(entry.ID), ShouldEqual, 36)
		So(entry.Timestamp.IsZero(), ShouldBeFalse)
	})
}
