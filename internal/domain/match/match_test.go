package match_test

import (
	"testing"

	"github.com/okian/checkin/internal/domain/match"
	"github.com/okian/checkin/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func guests() *roster.Roster {
	r, err := roster.New(
		[]string{"ID", "Name", "Email"},
		[]roster.Record{
			{"ID": "A1", "Name": "Alice", "Email": "a@x.com"},
			{"ID": "B2", "Name": "Bob"},
			{"ID": float64(1042), "Name": "Carol", "Email": " Carol@Example.org "},
			{"ID": "A1", "Name": "Alice Twin", "Email": "twin@x.com"},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

var fullMapping = roster.ColumnMapping{ID: "ID", Name: "Name", Email: "Email"}

func TestMatcher(t *testing.T) {
	Convey("Given a matcher over a small roster", t, func() {
		m := match.New(guests(), fullMapping)

		Convey("When the text is an exact id", func() {
			res := m.Match("  A1 ")

			Convey("Then the first record with that id wins", func() {
				So(res.Found(), ShouldBeTrue)
				So(res.Record.Get("Name"), ShouldEqual, "Alice")
				So(res.Index, ShouldEqual, 0)
				So(res.Token, ShouldEqual, "A1")
				So(res.Strategy, ShouldEqual, match.StrategyID)
			})
		})

		Convey("When the id cell is numeric", func() {
			res := m.Match("1042")
			So(res.Found(), ShouldBeTrue)
			So(res.Record.Get("Name"), ShouldEqual, "Carol")
		})

		Convey("When the text is an email in another case", func() {
			res := m.Match("carol@EXAMPLE.org")

			Convey("Then the email strategy matches", func() {
				So(res.Found(), ShouldBeTrue)
				So(res.Record.Get("Name"), ShouldEqual, "Carol")
				So(res.Strategy, ShouldEqual, match.StrategyEmail)
				So(res.Token, ShouldEqual, "carol@EXAMPLE.org")
			})
		})

		Convey("When the text is a tab separated payload", func() {
			res := m.Match("B2\tBob\tsome@team.com")

			Convey("Then the id token matches", func() {
				So(res.Record.Get("Name"), ShouldEqual, "Bob")
				So(res.Token, ShouldEqual, "B2")
				So(res.Strategy, ShouldEqual, match.StrategyTokenID)
			})
		})

		Convey("When only an email token is known", func() {
			res := m.Match("Guest | a@X.com | VIP")

			Convey("Then the email token matches", func() {
				So(res.Record.Get("ID"), ShouldEqual, "A1")
				So(res.Token, ShouldEqual, "a@X.com")
				So(res.Strategy, ShouldEqual, match.StrategyTokenEmail)
			})
		})

		Convey("When an id token comes after an email token", func() {
			res := m.Match("twin@x.com,B2")

			Convey("Then ids are tried before emails", func() {
				So(res.Record.Get("Name"), ShouldEqual, "Bob")
			})
		})

		Convey("When several delimiters are present", func() {
			res := m.Match("x,y\tB2")

			Convey("Then only the highest priority delimiter splits", func() {
				So(res.Record.Get("Name"), ShouldEqual, "Bob")
				So(res.Token, ShouldEqual, "B2")
			})

			miss := m.Match("B2,x\ty")
			So(miss.Found(), ShouldBeFalse)
		})

		Convey("When nothing matches", func() {
			res := m.Match("  Z9  ")

			Convey("Then the trimmed text is returned", func() {
				So(res.Found(), ShouldBeFalse)
				So(res.Token, ShouldEqual, "Z9")
				So(res.Index, ShouldEqual, -1)
				So(res.Strategy, ShouldEqual, match.StrategyNone)
			})
		})

		Convey("When the text is blank", func() {
			So(m.Match("   ").Found(), ShouldBeFalse)
			So(m.Match(",,").Found(), ShouldBeFalse)
		})
	})

	Convey("Given a mapping without an email column", t, func() {
		m := match.New(guests(), roster.ColumnMapping{ID: "ID", Name: "Name"})

		Convey("Then email text never matches", func() {
			So(m.Match("a@x.com").Found(), ShouldBeFalse)
			So(m.Match("q\ta@x.com").Found(), ShouldBeFalse)
			So(m.Mapping().Email, ShouldEqual, "")
		})
	})

	Convey("Given an empty mapping", t, func() {
		m := match.New(guests(), roster.ColumnMapping{})

		Convey("Then matching degrades to literal text without panicking", func() {
			res := m.Match("A1")
			So(res.Found(), ShouldBeFalse)
			So(res.Token, ShouldEqual, "A1")
		})
	})
}
