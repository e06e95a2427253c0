package types_test

import (
	"encoding/json"
	"testing"
	"time"

	types "github.com/okian/checkin/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResult(t *testing.T) {
	Convey("Given a Result view", t, func() {
		Convey("When a NOT_FOUND result is encoded", func() {
			r := types.Result{
				EntryID:      "e-1",
				Status:       "NOT_FOUND",
				Message:      "ID not found in list.",
				ScannedValue: "Z9",
				MatchedID:    "Z9",
				Timestamp:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			}
			raw, err := json.Marshal(r)
			So(err, ShouldBeNil)

			var m map[string]any
			So(json.Unmarshal(raw, &m), ShouldBeNil)

			Convey("Then attendee fields are omitted", func() {
				So(m["status"], ShouldEqual, "NOT_FOUND")
				So(m["matched_id"], ShouldEqual, "Z9")
				So(m, ShouldNotContainKey, "name")
				So(m, ShouldNotContainKey, "payment")
				So(m, ShouldNotContainKey, "record")
			})
		})

		Convey("When a SUCCESS result carries payment", func() {
			r := types.Result{Status: "SUCCESS", Name: "Alice", Payment: &types.Payment{Paid: false, Label: "PENDING"}}
			raw, err := json.Marshal(r)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"payment":{"paid":false,"label":"PENDING"}`)
			So(string(raw), ShouldContainSubstring, `"name":"Alice"`)
		})
	})
}

func TestReport(t *testing.T) {
	Convey("Given a Report view", t, func() {
		r := types.Report{
			Columns: []string{"ID", "Attendance Status"},
			Rows:    [][]string{{"A1", "Present"}},
			Summary: types.Summary{Total: 1, Present: 1},
		}
		raw, err := json.Marshal(r)
		So(err, ShouldBeNil)

		Convey("Then the summary is always present", func() {
			So(string(raw), ShouldContainSubstring, `"summary":{"total":1,"present":1,"absent":0}`)
			So(string(raw), ShouldContainSubstring, `"rows":[["A1","Present"]]`)
		})
	})
}
