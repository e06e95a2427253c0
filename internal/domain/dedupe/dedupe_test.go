package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	dedupe "github.com/okian/checkin/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryTracker(t *testing.T) {
	Convey("Given a new InMemoryTracker", t, func() {
		ctx := context.Background()

		Convey("When creating a tracker with default options", func() {
			d := dedupe.NewInMemoryTracker()

			Convey("Then it should be empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When creating a tracker with a capacity hint", func() {
			d := dedupe.NewInMemoryTracker(dedupe.WithCapacityHint(100))

			Convey("Then it should still start empty", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording identifiers", func() {
			d := dedupe.NewInMemoryTracker()

			Convey("And the identifier is new", func() {
				seen := d.SeenAndRecord(ctx, "A1")

				Convey("Then it should return false and record it", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
					So(d.Contains(ctx, "A1"), ShouldBeTrue)
				})
			})

			Convey("And the identifier was already seen", func() {
				d.SeenAndRecord(ctx, "A1")
				seen := d.SeenAndRecord(ctx, "A1")

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And Contains is asked about an unknown identifier", func() {
				So(d.Contains(ctx, "Z9"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 0)
			})

			Convey("And identifiers differ only by case", func() {
				d.SeenAndRecord(ctx, "a1")
				So(d.SeenAndRecord(ctx, "A1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When many identifiers are recorded", func() {
			d := dedupe.NewInMemoryTracker()
			const n = 1000
			for i := 0; i < n; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i)), ShouldBeFalse)
			}

			Convey("Then none of them is ever evicted", func() {
				So(d.Size(), ShouldEqual, int64(n))
				for i := 0; i < n; i++ {
					So(d.Contains(ctx, fmt.Sprintf("id-%d", i)), ShouldBeTrue)
				}
			})
		})

		Convey("When the tracker is reset", func() {
			d := dedupe.NewInMemoryTracker(dedupe.WithCapacityHint(4))
			d.SeenAndRecord(ctx, "A1")
			d.SeenAndRecord(ctx, "B2")
			d.Reset(ctx)

			Convey("Then every identifier is forgotten", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.Contains(ctx, "A1"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "A1"), ShouldBeFalse)
			})
		})

	})
}

func TestTrackerConcurrency(t *testing.T) {
	Convey("Given a tracker with concurrent access", t, func() {
		d := dedupe.NewInMemoryTracker()
		const numGoroutines = 10
		const idsPerGoroutine = 100

		Convey("When multiple goroutines record the same identifiers", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < idsPerGoroutine; j++ {
						if !d.SeenAndRecord(context.Background(), fmt.Sprintf("id-%d", j)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}

			wg.Wait()

			Convey("Then each identifier is new exactly once", func() {
				So(fresh, ShouldEqual, idsPerGoroutine)
				So(d.Size(), ShouldEqual, int64(idsPerGoroutine))
			})
		})
	})
}

func TestTrackerEdgeCases(t *testing.T) {
	Convey("Given a tracker with edge cases", t, func() {
		Convey("When recording very long strings", func() {
			d := dedupe.NewInMemoryTracker()
			long := strings.Repeat("a", 10000)

			So(d.SeenAndRecord(context.Background(), long), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), long), ShouldBeTrue)
		})

		Convey("When using nil context", func() {
			d := dedupe.NewInMemoryTracker()

			Convey("Then it should not panic", func() {
				So(func() { d.SeenAndRecord(nil, "A1") }, ShouldNotPanic) //nolint:staticcheck // nil ctx tolerated
				So(func() { d.Contains(nil, "A1") }, ShouldNotPanic)      //nolint:staticcheck // nil ctx tolerated
				So(func() { d.Reset(nil) }, ShouldNotPanic)               //nolint:staticcheck // nil ctx tolerated
			})
		})

		Convey("When the capacity hint is negative", func() {
			d := dedupe.NewInMemoryTracker(dedupe.WithCapacityHint(-5))
			So(d.SeenAndRecord(context.Background(), "A1"), ShouldBeFalse)
		})
	})
}
