package dedupe

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	convey.Convey("Given a fresh deduper", t, func() {
		ctx := context.Background()
		d := NewInMemory()

		convey.Convey("Then the first sighting of a key records it", func() {
			convey.So(d.SeenAndRecord(ctx, "p1-g1"), convey.ShouldBeFalse)
			convey.So(d.Size(), convey.ShouldEqual, 1)
		})

		convey.Convey("Then a repeat sighting reports seen", func() {
			convey.So(d.SeenAndRecord(ctx, "p1-g1"), convey.ShouldBeFalse)
			convey.So(d.SeenAndRecord(ctx, "p1-g1"), convey.ShouldBeTrue)
			convey.So(d.Size(), convey.ShouldEqual, 1)
		})

		convey.Convey("Then distinct pairs are tracked independently", func() {
			convey.So(d.SeenAndRecord(ctx, "p1-g1"), convey.ShouldBeFalse)
			convey.So(d.SeenAndRecord(ctx, "p1-g2"), convey.ShouldBeFalse)
			convey.So(d.SeenAndRecord(ctx, "p2-g1"), convey.ShouldBeFalse)
			convey.So(d.Size(), convey.ShouldEqual, 3)
		})
	})
}

func TestUnrecord(t *testing.T) {
	convey.Convey("Given a deduper with a recorded pair", t, func() {
		ctx := context.Background()
		d := NewInMemory()
		d.SeenAndRecord(ctx, "p1-g1")

		convey.Convey("When the pair is unrecorded it can be recorded again", func() {
			d.Unrecord(ctx, "p1-g1")
			convey.So(d.Size(), convey.ShouldEqual, 0)
			convey.So(d.SeenAndRecord(ctx, "p1-g1"), convey.ShouldBeFalse)
		})

		convey.Convey("When an unknown key is unrecorded nothing changes", func() {
			d.Unrecord(ctx, "p9-g9")
			convey.So(d.Size(), convey.ShouldEqual, 1)
		})
	})
}

func TestEviction(t *testing.T) {
	convey.Convey("Given a bounded deduper at capacity", t, func() {
		ctx := context.Background()
		d := NewInMemory(WithMaxSize(3))
		d.SeenAndRecord(ctx, "a")
		d.SeenAndRecord(ctx, "b")
		d.SeenAndRecord(ctx, "c")

		convey.Convey("When a new key arrives the oldest is evicted", func() {
			convey.So(d.SeenAndRecord(ctx, "d"), convey.ShouldBeFalse)
			convey.So(d.Size(), convey.ShouldEqual, 3)
			convey.So(d.SeenAndRecord(ctx, "a"), convey.ShouldBeFalse)
		})

		convey.Convey("Then the newest keys are still remembered", func() {
			d.SeenAndRecord(ctx, "d")
			convey.So(d.SeenAndRecord(ctx, "c"), convey.ShouldBeTrue)
			convey.So(d.SeenAndRecord(ctx, "d"), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given an unbounded deduper", t, func() {
		ctx := context.Background()
		d := NewInMemory(WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i))
		}
		convey.So(d.Size(), convey.ShouldEqual, 1000)
	})
}

func TestConcurrentAccess(t *testing.T) {
	convey.Convey("Given concurrent recorders for the same key", t, func() {
		ctx := context.Background()
		d := NewInMemory()

		const goroutines = 50
		firsts := make(chan bool, goroutines)
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !d.SeenAndRecord(ctx, "contended") {
					firsts <- true
				}
			}()
		}
		wg.Wait()
		close(firsts)

		convey.Convey("Then exactly one recorder wins", func() {
			convey.So(len(firsts), convey.ShouldEqual, 1)
			convey.So(d.Size(), convey.ShouldEqual, 1)
		})
	})
}
