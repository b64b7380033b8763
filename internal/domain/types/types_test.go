package types_test

import (
	"testing"

	"github.com/preset-app/matchmaking/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestPriorityForScore(t *testing.T) {
	convey.Convey("Given the priority derivation function", t, func() {
		convey.Convey("When the score is exactly 80", func() {
			convey.So(types.PriorityForScore(80), convey.ShouldEqual, types.PriorityHigh)
		})

		convey.Convey("When the score is just below 80", func() {
			convey.So(types.PriorityForScore(79.999), convey.ShouldEqual, types.PriorityMedium)
		})

		convey.Convey("When the score is exactly 60", func() {
			convey.So(types.PriorityForScore(60), convey.ShouldEqual, types.PriorityMedium)
		})

		convey.Convey("When the score is just below 60", func() {
			convey.So(types.PriorityForScore(59.999), convey.ShouldEqual, types.PriorityLow)
		})

		convey.Convey("When the score is 100", func() {
			convey.So(types.PriorityForScore(100), convey.ShouldEqual, types.PriorityHigh)
		})

		convey.Convey("When the score is zero", func() {
			convey.So(types.PriorityForScore(0), convey.ShouldEqual, types.PriorityLow)
		})

		convey.Convey("When the score is negative", func() {
			convey.So(types.PriorityForScore(-5), convey.ShouldEqual, types.PriorityLow)
		})
	})
}

func TestKinds(t *testing.T) {
	convey.Convey("Given the recommendation kinds", t, func() {
		convey.Convey("Then they should serialize to their wire names", func() {
			convey.So(string(types.KindGig), convey.ShouldEqual, "gig")
			convey.So(string(types.KindUser), convey.ShouldEqual, "user")
		})
	})
}
