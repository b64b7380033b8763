package filters

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	convey.Convey("Given the default filter set", t, func() {
		f := Default()

		convey.Convey("Then the numeric bounds match the documented defaults", func() {
			convey.So(f.CompatibilityMin, convey.ShouldEqual, 60)
			convey.So(f.CompatibilityMax, convey.ShouldEqual, 100)
			convey.So(f.LocationRadiusKm, convey.ShouldEqual, 50)
		})

		convey.Convey("Then the date range is open and the sets are empty", func() {
			convey.So(f.DateRange.Start, convey.ShouldBeNil)
			convey.So(f.DateRange.End, convey.ShouldBeNil)
			convey.So(f.CompensationTypes, convey.ShouldBeEmpty)
			convey.So(f.Specializations, convey.ShouldBeEmpty)
			convey.So(f.ExperienceLevels, convey.ShouldBeEmpty)
			convey.So(f.AvailabilityStatus, convey.ShouldBeEmpty)
		})

		convey.Convey("Then nothing counts as active", func() {
			convey.So(f.ActiveCount(), convey.ShouldEqual, 0)
		})
	})
}

func TestActiveCount(t *testing.T) {
	convey.Convey("Given a filter set diverging from defaults", t, func() {
		now := time.Now()

		convey.Convey("When only the score band changes", func() {
			f := Default()
			f.CompatibilityMin = 70
			convey.So(f.ActiveCount(), convey.ShouldEqual, 1)
		})

		convey.Convey("When min and max both change they count once", func() {
			f := Default()
			f.CompatibilityMin = 70
			f.CompatibilityMax = 90
			convey.So(f.ActiveCount(), convey.ShouldEqual, 1)
		})

		convey.Convey("When every dimension diverges", func() {
			f := Default()
			f.CompatibilityMin = 70
			f.LocationRadiusKm = 25
			f.DateRange.Start = &now
			f.CompensationTypes = []string{"PAID"}
			f.Specializations = []string{"portrait"}
			f.ExperienceLevels = []string{"expert"}
			f.AvailabilityStatus = []string{"available"}
			convey.So(f.ActiveCount(), convey.ShouldEqual, 7)
		})

		convey.Convey("When only the end of the date range is set", func() {
			f := Default()
			f.DateRange.End = &now
			convey.So(f.ActiveCount(), convey.ShouldEqual, 1)
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given filter validation", t, func() {
		convey.Convey("Then defaults validate cleanly", func() {
			convey.So(Default().Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then an out-of-range minimum is rejected", func() {
			f := Default()
			f.CompatibilityMin = -1
			convey.So(f.Validate(), convey.ShouldWrap, ErrInvalidFilters)
		})

		convey.Convey("Then an inverted score band is rejected", func() {
			f := Default()
			f.CompatibilityMin = 90
			f.CompatibilityMax = 80
			convey.So(f.Validate(), convey.ShouldWrap, ErrInvalidFilters)
		})

		convey.Convey("Then a negative radius is rejected", func() {
			f := Default()
			f.LocationRadiusKm = -5
			convey.So(f.Validate(), convey.ShouldWrap, ErrInvalidFilters)
		})

		convey.Convey("Then an inverted date range is rejected", func() {
			f := Default()
			start := time.Now()
			end := start.Add(-time.Hour)
			f.DateRange.Start = &start
			f.DateRange.End = &end
			convey.So(f.Validate(), convey.ShouldWrap, ErrInvalidFilters)
		})

		convey.Convey("Then unknown enum values are rejected", func() {
			f := Default()
			f.CompensationTypes = []string{"BARTER"}
			convey.So(f.Validate(), convey.ShouldWrap, ErrInvalidFilters)

			f = Default()
			f.ExperienceLevels = []string{"wizard"}
			convey.So(f.Validate(), convey.ShouldWrap, ErrInvalidFilters)

			f = Default()
			f.AvailabilityStatus = []string{"sometimes"}
			convey.So(f.Validate(), convey.ShouldWrap, ErrInvalidFilters)
		})

		convey.Convey("Then known enum values are accepted", func() {
			f := Default()
			f.CompensationTypes = []string{"TFP", "PAID"}
			f.ExperienceLevels = []string{"expert"}
			f.AvailabilityStatus = []string{"weekends_only"}
			convey.So(f.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestToggle(t *testing.T) {
	convey.Convey("Given set toggling", t, func() {
		convey.Convey("When the value is absent it is added", func() {
			out := Toggle([]string{"TFP"}, "PAID")
			convey.So(out, convey.ShouldResemble, []string{"TFP", "PAID"})
		})

		convey.Convey("When the value is present it is removed", func() {
			out := Toggle([]string{"TFP", "PAID"}, "TFP")
			convey.So(out, convey.ShouldResemble, []string{"PAID"})
		})

		convey.Convey("Then toggling twice restores the original set", func() {
			orig := []string{"TFP", "EXPENSES_ONLY"}
			out := Toggle(Toggle(orig, "PAID"), "PAID")
			convey.So(out, convey.ShouldResemble, orig)
		})

		convey.Convey("Then the input set is never mutated", func() {
			orig := []string{"TFP", "PAID"}
			_ = Toggle(orig, "TFP")
			_ = Toggle(orig, "EXPENSES_ONLY")
			convey.So(orig, convey.ShouldResemble, []string{"TFP", "PAID"})
		})

		convey.Convey("Then toggling on an empty set yields a single element", func() {
			convey.So(Toggle(nil, "PAID"), convey.ShouldResemble, []string{"PAID"})
		})
	})
}
