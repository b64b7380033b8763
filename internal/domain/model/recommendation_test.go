package model_test

import (
	"testing"

	"github.com/preset-app/matchmaking/internal/domain/compat"
	model "github.com/preset-app/matchmaking/internal/domain/model"
	"github.com/preset-app/matchmaking/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewGigRecommendation(t *testing.T) {
	convey.Convey("Given a gig summary and compatibility data", t, func() {
		gig := model.GigSummary{
			ID:       "gig-123",
			Title:    "Editorial shoot",
			CompType: types.CompTFP,
			Status:   "PUBLISHED",
		}

		convey.Convey("When the score is high", func() {
			rec := model.NewGigRecommendation(gig, compat.Normalize(85, compat.Factors{
				"gender_match":     true,
				"experience_match": true,
			}))

			convey.Convey("Then the recommendation should carry the gig payload", func() {
				convey.So(rec.ID, convey.ShouldEqual, "gig-123")
				convey.So(rec.Kind, convey.ShouldEqual, types.KindGig)
				convey.So(rec.Gig, convey.ShouldNotBeNil)
				convey.So(rec.User, convey.ShouldBeNil)
			})

			convey.Convey("And priority should be high with a derived reason", func() {
				convey.So(rec.Priority, convey.ShouldEqual, types.PriorityHigh)
				convey.So(rec.CompatibilityScore, convey.ShouldEqual, 85)
				convey.So(rec.Reason, convey.ShouldEqual, "Gender requirements match, Experience level matches")
			})
		})

		convey.Convey("When the compatibility is the unscored default", func() {
			rec := model.NewGigRecommendation(gig, compat.Default())

			convey.Convey("Then score should be 75 and priority medium", func() {
				convey.So(rec.CompatibilityScore, convey.ShouldEqual, 75)
				convey.So(rec.Priority, convey.ShouldEqual, types.PriorityMedium)
			})
		})
	})
}

func TestNewUserRecommendation(t *testing.T) {
	convey.Convey("Given a user summary and compatibility data", t, func() {
		user := model.UserSummary{
			ID:          "profile-9",
			DisplayName: "Alex",
		}

		rec := model.NewUserRecommendation(user, compat.Normalize(55, compat.Factors{}))

		convey.Convey("Then the recommendation should carry the user payload", func() {
			convey.So(rec.Kind, convey.ShouldEqual, types.KindUser)
			convey.So(rec.User, convey.ShouldNotBeNil)
			convey.So(rec.Gig, convey.ShouldBeNil)
		})

		convey.Convey("And priority should be low for a score below 60", func() {
			convey.So(rec.Priority, convey.ShouldEqual, types.PriorityLow)
		})
	})
}

func TestPairKey(t *testing.T) {
	convey.Convey("Given profile and gig identifiers", t, func() {
		convey.Convey("Then the pair key should join them with a dash", func() {
			convey.So(model.PairKey("user-1", "gig-2"), convey.ShouldEqual, "user-1-gig-2")
		})

		convey.Convey("And a score request should use the same key", func() {
			req := model.ScoreRequest{RequestID: "r1", ProfileID: "user-1", GigID: "gig-2"}
			convey.So(req.PairKey(), convey.ShouldEqual, model.PairKey("user-1", "gig-2"))
		})
	})
}
