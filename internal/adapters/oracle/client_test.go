package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/preset-app/matchmaking/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-api-key", "test-token")
}

func TestCalculateCompatibility(t *testing.T) {
	convey.Convey("Given an oracle answering the pair RPC", t, func() {
		ctx := context.Background()

		convey.Convey("When the row carries a string score and boolean factors", func() {
			var gotPath, gotAPIKey, gotAuth string
			var gotBody map[string]string

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAPIKey = r.Header.Get("apikey")
				gotAuth = r.Header.Get("Authorization")
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				_, _ = w.Write([]byte(`[{
					"compatibility_score": "87.5",
					"match_factors": {
						"gender_match": true,
						"age_match": false,
						"height_match": true,
						"experience_match": true,
						"specialization_match": 18
					}
				}]`))
			})

			data, err := c.CalculateCompatibility(ctx, "p1", "g1")

			convey.So(err, convey.ShouldBeNil)
			convey.So(gotPath, convey.ShouldEqual, "/rest/v1/rpc/calculate_gig_compatibility_with_preferences")
			convey.So(gotAPIKey, convey.ShouldEqual, "test-api-key")
			convey.So(gotAuth, convey.ShouldEqual, "Bearer test-token")
			convey.So(gotBody["p_profile_id"], convey.ShouldEqual, "p1")
			convey.So(gotBody["p_gig_id"], convey.ShouldEqual, "g1")

			convey.So(data.Score, convey.ShouldEqual, 87.5)
			convey.So(data.Breakdown.Gender, convey.ShouldEqual, 20)
			convey.So(data.Breakdown.Age, convey.ShouldEqual, 0)
			convey.So(data.Breakdown.Height, convey.ShouldEqual, 15)
			convey.So(data.Breakdown.Experience, convey.ShouldEqual, 25)
			convey.So(data.Breakdown.Specialization, convey.ShouldEqual, 18)
			convey.So(data.Breakdown.Total, convey.ShouldEqual, 87.5)
		})

		convey.Convey("When factors arrive flattened on the row", func() {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{
					"compatibility_score": 62,
					"gender_match": true,
					"age_match": true,
					"height_match": false,
					"experience_match": false,
					"specialization_match": true
				}]`))
			})

			data, err := c.CalculateCompatibility(ctx, "p1", "g1")

			convey.So(err, convey.ShouldBeNil)
			convey.So(data.Breakdown.Gender, convey.ShouldEqual, 20)
			convey.So(data.Breakdown.Age, convey.ShouldEqual, 20)
			convey.So(data.Breakdown.Height, convey.ShouldEqual, 0)
			convey.So(data.Breakdown.Specialization, convey.ShouldEqual, 20)
		})

		convey.Convey("When the oracle returns zero rows", func() {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[]`))
			})

			_, err := c.CalculateCompatibility(ctx, "p1", "g1")
			convey.So(err, convey.ShouldWrap, ErrNoResult)
		})

		convey.Convey("When the oracle returns a non-array body", func() {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"unexpected": true}`))
			})

			_, err := c.CalculateCompatibility(ctx, "p1", "g1")
			convey.So(err, convey.ShouldWrap, ErrBadResponse)
		})
	})
}

func TestSchemaErrorDetection(t *testing.T) {
	convey.Convey("Given a failing oracle", t, func() {
		ctx := context.Background()

		convey.Convey("When the body carries the PGRST200 code", func() {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"code":"PGRST200","message":"Could not find a relationship between tables"}`))
			})

			_, err := c.CalculateCompatibility(ctx, "p1", "g1")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(IsSchemaError(err), convey.ShouldBeTrue)
		})

		convey.Convey("When only the message mentions a relationship", func() {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"code":"PGRST123","message":"missing relationship in schema cache"}`))
			})

			_, err := c.CalculateCompatibility(ctx, "p1", "g1")
			convey.So(IsSchemaError(err), convey.ShouldBeTrue)
		})

		convey.Convey("When the oracle fails for unrelated reasons", func() {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"code":"XX000","message":"internal error"}`))
			})

			_, err := c.CalculateCompatibility(ctx, "p1", "g1")
			convey.So(err, convey.ShouldWrap, ErrUnavailable)
			convey.So(IsSchemaError(err), convey.ShouldBeFalse)
		})
	})
}

func TestFindCompatibleGigs(t *testing.T) {
	convey.Convey("Given the bulk matching RPC", t, func() {
		ctx := context.Background()

		var gotBody map[string]interface{}
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = w.Write([]byte(`[
				{
					"gig_id": "g1",
					"title": "Editorial shoot",
					"location": "Berlin",
					"comp_type": "PAID",
					"looking_for": ["model", "stylist"],
					"start_time": "2026-09-10T12:00:00Z",
					"distance_km": 12.5,
					"compatibility_score": 91,
					"gender_match": true,
					"age_match": true,
					"height_match": true,
					"experience_match": true,
					"specialization_match": true
				},
				{
					"gig_id": "g2",
					"title": "TFP portraits",
					"comp_type": "TFP",
					"compatibility_score": "64"
				}
			]`))
		})

		matches, err := c.FindCompatibleGigs(ctx, "p1", 20)

		convey.So(err, convey.ShouldBeNil)
		convey.So(gotBody["p_profile_id"], convey.ShouldEqual, "p1")
		convey.So(gotBody["p_limit"], convey.ShouldEqual, 20)

		convey.So(matches, convey.ShouldHaveLength, 2)
		convey.So(matches[0].Gig.ID, convey.ShouldEqual, "g1")
		convey.So(matches[0].Gig.LookingFor, convey.ShouldResemble, []string{"model", "stylist"})
		convey.So(*matches[0].Gig.DistanceKm, convey.ShouldEqual, 12.5)
		convey.So(matches[0].Gig.StartTime, convey.ShouldNotBeNil)
		convey.So(matches[0].Data.Score, convey.ShouldEqual, 91)
		convey.So(matches[0].Data.Breakdown.Gender, convey.ShouldEqual, 20)
		convey.So(matches[1].Gig.DistanceKm, convey.ShouldBeNil)
		convey.So(matches[1].Data.Score, convey.ShouldEqual, 64)
	})
}

func TestListPublishedGigs(t *testing.T) {
	convey.Convey("Given the fallback gig listing", t, func() {
		ctx := context.Background()

		var gotQuery string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`[
				{"id": "g1", "title": "Shoot A", "status": "PUBLISHED", "comp_type": "TFP"},
				{"id": "g2", "title": "Shoot B", "status": "PUBLISHED", "comp_type": "PAID"}
			]`))
		})

		gigs, err := c.ListPublishedGigs(ctx, 10)

		convey.So(err, convey.ShouldBeNil)
		convey.So(gotQuery, convey.ShouldContainSubstring, "status=eq.PUBLISHED")
		convey.So(gotQuery, convey.ShouldContainSubstring, "limit=10")
		convey.So(gigs, convey.ShouldHaveLength, 2)
		convey.So(gigs[0].ID, convey.ShouldEqual, "g1")
		convey.So(gigs[1].CompType, convey.ShouldEqual, "PAID")
	})
}
