// Package oracle is the client for the external compatibility scoring
// service. The service speaks PostgREST conventions: RPC endpoints
// under /rest/v1/rpc and row filtering via query operators.
package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/preset-app/matchmaking/internal/domain/compat"
	"github.com/preset-app/matchmaking/internal/domain/model"
	"github.com/preset-app/matchmaking/pkg/logger"
	"github.com/preset-app/matchmaking/pkg/metrics"
)

const (
	rpcCalculateCompatibility = "/rest/v1/rpc/calculate_gig_compatibility_with_preferences"
	rpcFindCompatibleGigs     = "/rest/v1/rpc/find_compatible_gigs_for_user"
	pathGigs                  = "/rest/v1/gigs"

	defaultTimeout = 10 * time.Second
)

// GigMatch pairs a gig returned by the bulk RPC with its scoring data.
type GigMatch struct {
	Gig  model.GigSummary
	Data compat.Data
}

// Client calls the scoring oracle over HTTP.
type Client struct {
	http *resty.Client
	log  logger.Logger
}

// New creates a Client for the oracle at baseURL. apiKey and
// serviceToken are sent on every request the way PostgREST expects
// them: an apikey header plus a bearer Authorization.
func New(baseURL, apiKey, serviceToken string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("apikey", apiKey).
			SetHeader("Authorization", "Bearer "+serviceToken).
			SetHeader("Content-Type", "application/json"),
		log: logger.Named("oracle"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CalculateCompatibility scores a single profile/gig pair. The RPC
// returns a one-row array; zero rows means the oracle had no answer
// for the pair and is reported as ErrNoResult.
func (c *Client) CalculateCompatibility(ctx context.Context, profileID, gigID string) (compat.Data, error) {
	body := map[string]string{
		"p_profile_id": profileID,
		"p_gig_id":     gigID,
	}

	rows, err := c.rpc(ctx, rpcCalculateCompatibility, body)
	if err != nil {
		return compat.Data{}, err
	}
	if len(rows) == 0 {
		return compat.Data{}, fmt.Errorf("%w: pair %s-%s", ErrNoResult, profileID, gigID)
	}

	row := rows[0]
	return compat.Normalize(row.Get("compatibility_score").Float(), rowFactors(row)), nil
}

// FindCompatibleGigs runs the bulk matching RPC for a profile.
func (c *Client) FindCompatibleGigs(ctx context.Context, profileID string, limit int) ([]GigMatch, error) {
	body := map[string]interface{}{
		"p_profile_id": profileID,
		"p_limit":      limit,
	}

	rows, err := c.rpc(ctx, rpcFindCompatibleGigs, body)
	if err != nil {
		return nil, err
	}

	matches := make([]GigMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, GigMatch{
			Gig:  rowGig(row),
			Data: compat.Normalize(row.Get("compatibility_score").Float(), rowFactors(row)),
		})
	}
	return matches, nil
}

// ListPublishedGigs fetches published gig listings without scoring.
// Used as the degraded path when the matching RPC is broken.
func (c *Client) ListPublishedGigs(ctx context.Context, limit int) ([]model.GigSummary, error) {
	started := time.Now()
	metrics.RecordOracleCall()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("status", "eq.PUBLISHED").
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		Get(pathGigs)
	metrics.RecordOracleLatency(float64(time.Since(started).Milliseconds()))
	if err != nil {
		metrics.RecordOracleError()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		metrics.RecordOracleError()
		return nil, responseError(resp)
	}

	parsed := gjson.ParseBytes(resp.Body())
	if !parsed.IsArray() {
		metrics.RecordOracleError()
		return nil, fmt.Errorf("%w: expected array, got %s", ErrBadResponse, parsed.Type)
	}

	rows := parsed.Array()
	gigs := make([]model.GigSummary, 0, len(rows))
	for _, row := range rows {
		gigs = append(gigs, rowGig(row))
	}
	return gigs, nil
}

// rpc posts a PostgREST RPC and returns its row array.
func (c *Client) rpc(ctx context.Context, path string, body interface{}) ([]gjson.Result, error) {
	started := time.Now()
	metrics.RecordOracleCall()

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	metrics.RecordOracleLatency(float64(time.Since(started).Milliseconds()))
	if err != nil {
		metrics.RecordOracleError()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		metrics.RecordOracleError()
		rerr := responseError(resp)
		if IsSchemaError(rerr) {
			metrics.RecordOracleSchemaError()
			c.log.Warn(ctx, "oracle schema error",
				logger.String("path", path),
				logger.Int("status", resp.StatusCode()))
		}
		return nil, rerr
	}

	parsed := gjson.ParseBytes(resp.Body())
	if !parsed.IsArray() {
		metrics.RecordOracleError()
		return nil, fmt.Errorf("%w: expected array, got %s", ErrBadResponse, parsed.Type)
	}
	return parsed.Array(), nil
}

// rowFactors lifts the oracle's heterogeneous match fields into a
// factor map. The pair RPC nests them under match_factors; some bulk
// rows flatten them onto the row itself, so the row is the fallback.
// Booleans stay booleans; numeric specialization scores pass through
// as floats.
func rowFactors(row gjson.Result) compat.Factors {
	nested := row.Get("match_factors")

	factors := compat.Factors{}
	for _, name := range []string{
		compat.FactorGender,
		compat.FactorAge,
		compat.FactorHeight,
		compat.FactorExperience,
		compat.FactorSpecialization,
	} {
		field := nested.Get(name)
		if !field.Exists() {
			field = row.Get(name)
		}
		if !field.Exists() {
			continue
		}
		switch field.Type {
		case gjson.True, gjson.False:
			factors[name] = field.Bool()
		case gjson.Number:
			factors[name] = field.Float()
		default:
			factors[name] = field.Value()
		}
	}
	return factors
}

func rowGig(row gjson.Result) model.GigSummary {
	gig := model.GigSummary{
		ID:           firstString(row, "gig_id", "id"),
		Title:        row.Get("title").String(),
		Description:  row.Get("description").String(),
		LocationText: row.Get("location").String(),
		CompType:     row.Get("comp_type").String(),
		OwnerUserID:  row.Get("owner_user_id").String(),
		Status:       row.Get("status").String(),
	}
	for _, lf := range row.Get("looking_for").Array() {
		gig.LookingFor = append(gig.LookingFor, lf.String())
	}
	for _, lft := range row.Get("looking_for_types").Array() {
		gig.LookingForTypes = append(gig.LookingForTypes, lft.String())
	}
	if d := row.Get("distance_km"); d.Exists() {
		km := d.Float()
		gig.DistanceKm = &km
	}
	gig.StartTime = parseTime(row.Get("start_time"))
	gig.EndTime = parseTime(row.Get("end_time"))
	if t := parseTime(row.Get("created_at")); t != nil {
		gig.CreatedAt = *t
	}
	if t := parseTime(row.Get("updated_at")); t != nil {
		gig.UpdatedAt = *t
	}
	return gig
}

func firstString(row gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := row.Get(p); v.Exists() {
			return v.String()
		}
	}
	return ""
}

func parseTime(res gjson.Result) *time.Time {
	if !res.Exists() || res.Type != gjson.String {
		return nil
	}
	t, err := time.Parse(time.RFC3339, res.String())
	if err != nil {
		return nil
	}
	return &t
}
