// Command oracle-stub is a PostgREST-shaped stand-in for the scoring
// oracle, intended for local development and matchsim runs. Scores are
// deterministic per profile/gig pair so repeated reads verify cleanly.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"hash/fnv"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/preset-app/matchmaking/pkg/logger"
)

const (
	defaultAddr     = ":9900"
	defaultGigCount = 200

	shutdownTimeout = 5 * time.Second
)

func main() {
	var (
		addr     = flag.String("addr", defaultAddr, "Listen address")
		gigCount = flag.Int("gigs", defaultGigCount, "Number of published gigs to serve")
		broken   = flag.Bool("broken-schema", false, "Answer the bulk RPC with a PGRST200 schema error")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Named("oracle-stub")
	stub := &stub{gigs: generateGigs(*gigCount), broken: *broken}

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/rpc/calculate_gig_compatibility_with_preferences", stub.calculateCompatibility)
	mux.HandleFunc("/rest/v1/rpc/find_compatible_gigs_for_user", stub.findCompatibleGigs)
	mux.HandleFunc("/rest/v1/gigs", stub.listGigs)

	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "oracle stub listening",
		logger.String("addr", *addr),
		logger.Int("gigs", *gigCount),
		logger.Bool("brokenSchema", *broken))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(ctx, "server failed", logger.Error(err))
	}
}

type stub struct {
	gigs   []map[string]interface{}
	broken bool
}

// pairScore derives a stable score in [40, 100) from the pair key.
func pairScore(profileID, gigID string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(profileID + "-" + gigID))
	return 40 + float64(h.Sum32()%6000)/100
}

func (s *stub) calculateCompatibility(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProfileID string `json:"p_profile_id"`
		GigID     string `json:"p_gig_id"`
	}
	if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&body) != nil {
		http.Error(w, `{"message":"bad request"}`, http.StatusBadRequest)
		return
	}

	score := pairScore(body.ProfileID, body.GigID)
	writeJSON(w, []map[string]interface{}{scoredRow(score)})
}

func (s *stub) findCompatibleGigs(w http.ResponseWriter, r *http.Request) {
	if s.broken {
		// The exact shape PostgREST emits for a missing relationship.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "PGRST200",
			"message": "Could not find a relationship between tables in the schema cache",
		})
		return
	}

	var body struct {
		ProfileID string `json:"p_profile_id"`
		Limit     int    `json:"p_limit"`
	}
	if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&body) != nil {
		http.Error(w, `{"message":"bad request"}`, http.StatusBadRequest)
		return
	}
	if body.Limit <= 0 || body.Limit > len(s.gigs) {
		body.Limit = len(s.gigs)
	}

	rows := make([]map[string]interface{}, 0, body.Limit)
	for _, gig := range s.gigs[:body.Limit] {
		row := scoredRow(pairScore(body.ProfileID, gig["id"].(string)))
		for k, v := range gig {
			row[k] = v
		}
		rows = append(rows, row)
	}
	writeJSON(w, rows)
}

func (s *stub) listGigs(w http.ResponseWriter, r *http.Request) {
	limit := len(s.gigs)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < limit {
			limit = n
		}
	}
	writeJSON(w, s.gigs[:limit])
}

// scoredRow builds the factor fields the scoring RPC returns, nested
// under match_factors the way PostgREST serves them. Factor booleans
// follow from the score so the breakdown roughly adds up.
func scoredRow(score float64) map[string]interface{} {
	return map[string]interface{}{
		"compatibility_score": score,
		"match_factors": map[string]interface{}{
			"gender_match":         score >= 50,
			"age_match":            score >= 55,
			"height_match":         score >= 60,
			"experience_match":     score >= 65,
			"specialization_match": score / 5,
		},
	}
}

func generateGigs(count int) []map[string]interface{} {
	compTypes := []string{"TFP", "PAID", "EXPENSES_ONLY"}
	gigs := make([]map[string]interface{}, count)
	for i := range gigs {
		start := time.Now().Add(time.Duration(24+i) * time.Hour).UTC()
		gigs[i] = map[string]interface{}{
			"id":            uuid.New().String(),
			"title":         fmt.Sprintf("Stub gig %d", i+1),
			"description":   "Generated listing for local development",
			"location":      "Dublin, Ireland",
			"comp_type":     compTypes[i%len(compTypes)],
			"status":        "PUBLISHED",
			"distance_km":   float64(i%100) + 0.5,
			"start_time":    start.Format(time.RFC3339),
			"end_time":      start.Add(4 * time.Hour).Format(time.RFC3339),
			"created_at":    time.Now().UTC().Format(time.RFC3339),
			"updated_at":    time.Now().UTC().Format(time.RFC3339),
			"owner_user_id": uuid.New().String(),
		}
	}
	return gigs
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
