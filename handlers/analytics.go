// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rijeet/Election-sub001/cliparse"
	"github.com/rijeet/Election-sub001/middleware"
	"github.com/rijeet/Election-sub001/models"
)

// blunderFetchFloor bounds the candidate-pool query so it never
// under-fetches for small gaps while staying cheap for large ones.
const blunderFetchFloor = 30

type AnalyticsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAnalyticsHandler(conn *sql.DB, cfg cliparse.Config) *AnalyticsHandler {
	return &AnalyticsHandler{db: conn, cfg: cfg}
}

// SwingState handles GET /swing-state
func (h *AnalyticsHandler) SwingState(w http.ResponseWriter, r *http.Request) {
	entries, err := ComputeSwingStates(h.db, models.SwingTerms)
	if err != nil {
		slog.Error("failed to compute swing states", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}

// Blunder handles GET /blunder?parliament=<term>
func (h *AnalyticsHandler) Blunder(w http.ResponseWriter, r *http.Request) {
	parliament, err := strconv.Atoi(r.URL.Query().Get("parliament"))
	if err != nil || parliament <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "parliament must be a positive integer")
		return
	}

	resp, err := ComputeBlunder(h.db, parliament)
	if err != nil {
		slog.Error("failed to compute blunder analysis", "error", err, "parliament", parliament)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Parliament handles GET /parliament?parliament=<term>
// Returns the seat breakdown that drives the seat-diagram view
func (h *AnalyticsHandler) Parliament(w http.ResponseWriter, r *http.Request) {
	parliament, err := strconv.Atoi(r.URL.Query().Get("parliament"))
	if err != nil || parliament <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "parliament must be a positive integer")
		return
	}

	seats, err := tallySeats(h.db, parliament)
	if err != nil {
		slog.Error("failed to tally seats", "error", err, "parliament", parliament)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	total := 0
	for _, s := range seats {
		total += s.Seats
	}

	parties := make([]models.PartySeatShare, len(seats))
	for i, s := range seats {
		share := 0.0
		if total > 0 {
			share = float64(s.Seats) / float64(total)
		}
		parties[i] = models.PartySeatShare{
			Party: s.Party,
			Color: models.PartyColor(s.Party),
			Seats: s.Seats,
			Share: share,
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ParliamentResponse{
		Parliament: parliament,
		TotalSeats: total,
		Parties:    parties,
	})
}

// constituencyHistory is the in-memory aggregate the classifier works
// on: per-party win counts over the considered terms, with parties kept
// in first-seen (term-ordered) order for deterministic tie-breaks.
type constituencyHistory struct {
	ID      string
	Name    string
	Parties []string
	Wins    map[string]int
	Terms   int
}

// ComputeSwingStates classifies every constituency's competitiveness
// over the given parliamentary terms.
//
// N is the number of terms with a recorded result for that
// constituency, not the size of the term set: a constituency missing
// some terms is classified over the history it has, and TermsCounted
// exposes the reduced sample to callers.
func ComputeSwingStates(conn *sql.DB, terms []int) ([]models.SwingStateEntry, error) {
	histories, err := loadHistories(conn, terms)
	if err != nil {
		return nil, fmt.Errorf("failed to load constituency histories: %w", err)
	}

	entries := make([]models.SwingStateEntry, len(histories))
	for i, h := range histories {
		label, stability, dominant := classifyHistory(h)

		breakdown := make([]models.PartyWins, len(h.Parties))
		for j, party := range h.Parties {
			breakdown[j] = models.PartyWins{
				Party: party,
				Color: models.PartyColor(party),
				Wins:  h.Wins[party],
			}
		}

		entries[i] = models.SwingStateEntry{
			ConstituencyID:   h.ID,
			ConstituencyName: h.Name,
			Label:            label,
			Stability:        stability,
			DominantParty:    dominant,
			TermsCounted:     h.Terms,
			Breakdown:        breakdown,
		}
	}

	return entries, nil
}

// classifyHistory applies the stability rules in order. The rules are
// evaluated against N = the constituency's counted terms.
func classifyHistory(h constituencyHistory) (label, stability string, dominant *string) {
	maxWins := 0
	for _, party := range h.Parties {
		if h.Wins[party] > maxWins {
			maxWins = h.Wins[party]
		}
	}

	var tied []string
	for _, party := range h.Parties {
		if h.Wins[party] == maxWins {
			tied = append(tied, party)
		}
	}

	n := h.Terms
	switch {
	case maxWins == n:
		return models.LabelSolid, models.StabilityVeryHigh, &tied[0]
	case maxWins == n-1:
		return models.LabelLeaning, models.StabilityHigh, &tied[0]
	case maxWins == n/2 && len(tied) == 2:
		return models.LabelTossUp, models.StabilityLow, nil
	default:
		if len(tied) > 0 {
			return models.LabelCompetitive, models.StabilityModerate, &tied[0]
		}
		return models.LabelCompetitive, models.StabilityModerate, nil
	}
}

// loadHistories groups winners by constituency across the target terms.
// Rows are read ordered by (constituency, parliament) so grouping and
// party first-seen order are deterministic.
func loadHistories(conn *sql.DB, terms []int) ([]constituencyHistory, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(terms))
	args := make([]interface{}, len(terms))
	for i, term := range terms {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = term
	}

	rows, err := conn.Query(`
		SELECT constituency_id, constituency_name, winner_party
		FROM election_result
		WHERE parliament IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY constituency_id, parliament
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var histories []constituencyHistory
	byID := make(map[string]int)
	for rows.Next() {
		var id, name, winner string
		if err := rows.Scan(&id, &name, &winner); err != nil {
			return nil, err
		}

		idx, ok := byID[id]
		if !ok {
			idx = len(histories)
			byID[id] = idx
			histories = append(histories, constituencyHistory{
				ID:   id,
				Name: name,
				Wins: make(map[string]int),
			})
		}

		h := &histories[idx]
		if _, seen := h.Wins[winner]; !seen {
			h.Parties = append(h.Parties, winner)
		}
		h.Wins[winner]++
		h.Terms++
	}

	return histories, rows.Err()
}

// ComputeBlunder finds how many additional votes the runner-up party
// would have needed in its closest losing constituencies to close the
// seat gap with the leader for the given term.
func ComputeBlunder(conn *sql.DB, parliament int) (models.BlunderResponse, error) {
	resp := models.BlunderResponse{
		Parliament:     parliament,
		VotesPretty:    "0",
		Constituencies: []models.BlunderConstituency{},
	}

	seats, err := tallySeats(conn, parliament)
	if err != nil {
		return resp, fmt.Errorf("failed to tally seats: %w", err)
	}

	// Fewer than two parties: nothing to overtake, return a zeroed result
	if len(seats) < 2 {
		if len(seats) == 1 {
			resp.Leader = seats[0]
		}
		return resp, nil
	}

	resp.Leader = seats[0]
	resp.RunnerUp = seats[1]

	seatGap := resp.Leader.Seats - resp.RunnerUp.Seats
	if seatGap < 0 {
		seatGap = 0
	}
	resp.SeatGap = seatGap

	// Fetch a bounded pool of the runner-up's nearest misses, then
	// truncate to the number of seats actually needed (at least one so
	// a non-empty analysis is always attempted)
	fetchLimit := seatGap
	if fetchLimit < blunderFetchFloor {
		fetchLimit = blunderFetchFloor
	}
	take := seatGap
	if take < 1 {
		take = 1
	}

	rows, err := conn.Query(`
		SELECT r.id, r.constituency_id, r.constituency_name, r.winner_party,
		       r.difference, r.difference_pct, r.election_date
		FROM election_result r
		WHERE r.parliament = $1 AND r.winner_party <> $2
		  AND EXISTS (
			SELECT 1 FROM result_candidate c
			WHERE c.result_id = r.id AND c.party = $3
		  )
		ORDER BY r.difference ASC, r.constituency_id ASC
		LIMIT $4
	`, parliament, resp.RunnerUp.Party, resp.RunnerUp.Party, fetchLimit)
	if err != nil {
		return resp, err
	}
	defer rows.Close()

	type nearMiss struct {
		resultID string
		entry    models.BlunderConstituency
	}
	var pool []nearMiss
	for rows.Next() {
		var nm nearMiss
		if err := rows.Scan(&nm.resultID, &nm.entry.ConstituencyID, &nm.entry.ConstituencyName,
			&nm.entry.WinnerParty, &nm.entry.Difference, &nm.entry.DifferencePct, &nm.entry.ElectionDate); err != nil {
			return resp, err
		}
		pool = append(pool, nm)
	}
	if err := rows.Err(); err != nil {
		return resp, err
	}

	if len(pool) > take {
		pool = pool[:take]
	}

	total := 0
	for _, nm := range pool {
		candidates, err := loadResultCandidates(conn, nm.resultID)
		if err != nil {
			return resp, err
		}
		nm.entry.Candidates = candidates
		total += nm.entry.Difference
		resp.Constituencies = append(resp.Constituencies, nm.entry)
	}

	resp.TotalVotesNeeded = total
	resp.VotesPretty = humanize.Comma(int64(total))

	return resp, nil
}

// tallySeats counts seats per party for a term, most seats first.
// Ties break by party name so output is stable.
func tallySeats(conn *sql.DB, parliament int) ([]models.PartySeats, error) {
	rows, err := conn.Query(`
		SELECT winner_party, COUNT(*) AS seats
		FROM election_result
		WHERE parliament = $1
		GROUP BY winner_party
		ORDER BY seats DESC, winner_party ASC
	`, parliament)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []models.PartySeats
	for rows.Next() {
		var s models.PartySeats
		if err := rows.Scan(&s.Party, &s.Seats); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}

	return seats, rows.Err()
}

// loadResultCandidates retrieves the candidate list for one result row
func loadResultCandidates(conn *sql.DB, resultID string) ([]models.ResultCandidate, error) {
	rows, err := conn.Query(`
		SELECT name, party, votes
		FROM result_candidate
		WHERE result_id = $1
		ORDER BY votes DESC, name ASC
	`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.ResultCandidate{}
	for rows.Next() {
		var c models.ResultCandidate
		if err := rows.Scan(&c.Name, &c.Party, &c.Votes); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}
