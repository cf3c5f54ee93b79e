// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rijeet/Election-sub001/auth"
	"github.com/rijeet/Election-sub001/cliparse"
	"github.com/rijeet/Election-sub001/db"
	"github.com/rijeet/Election-sub001/middleware"
	"github.com/rijeet/Election-sub001/models"
)

const duplicateVoteMessage = "You have already voted"

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(conn *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: conn, cfg: cfg}
}

// CastVote handles POST /poll/vote
//
// Identity is the salted hash of the client IP plus the device
// fingerprint. The SELECT pre-check is only a fast path: the final
// arbiter is the pair of UNIQUE constraints on the vote table, so two
// concurrent submissions from the same identity can never both commit.
// The vote row is inserted before the counter increment within one
// transaction; a duplicate-key failure aborts before any counter
// mutation.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}
	if req.QuestionIndex < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_index must not be negative")
		return
	}
	if req.OptionKey == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_key is required")
		return
	}

	fingerprint, err := auth.NormalizeFingerprint(req.Fingerprint)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fingerprint is required")
		return
	}

	clientIP := middleware.GetClientIP(r)
	ipHash := auth.HashIP(clientIP, h.cfg.IdentitySalt)

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Poll must exist
	var pollExists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM poll WHERE id = $1)
	`, req.PollID).Scan(&pollExists)
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !pollExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	// Question index must address an existing question
	var questionExists bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM poll_question
			WHERE poll_id = $1 AND question_idx = $2
		)
	`, req.PollID, req.QuestionIndex).Scan(&questionExists)
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !questionExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}

	// Option key must match one of the question's options
	var optionExists bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM poll_option
			WHERE poll_id = $1 AND question_idx = $2 AND opt_key = $3
		)
	`, req.PollID, req.QuestionIndex, req.OptionKey).Scan(&optionExists)
	if err != nil {
		slog.Error("failed to query option", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !optionExists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid option_key: "+req.OptionKey)
		return
	}

	// Fast-path duplicate check; racy on its own, see the UNIQUE
	// constraints for the authoritative answer
	var alreadyVoted bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM vote
			WHERE poll_id = $1 AND question_idx = $2
			  AND (ip_hash = $3 OR fingerprint = $4)
		)
	`, req.PollID, req.QuestionIndex, ipHash, fingerprint).Scan(&alreadyVoted)
	if err != nil {
		slog.Error("failed to query existing votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if alreadyVoted {
		middleware.ErrorResponse(w, http.StatusConflict, duplicateVoteMessage)
		return
	}

	// Audit row first, counter second: a crash in between leaves a vote
	// without a count, never a count without a vote
	voteID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO vote (id, poll_id, question_idx, opt_key, ip_hash, fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, voteID, req.PollID, req.QuestionIndex, req.OptionKey, ipHash, fingerprint, time.Now())

	if err != nil {
		if db.IsUniqueViolation(err) {
			// Lost the race to a concurrent submission from the same
			// identity; identical outcome to the pre-check hit
			middleware.ErrorResponse(w, http.StatusConflict, duplicateVoteMessage)
			return
		}
		slog.Error("failed to insert vote", "error", err, "poll_id", req.PollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	_, err = tx.Exec(`
		UPDATE poll_option
		SET votes = votes + 1
		WHERE poll_id = $1 AND question_idx = $2 AND opt_key = $3
	`, req.PollID, req.QuestionIndex, req.OptionKey)
	if err != nil {
		slog.Error("failed to increment option counter", "error", err, "poll_id", req.PollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote recorded", "poll_id", req.PollID, "question_idx", req.QuestionIndex, "opt_key", req.OptionKey)

	poll, err := getPollAggregate(h.db, req.PollID)
	if err != nil {
		slog.Error("failed to load poll aggregate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Message: "Vote recorded",
		Poll:    poll,
	})
}

// CastPopularityVote handles POST /popularity-vote
//
// One popularity vote per device per candidate, independent of poll or
// constituency identity. The popularity counter is incremented with a
// single atomic UPDATE scoped by (constituency, candidate), never
// fetch-then-save.
func (h *VotingHandler) CastPopularityVote(w http.ResponseWriter, r *http.Request) {
	var req models.PopularityVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CandidateName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_name is required")
		return
	}
	if req.ConstituencyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "constituency_id is required")
		return
	}

	fingerprint, err := auth.NormalizeFingerprint(req.Fingerprint)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fp is required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var constituencyExists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM constituency WHERE id = $1)
	`, req.ConstituencyID).Scan(&constituencyExists)
	if err != nil {
		slog.Error("failed to query constituency", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !constituencyExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Constituency not found")
		return
	}

	var candidateExists bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM candidate
			WHERE constituency_id = $1 AND name = $2
		)
	`, req.ConstituencyID, req.CandidateName).Scan(&candidateExists)
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !candidateExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	// Fast path only; the UNIQUE constraint decides races
	var alreadyVoted bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM popularity_vote
			WHERE fingerprint = $1 AND candidate_name = $2
		)
	`, fingerprint, req.CandidateName).Scan(&alreadyVoted)
	if err != nil {
		slog.Error("failed to query popularity log", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if alreadyVoted {
		middleware.ErrorResponse(w, http.StatusConflict, duplicateVoteMessage)
		return
	}

	_, err = tx.Exec(`
		INSERT INTO popularity_vote (fingerprint, constituency_id, candidate_name, created_at)
		VALUES ($1, $2, $3, $4)
	`, fingerprint, req.ConstituencyID, req.CandidateName, time.Now())

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, duplicateVoteMessage)
			return
		}
		slog.Error("failed to insert popularity vote", "error", err, "candidate", req.CandidateName)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	_, err = tx.Exec(`
		UPDATE candidate
		SET popularity = popularity + 1
		WHERE constituency_id = $1 AND name = $2
	`, req.ConstituencyID, req.CandidateName)
	if err != nil {
		slog.Error("failed to increment popularity", "error", err, "candidate", req.CandidateName)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	var popularity int
	err = tx.QueryRow(`
		SELECT popularity FROM candidate
		WHERE constituency_id = $1 AND name = $2
	`, req.ConstituencyID, req.CandidateName).Scan(&popularity)
	if err != nil {
		slog.Error("failed to read popularity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("popularity vote recorded", "candidate", req.CandidateName, "constituency", req.ConstituencyID)

	middleware.JSONResponse(w, http.StatusOK, models.PopularityVoteResponse{
		CandidateName: req.CandidateName,
		Popularity:    popularity,
		Message:       "Vote recorded",
	})
}

// GetPopularityStatus handles GET /popularity-vote?fp=&candidate_name=
// Reports whether the given identity already voted for the candidate
func (h *VotingHandler) GetPopularityStatus(w http.ResponseWriter, r *http.Request) {
	candidateName := r.URL.Query().Get("candidate_name")
	if candidateName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_name is required")
		return
	}

	fingerprint, err := auth.NormalizeFingerprint(r.URL.Query().Get("fp"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fp is required")
		return
	}

	var voted bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM popularity_vote
			WHERE fingerprint = $1 AND candidate_name = $2
		)
	`, fingerprint, candidateName).Scan(&voted)
	if err != nil {
		slog.Error("failed to query popularity log", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PopularityStatusResponse{Voted: voted})
}
