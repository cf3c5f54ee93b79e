// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/rijeet/Election-sub001/cliparse"
	"github.com/rijeet/Election-sub001/db"
	"github.com/rijeet/Election-sub001/middleware"
	"github.com/rijeet/Election-sub001/models"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(conn *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: conn, cfg: cfg}
}

// ListConstituencies handles GET /constituencies
func (h *ElectionHandler) ListConstituencies(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, division
		FROM constituency
		ORDER BY id
	`)
	if err != nil {
		slog.Error("failed to query constituencies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	constituencies := []models.Constituency{}
	for rows.Next() {
		var c models.Constituency
		if err := rows.Scan(&c.ID, &c.Name, &c.Division); err != nil {
			slog.Error("failed to scan constituency", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		constituencies = append(constituencies, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate constituencies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, constituencies)
}

// GetConstituency handles GET /constituencies/:id
// Returns the constituency with its candidates
func (h *ElectionHandler) GetConstituency(w http.ResponseWriter, r *http.Request) {
	constituencyID := r.PathValue("id")
	if constituencyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "constituency id is required")
		return
	}

	var c models.Constituency
	err := h.db.QueryRow(`
		SELECT id, name, division
		FROM constituency
		WHERE id = $1
	`, constituencyID).Scan(&c.ID, &c.Name, &c.Division)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Constituency not found")
		return
	}
	if err != nil {
		slog.Error("failed to query constituency", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, constituency_id, name, party, symbol, popularity
		FROM candidate
		WHERE constituency_id = $1
		ORDER BY name
	`, constituencyID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var cand models.Candidate
		if err := rows.Scan(&cand.ID, &cand.ConstituencyID, &cand.Name, &cand.Party, &cand.Symbol, &cand.Popularity); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, cand)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ConstituencyWithCandidates{
		Constituency: c,
		Candidates:   candidates,
	})
}

// CreateConstituency handles POST /constituencies (admin)
func (h *ElectionHandler) CreateConstituency(w http.ResponseWriter, r *http.Request) {
	var req models.CreateConstituencyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ID == "" || req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id and name are required")
		return
	}

	_, err := h.db.Exec(`
		INSERT INTO constituency (id, name, division)
		VALUES ($1, $2, $3)
	`, req.ID, req.Name, req.Division)

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Constituency already exists")
			return
		}
		slog.Error("failed to insert constituency", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create constituency")
		return
	}

	slog.Info("constituency created", "constituency_id", req.ID)

	middleware.JSONResponse(w, http.StatusCreated, map[string]string{"constituency_id": req.ID})
}

// UpdateConstituency handles PUT /constituencies/:id (admin)
func (h *ElectionHandler) UpdateConstituency(w http.ResponseWriter, r *http.Request) {
	constituencyID := r.PathValue("id")
	if constituencyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "constituency id is required")
		return
	}

	var req models.CreateConstituencyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	res, err := h.db.Exec(`
		UPDATE constituency
		SET name = $1, division = $2
		WHERE id = $3
	`, req.Name, req.Division, constituencyID)

	if err != nil {
		slog.Error("failed to update constituency", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update constituency")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Constituency not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"constituency_id": constituencyID})
}

// DeleteConstituency handles DELETE /constituencies/:id (admin)
func (h *ElectionHandler) DeleteConstituency(w http.ResponseWriter, r *http.Request) {
	constituencyID := r.PathValue("id")
	if constituencyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "constituency id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM constituency WHERE id = $1`, constituencyID)
	if err != nil {
		slog.Error("failed to delete constituency", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete constituency")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Constituency not found")
		return
	}

	slog.Info("constituency deleted", "constituency_id", constituencyID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"constituency_id": constituencyID})
}

// AddCandidate handles POST /constituencies/:id/candidates (admin)
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	constituencyID := r.PathValue("id")
	if constituencyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "constituency id is required")
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.Party == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and party are required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM constituency WHERE id = $1)
	`, constituencyID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query constituency", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Constituency not found")
		return
	}

	candidateID := uuid.NewString()
	var symbol *string
	if req.Symbol != "" {
		symbol = &req.Symbol
	}

	_, err = h.db.Exec(`
		INSERT INTO candidate (id, constituency_id, name, party, symbol, popularity)
		VALUES ($1, $2, $3, $4, $5, 0)
	`, candidateID, constituencyID, req.Name, req.Party, symbol)

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Candidate already exists in this constituency")
			return
		}
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	slog.Info("candidate added", "constituency_id", constituencyID, "candidate", req.Name)

	middleware.JSONResponse(w, http.StatusCreated, map[string]string{"candidate_id": candidateID})
}

// DeleteCandidate handles DELETE /constituencies/:id/candidates/:name (admin)
func (h *ElectionHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	constituencyID := r.PathValue("id")
	candidateName := r.PathValue("name")
	if constituencyID == "" || candidateName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "constituency id and candidate name are required")
		return
	}

	res, err := h.db.Exec(`
		DELETE FROM candidate
		WHERE constituency_id = $1 AND name = $2
	`, constituencyID, candidateName)
	if err != nil {
		slog.Error("failed to delete candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	slog.Info("candidate deleted", "constituency_id", constituencyID, "candidate", candidateName)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"candidate": candidateName})
}

// ListResults handles GET /results?parliament=<term>
func (h *ElectionHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	parliament, err := strconv.Atoi(r.URL.Query().Get("parliament"))
	if err != nil || parliament <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "parliament must be a positive integer")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, constituency_id, constituency_name, parliament, winner_party,
		       difference, difference_pct, election_date
		FROM election_result
		WHERE parliament = $1
		ORDER BY constituency_id
	`, parliament)
	if err != nil {
		slog.Error("failed to query results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	results := []models.ElectionResult{}
	for rows.Next() {
		var res models.ElectionResult
		if err := rows.Scan(&res.ID, &res.ConstituencyID, &res.ConstituencyName, &res.Parliament,
			&res.WinnerParty, &res.Difference, &res.DifferencePct, &res.ElectionDate); err != nil {
			slog.Error("failed to scan result", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Attach candidate lists
	for i := range results {
		candidates, err := loadResultCandidates(h.db, results[i].ID)
		if err != nil {
			slog.Error("failed to query result candidates", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		results[i].Candidates = candidates
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// CreateResult handles POST /results (admin)
// Seeds one historical outcome; results are write-once
func (h *ElectionHandler) CreateResult(w http.ResponseWriter, r *http.Request) {
	var req models.CreateResultRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ConstituencyID == "" || req.ConstituencyName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "constituency_id and constituency_name are required")
		return
	}
	if req.Parliament <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "parliament must be a positive integer")
		return
	}
	if req.WinnerParty == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "winner_party is required")
		return
	}
	if req.Difference < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "difference must not be negative")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	resultID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO election_result (id, constituency_id, constituency_name, parliament, winner_party, difference, difference_pct, election_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, resultID, req.ConstituencyID, req.ConstituencyName, req.Parliament, req.WinnerParty, req.Difference, req.DifferencePct, req.ElectionDate)

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Result already recorded for this constituency and parliament")
			return
		}
		slog.Error("failed to insert result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create result")
		return
	}

	for _, c := range req.Candidates {
		_, err = tx.Exec(`
			INSERT INTO result_candidate (result_id, name, party, votes)
			VALUES ($1, $2, $3, $4)
		`, resultID, c.Name, c.Party, c.Votes)
		if err != nil {
			slog.Error("failed to insert result candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create result")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create result")
		return
	}

	slog.Info("result recorded", "result_id", resultID, "constituency_id", req.ConstituencyID, "parliament", req.Parliament)

	middleware.JSONResponse(w, http.StatusCreated, map[string]string{"result_id": resultID})
}
