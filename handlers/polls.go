// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/rijeet/Election-sub001/cliparse"
	"github.com/rijeet/Election-sub001/db"
	"github.com/rijeet/Election-sub001/middleware"
	"github.com/rijeet/Election-sub001/models"
)

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(conn *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: conn, cfg: cfg}
}

// GetPoll handles GET /polls/:id
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := getPollAggregate(h.db, pollID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll aggregate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// CreatePoll handles POST /polls (admin)
// Seeds a poll with its full question/option tree; counters start at 0
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.TitleEN == "" || req.TitleBN == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title_en and title_bn are required")
		return
	}
	if len(req.Questions) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one question is required")
		return
	}
	for qi, q := range req.Questions {
		if q.TextEN == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "question text is required")
			return
		}
		if len(q.Options) < 2 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "each question needs at least 2 options")
			return
		}
		seen := make(map[string]bool)
		for _, opt := range q.Options {
			if opt.Key == "" || opt.LabelEN == "" {
				middleware.ErrorResponse(w, http.StatusBadRequest, "option key and label are required")
				return
			}
			if seen[opt.Key] {
				middleware.ErrorResponse(w, http.StatusBadRequest, "duplicate option key in question "+strconv.Itoa(qi))
				return
			}
			seen[opt.Key] = true
		}
	}

	pollID := req.ID
	if pollID == "" {
		pollID = uuid.NewString()
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, title_en, title_bn, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, req.TitleEN, req.TitleBN, time.Now())

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Poll already exists")
			return
		}
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	for qi, q := range req.Questions {
		_, err = tx.Exec(`
			INSERT INTO poll_question (poll_id, question_idx, text_en, text_bn)
			VALUES ($1, $2, $3, $4)
		`, pollID, qi, q.TextEN, q.TextBN)
		if err != nil {
			slog.Error("failed to insert question", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}

		for pi, opt := range q.Options {
			_, err = tx.Exec(`
				INSERT INTO poll_option (poll_id, question_idx, opt_key, label_en, label_bn, position, votes)
				VALUES ($1, $2, $3, $4, $5, $6, 0)
			`, pollID, qi, opt.Key, opt.LabelEN, opt.LabelBN, pi)
			if err != nil {
				slog.Error("failed to insert option", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "questions", len(req.Questions))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID: pollID,
	})
}

// getPollAggregate loads a poll with its questions, options, and vote
// counters. Returns sql.ErrNoRows when the poll does not exist.
func getPollAggregate(conn *sql.DB, pollID string) (models.Poll, error) {
	var poll models.Poll
	err := conn.QueryRow(`
		SELECT id, title_en, title_bn, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.TitleEN, &poll.TitleBN, &poll.CreatedAt)
	if err != nil {
		return models.Poll{}, err
	}

	qrows, err := conn.Query(`
		SELECT question_idx, text_en, text_bn
		FROM poll_question
		WHERE poll_id = $1
		ORDER BY question_idx
	`, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	defer qrows.Close()

	poll.Questions = []models.Question{}
	for qrows.Next() {
		var q models.Question
		if err := qrows.Scan(&q.Index, &q.TextEN, &q.TextBN); err != nil {
			return models.Poll{}, err
		}
		q.Options = []models.Option{}
		poll.Questions = append(poll.Questions, q)
	}
	if err := qrows.Err(); err != nil {
		return models.Poll{}, err
	}

	orows, err := conn.Query(`
		SELECT question_idx, opt_key, label_en, label_bn, votes
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY question_idx, position
	`, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	defer orows.Close()

	total := 0
	for orows.Next() {
		var idx int
		var opt models.Option
		if err := orows.Scan(&idx, &opt.Key, &opt.LabelEN, &opt.LabelBN, &opt.Votes); err != nil {
			return models.Poll{}, err
		}
		total += opt.Votes
		for i := range poll.Questions {
			if poll.Questions[i].Index == idx {
				poll.Questions[i].Options = append(poll.Questions[i].Options, opt)
				break
			}
		}
	}
	if err := orows.Err(); err != nil {
		return models.Poll{}, err
	}

	poll.TotalVotes = total
	poll.VotesPretty = humanize.Comma(int64(total))

	return poll, nil
}
