// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/rijeet/Election-sub001/cliparse"
	"github.com/rijeet/Election-sub001/middleware"
	"github.com/rijeet/Election-sub001/models"
)

type ContentHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewContentHandler(conn *sql.DB, cfg cliparse.Config) *ContentHandler {
	return &ContentHandler{db: conn, cfg: cfg}
}

// ListPosts handles GET /posts?category=
// Newest first; optional category filter
func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var rows *sql.Rows
	var err error
	if category != "" {
		rows, err = h.db.Query(`
			SELECT id, title, category, content, image_url, author, created_at, updated_at
			FROM post
			WHERE category = $1
			ORDER BY created_at DESC
		`, category)
	} else {
		rows, err = h.db.Query(`
			SELECT id, title, category, content, image_url, author, created_at, updated_at
			FROM post
			ORDER BY created_at DESC
		`)
	}
	if err != nil {
		slog.Error("failed to query posts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Category, &p.Content, &p.ImageURL, &p.Author, &p.CreatedAt, &p.UpdatedAt); err != nil {
			slog.Error("failed to scan post", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		p.PublishedAgo = humanize.Time(p.CreatedAt)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate posts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, posts)
}

// GetPost handles GET /posts/:id
func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")
	if postID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "post id is required")
		return
	}

	var p models.Post
	err := h.db.QueryRow(`
		SELECT id, title, category, content, image_url, author, created_at, updated_at
		FROM post
		WHERE id = $1
	`, postID).Scan(&p.ID, &p.Title, &p.Category, &p.Content, &p.ImageURL, &p.Author, &p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		slog.Error("failed to query post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	p.PublishedAgo = humanize.Time(p.CreatedAt)
	middleware.JSONResponse(w, http.StatusOK, p)
}

// CreatePost handles POST /posts (admin)
func (h *ContentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" || req.Content == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and content are required")
		return
	}
	if req.Category == "" {
		req.Category = "news"
	}
	if req.Author == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "author is required")
		return
	}

	postID := uuid.NewString()
	now := time.Now()

	var imageURL *string
	if req.ImageURL != "" {
		imageURL = &req.ImageURL
	}

	_, err := h.db.Exec(`
		INSERT INTO post (id, title, category, content, image_url, author, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, postID, req.Title, req.Category, req.Content, imageURL, req.Author, now, now)

	if err != nil {
		slog.Error("failed to insert post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	slog.Info("post created", "post_id", postID, "category", req.Category)

	middleware.JSONResponse(w, http.StatusCreated, map[string]string{"post_id": postID})
}

// UpdatePost handles PUT /posts/:id (admin)
func (h *ContentHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")
	if postID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "post id is required")
		return
	}

	var req models.CreatePostRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" || req.Content == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and content are required")
		return
	}

	var imageURL *string
	if req.ImageURL != "" {
		imageURL = &req.ImageURL
	}

	res, err := h.db.Exec(`
		UPDATE post
		SET title = $1, category = $2, content = $3, image_url = $4, updated_at = $5
		WHERE id = $6
	`, req.Title, req.Category, req.Content, imageURL, time.Now(), postID)

	if err != nil {
		slog.Error("failed to update post", "error", err, "post_id", postID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}

	slog.Info("post updated", "post_id", postID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"post_id": postID})
}

// DeletePost handles DELETE /posts/:id (admin)
func (h *ContentHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")
	if postID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "post id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM post WHERE id = $1`, postID)
	if err != nil {
		slog.Error("failed to delete post", "error", err, "post_id", postID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}

	slog.Info("post deleted", "post_id", postID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"post_id": postID})
}
