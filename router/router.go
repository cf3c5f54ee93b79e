// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/rijeet/Election-sub001/cliparse"
	"github.com/rijeet/Election-sub001/handlers"
	"github.com/rijeet/Election-sub001/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(db, cfg)
	contentHandler := handlers.NewContentHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.AdminSalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting (public)
	mux.HandleFunc("POST /poll/vote", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("POST /popularity-vote", middleware.WithLogging(votingHandler.CastPopularityVote))
	mux.HandleFunc("GET /popularity-vote", middleware.WithLogging(votingHandler.GetPopularityStatus))

	// Analytics (public, read-only)
	mux.HandleFunc("GET /swing-state", middleware.WithLogging(analyticsHandler.SwingState))
	mux.HandleFunc("GET /blunder", middleware.WithLogging(analyticsHandler.Blunder))
	mux.HandleFunc("GET /parliament", middleware.WithLogging(analyticsHandler.Parliament))

	// Polls
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls", admin(pollHandler.CreatePoll))

	// Content
	mux.HandleFunc("GET /posts", middleware.WithLogging(contentHandler.ListPosts))
	mux.HandleFunc("GET /posts/{id}", middleware.WithLogging(contentHandler.GetPost))
	mux.HandleFunc("POST /posts", admin(contentHandler.CreatePost))
	mux.HandleFunc("PUT /posts/{id}", admin(contentHandler.UpdatePost))
	mux.HandleFunc("DELETE /posts/{id}", admin(contentHandler.DeletePost))

	// Election data
	mux.HandleFunc("GET /constituencies", middleware.WithLogging(electionHandler.ListConstituencies))
	mux.HandleFunc("GET /constituencies/{id}", middleware.WithLogging(electionHandler.GetConstituency))
	mux.HandleFunc("POST /constituencies", admin(electionHandler.CreateConstituency))
	mux.HandleFunc("PUT /constituencies/{id}", admin(electionHandler.UpdateConstituency))
	mux.HandleFunc("DELETE /constituencies/{id}", admin(electionHandler.DeleteConstituency))
	mux.HandleFunc("POST /constituencies/{id}/candidates", admin(electionHandler.AddCandidate))
	mux.HandleFunc("DELETE /constituencies/{id}/candidates/{name}", admin(electionHandler.DeleteCandidate))
	mux.HandleFunc("GET /results", middleware.WithLogging(electionHandler.ListResults))
	mux.HandleFunc("POST /results", admin(electionHandler.CreateResult))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("election API v1"))
	})

	return mux
}
