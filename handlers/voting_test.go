package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rijeet/Election-sub001/models"
	"github.com/rijeet/Election-sub001/testutil"
)

func TestCastVote(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cfg := getTestConfig()
	handler := NewVotingHandler(db, cfg)
	pollID := testutil.CreateTestPoll(t, db)

	tests := []struct {
		name           string
		body           interface{}
		ip             string
		expectedStatus int
	}{
		{
			name: "valid vote",
			body: models.CastVoteRequest{
				PollID:        pollID,
				QuestionIndex: 0,
				OptionKey:     "yes",
				Fingerprint:   "device-fp-0001",
			},
			ip:             "1.2.3.4",
			expectedStatus: http.StatusOK,
		},
		{
			name: "poll not found",
			body: models.CastVoteRequest{
				PollID:        "no-such-poll",
				QuestionIndex: 0,
				OptionKey:     "yes",
				Fingerprint:   "device-fp-0002",
			},
			ip:             "1.2.3.5",
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "question not found",
			body: models.CastVoteRequest{
				PollID:        pollID,
				QuestionIndex: 7,
				OptionKey:     "yes",
				Fingerprint:   "device-fp-0003",
			},
			ip:             "1.2.3.6",
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "invalid option key",
			body: models.CastVoteRequest{
				PollID:        pollID,
				QuestionIndex: 0,
				OptionKey:     "maybe",
				Fingerprint:   "device-fp-0004",
			},
			ip:             "1.2.3.7",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing fingerprint",
			body: models.CastVoteRequest{
				PollID:        pollID,
				QuestionIndex: 0,
				OptionKey:     "yes",
			},
			ip:             "1.2.3.8",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "negative question index",
			body: models.CastVoteRequest{
				PollID:        pollID,
				QuestionIndex: -1,
				OptionKey:     "yes",
				Fingerprint:   "device-fp-0005",
			},
			ip:             "1.2.3.9",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/poll/vote", tt.body, map[string]string{
				"X-Forwarded-For": tt.ip,
			})
			w := httptest.NewRecorder()

			handler.CastVote(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestCastVote_IncrementsCounterAndReturnsAggregate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cfg := getTestConfig()
	handler := NewVotingHandler(db, cfg)
	pollID := testutil.CreateTestPoll(t, db)

	req := testutil.MakeRequest("POST", "/poll/vote", models.CastVoteRequest{
		PollID:        pollID,
		QuestionIndex: 0,
		OptionKey:     "yes",
		Fingerprint:   "device-fp-1000",
	}, map[string]string{"X-Forwarded-For": "9.9.9.9"})
	w := httptest.NewRecorder()

	handler.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Poll.ID != pollID {
		t.Errorf("expected poll %s in response, got %s", pollID, resp.Poll.ID)
	}
	if resp.Poll.TotalVotes != 1 {
		t.Errorf("expected total_votes 1, got %d", resp.Poll.TotalVotes)
	}
	for _, opt := range resp.Poll.Questions[0].Options {
		want := 0
		if opt.Key == "yes" {
			want = 1
		}
		if opt.Votes != want {
			t.Errorf("option %s: expected %d votes, got %d", opt.Key, want, opt.Votes)
		}
	}

	// Audit row exists
	var votes int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1`, pollID).Scan(&votes); err != nil {
		t.Fatalf("failed to count votes: %v", err)
	}
	if votes != 1 {
		t.Errorf("expected 1 vote row, got %d", votes)
	}
}

// Property: repeated identical submissions always resolve to 409 after
// the first acceptance, and the counter never moves again.
func TestCastVote_DuplicateIdentity(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cfg := getTestConfig()
	handler := NewVotingHandler(db, cfg)
	pollID := testutil.CreateTestPoll(t, db)

	cast := func(ip, fp string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/poll/vote", models.CastVoteRequest{
			PollID:        pollID,
			QuestionIndex: 0,
			OptionKey:     "yes",
			Fingerprint:   fp,
		}, map[string]string{"X-Forwarded-For": ip})
		w := httptest.NewRecorder()
		handler.CastVote(w, req)
		return w
	}

	// First submission succeeds
	testutil.AssertStatus(t, cast("1.2.3.4", "device-abc-123"), http.StatusOK)

	// Exact repeat is a duplicate
	testutil.AssertStatus(t, cast("1.2.3.4", "device-abc-123"), http.StatusConflict)

	// Same IP, fresh fingerprint: still a duplicate
	testutil.AssertStatus(t, cast("1.2.3.4", "device-xyz-789"), http.StatusConflict)

	// Same fingerprint, fresh IP: still a duplicate
	testutil.AssertStatus(t, cast("5.6.7.8", "device-abc-123"), http.StatusConflict)

	// Fresh identity on both axes succeeds
	testutil.AssertStatus(t, cast("5.6.7.8", "device-new-456"), http.StatusOK)

	// Counter matches accepted votes only
	var votes int
	if err := db.QueryRow(`
		SELECT votes FROM poll_option
		WHERE poll_id = $1 AND question_idx = 0 AND opt_key = 'yes'
	`, pollID).Scan(&votes); err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	if votes != 2 {
		t.Errorf("expected counter 2 after 2 accepted votes, got %d", votes)
	}
}

// Property: an option's counter equals the count of accepted vote rows
// referencing it.
func TestCastVote_CounterConsistency(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cfg := getTestConfig()
	handler := NewVotingHandler(db, cfg)
	pollID := testutil.CreateTestPoll(t, db)

	identities := []struct{ ip, fp, key string }{
		{"10.0.0.1", "voter-fp-00001", "yes"},
		{"10.0.0.2", "voter-fp-00002", "yes"},
		{"10.0.0.3", "voter-fp-00003", "no"},
		{"10.0.0.4", "voter-fp-00004", "yes"},
		{"10.0.0.4", "voter-fp-00004", "yes"}, // duplicate, rejected
	}

	for _, id := range identities {
		req := testutil.MakeRequest("POST", "/poll/vote", models.CastVoteRequest{
			PollID:        pollID,
			QuestionIndex: 0,
			OptionKey:     id.key,
			Fingerprint:   id.fp,
		}, map[string]string{"X-Forwarded-For": id.ip})
		handler.CastVote(httptest.NewRecorder(), req)
	}

	for _, key := range []string{"yes", "no"} {
		var counter, rows int
		if err := db.QueryRow(`
			SELECT votes FROM poll_option
			WHERE poll_id = $1 AND question_idx = 0 AND opt_key = $2
		`, pollID, key).Scan(&counter); err != nil {
			t.Fatalf("failed to read counter: %v", err)
		}
		if err := db.QueryRow(`
			SELECT COUNT(*) FROM vote
			WHERE poll_id = $1 AND question_idx = 0 AND opt_key = $2
		`, pollID, key).Scan(&rows); err != nil {
			t.Fatalf("failed to count votes: %v", err)
		}
		if counter != rows {
			t.Errorf("option %s: counter %d != vote rows %d", key, counter, rows)
		}
	}
}

func TestCastPopularityVote(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cfg := getTestConfig()
	handler := NewVotingHandler(db, cfg)

	constituencyID := testutil.CreateTestConstituency(t, db, "dhaka-10", "Dhaka-10")
	testutil.AddTestCandidate(t, db, constituencyID, "Rahim Uddin", "Awami League")

	vote := func(fp, candidate, constituency string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/popularity-vote", models.PopularityVoteRequest{
			Fingerprint:    fp,
			CandidateName:  candidate,
			ConstituencyID: constituency,
		}, nil)
		w := httptest.NewRecorder()
		handler.CastPopularityVote(w, req)
		return w
	}

	// First vote succeeds and reports the new counter
	w := vote("device-fp-aaaa", "Rahim Uddin", constituencyID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PopularityVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Popularity != 1 {
		t.Errorf("expected popularity 1, got %d", resp.Popularity)
	}

	// Same device again: duplicate, counter unchanged
	testutil.AssertStatus(t, vote("device-fp-aaaa", "Rahim Uddin", constituencyID), http.StatusConflict)

	var popularity int
	if err := db.QueryRow(`
		SELECT popularity FROM candidate
		WHERE constituency_id = $1 AND name = $2
	`, constituencyID, "Rahim Uddin").Scan(&popularity); err != nil {
		t.Fatalf("failed to read popularity: %v", err)
	}
	if popularity != 1 {
		t.Errorf("expected popularity 1 after duplicate, got %d", popularity)
	}

	// Different device succeeds
	w = vote("device-fp-bbbb", "Rahim Uddin", constituencyID)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &resp)
	if resp.Popularity != 2 {
		t.Errorf("expected popularity 2, got %d", resp.Popularity)
	}

	// Unknown candidate and constituency
	testutil.AssertStatus(t, vote("device-fp-cccc", "Nobody", constituencyID), http.StatusNotFound)
	testutil.AssertStatus(t, vote("device-fp-cccc", "Rahim Uddin", "no-such-district"), http.StatusNotFound)
}

func TestGetPopularityStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cfg := getTestConfig()
	handler := NewVotingHandler(db, cfg)

	constituencyID := testutil.CreateTestConstituency(t, db, "dhaka-11", "Dhaka-11")
	testutil.AddTestCandidate(t, db, constituencyID, "Karim Mia", "BNP")

	check := func(fp, candidate string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/popularity-vote?fp="+fp+"&candidate_name="+candidate, nil, nil)
		w := httptest.NewRecorder()
		handler.GetPopularityStatus(w, req)
		return w
	}

	// Not voted yet
	w := check("device-fp-dddd", "Karim+Mia")
	testutil.AssertStatus(t, w, http.StatusOK)
	var status models.PopularityStatusResponse
	testutil.AssertJSON(t, w, &status)
	if status.Voted {
		t.Error("expected voted=false before voting")
	}

	// Cast a vote, then the probe reflects it
	req := testutil.MakeRequest("POST", "/popularity-vote", models.PopularityVoteRequest{
		Fingerprint:    "device-fp-dddd",
		CandidateName:  "Karim Mia",
		ConstituencyID: constituencyID,
	}, nil)
	handler.CastPopularityVote(httptest.NewRecorder(), req)

	w = check("device-fp-dddd", "Karim+Mia")
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &status)
	if !status.Voted {
		t.Error("expected voted=true after voting")
	}

	// Missing params
	testutil.AssertStatus(t, check("", "Karim+Mia"), http.StatusBadRequest)
	testutil.AssertStatus(t, check("device-fp-dddd", ""), http.StatusBadRequest)
}
