package models

import "time"

// Stability labels for the swing-state classifier
const (
	LabelSolid       = "solid"
	LabelLeaning     = "leaning"
	LabelTossUp      = "toss_up"
	LabelCompetitive = "competitive"
)

// Stability tiers paired with the labels above
const (
	StabilityVeryHigh = "very_high"
	StabilityHigh     = "high"
	StabilityLow      = "low"
	StabilityModerate = "moderate"
)

// SwingTerms is the fixed set of parliamentary terms the swing-state
// classifier considers.
var SwingTerms = []int{5, 7, 8, 9}

// Request types

type CastVoteRequest struct {
	PollID        string `json:"poll_id"`
	QuestionIndex int    `json:"question_index"`
	OptionKey     string `json:"option_key"`
	Fingerprint   string `json:"fingerprint"`
}

type PopularityVoteRequest struct {
	Fingerprint    string `json:"fp"`
	CandidateName  string `json:"candidate_name"`
	ConstituencyID string `json:"constituency_id"`
}

type CreatePollRequest struct {
	ID        string                  `json:"id"`
	TitleEN   string                  `json:"title_en"`
	TitleBN   string                  `json:"title_bn"`
	Questions []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	TextEN  string                `json:"text_en"`
	TextBN  string                `json:"text_bn"`
	Options []CreateOptionRequest `json:"options"`
}

type CreateOptionRequest struct {
	Key     string `json:"key"`
	LabelEN string `json:"label_en"`
	LabelBN string `json:"label_bn"`
}

type CreatePostRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	Author   string `json:"author"`
}

type CreateConstituencyRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Division string `json:"division"`
}

type AddCandidateRequest struct {
	Name   string `json:"name"`
	Party  string `json:"party"`
	Symbol string `json:"symbol"`
}

type CreateResultRequest struct {
	ConstituencyID   string            `json:"constituency_id"`
	ConstituencyName string            `json:"constituency_name"`
	Parliament       int               `json:"parliament"`
	WinnerParty      string            `json:"winner_party"`
	Difference       int               `json:"difference"`
	DifferencePct    float64           `json:"difference_pct"`
	ElectionDate     string            `json:"election_date"`
	Candidates       []ResultCandidate `json:"candidates"`
}

// Response types

type CastVoteResponse struct {
	Message string `json:"message"`
	Poll    Poll   `json:"poll"`
}

type PopularityVoteResponse struct {
	CandidateName string `json:"candidate_name"`
	Popularity    int    `json:"popularity"`
	Message       string `json:"message"`
}

type PopularityStatusResponse struct {
	Voted bool `json:"voted"`
}

type CreatePollResponse struct {
	PollID string `json:"poll_id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Content      string    `json:"content"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	PublishedAgo string    `json:"published_ago,omitempty"`
}

type Constituency struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Division string `json:"division"`
}

type Candidate struct {
	ID             string  `json:"id"`
	ConstituencyID string  `json:"constituency_id"`
	Name           string  `json:"name"`
	Party          string  `json:"party"`
	Symbol         *string `json:"symbol,omitempty"`
	Popularity     int     `json:"popularity"`
}

type ConstituencyWithCandidates struct {
	Constituency Constituency `json:"constituency"`
	Candidates   []Candidate  `json:"candidates"`
}

type Poll struct {
	ID          string     `json:"id"`
	TitleEN     string     `json:"title_en"`
	TitleBN     string     `json:"title_bn"`
	Questions   []Question `json:"questions"`
	TotalVotes  int        `json:"total_votes"`
	VotesPretty string     `json:"total_votes_display"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Question struct {
	Index   int      `json:"index"`
	TextEN  string   `json:"text_en"`
	TextBN  string   `json:"text_bn"`
	Options []Option `json:"options"`
}

type Option struct {
	Key     string `json:"key"`
	LabelEN string `json:"label_en"`
	LabelBN string `json:"label_bn"`
	Votes   int    `json:"votes"`
}

type Vote struct {
	ID            string    `json:"id"`
	PollID        string    `json:"poll_id"`
	QuestionIndex int       `json:"question_index"`
	OptionKey     string    `json:"option_key"`
	IPHash        string    `json:"-"` // Never expose in JSON
	Fingerprint   string    `json:"-"` // Never expose in JSON
	CreatedAt     time.Time `json:"created_at"`
}

type ElectionResult struct {
	ID               string            `json:"id"`
	ConstituencyID   string            `json:"constituency_id"`
	ConstituencyName string            `json:"constituency_name"`
	Parliament       int               `json:"parliament"`
	WinnerParty      string            `json:"winner_party"`
	Difference       int               `json:"difference"`
	DifferencePct    float64           `json:"difference_pct"`
	ElectionDate     string            `json:"election_date"`
	Candidates       []ResultCandidate `json:"candidates,omitempty"`
}

type ResultCandidate struct {
	Name  string `json:"name"`
	Party string `json:"party"`
	Votes int    `json:"votes"`
}

// Analytics types

type PartyWins struct {
	Party string `json:"party"`
	Color string `json:"color"`
	Wins  int    `json:"wins"`
}

type SwingStateEntry struct {
	ConstituencyID   string      `json:"constituency_id"`
	ConstituencyName string      `json:"constituency_name"`
	Label            string      `json:"label"`
	Stability        string      `json:"stability"`
	DominantParty    *string     `json:"dominant_party"`
	TermsCounted     int         `json:"terms_counted"`
	Breakdown        []PartyWins `json:"breakdown"`
}

type PartySeats struct {
	Party string `json:"party"`
	Seats int    `json:"seats"`
}

type BlunderConstituency struct {
	ConstituencyID   string            `json:"constituency_id"`
	ConstituencyName string            `json:"constituency_name"`
	WinnerParty      string            `json:"winner_party"`
	Difference       int               `json:"difference"`
	DifferencePct    float64           `json:"difference_pct"`
	ElectionDate     string            `json:"election_date"`
	Candidates       []ResultCandidate `json:"candidates"`
}

type BlunderResponse struct {
	Parliament       int                   `json:"parliament"`
	Leader           PartySeats            `json:"leader"`
	RunnerUp         PartySeats            `json:"runner_up"`
	SeatGap          int                   `json:"seat_gap"`
	TotalVotesNeeded int                   `json:"total_votes_needed"`
	VotesPretty      string                `json:"total_votes_needed_display"`
	Constituencies   []BlunderConstituency `json:"constituencies"`
}

type PartySeatShare struct {
	Party string  `json:"party"`
	Color string  `json:"color"`
	Seats int     `json:"seats"`
	Share float64 `json:"share"`
}

type ParliamentResponse struct {
	Parliament int              `json:"parliament"`
	TotalSeats int              `json:"total_seats"`
	Parties    []PartySeatShare `json:"parties"`
}
