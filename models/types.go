package models

import "time"

// User roles
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleVoter      = "voter"
)

// Account status constants
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// DefaultMinAge applies when a poll is created without a min_age.
const DefaultMinAge = 18

// Request types

type SignUpRequest struct {
	NationalID string `json:"national_id"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Age        *int   `json:"age"`
	Role       string `json:"role"`
}

type SignInRequest struct {
	NationalID string `json:"national_id"`
	Password   string `json:"password"`
}

// min_age omitted -> DefaultMinAge, 0 -> no threshold
type CreatePollRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EndDate     time.Time `json:"end_date"`
	MinAge      *int      `json:"min_age"`
}

// Nil fields are left unchanged. MinAge 0 clears the threshold.
type UpdatePollRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	EndDate     *time.Time `json:"end_date"`
	MinAge      *int       `json:"min_age"`
	IsActive    *bool      `json:"is_active"`
}

type CreateCandidateRequest struct {
	Name        string  `json:"name"`
	Party       string  `json:"party"`
	PhotoURL    *string `json:"photo_url"`
	Age         *int    `json:"age"`
	Description *string `json:"description"`
}

type CastVoteRequest struct {
	PollID      string `json:"pollId"`
	CandidateID string `json:"candidateId"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}

// Response types

type SignInResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CastVoteResponse struct {
	Ballot
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	NationalID   string    `json:"national_id"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Poll struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatorName string    `json:"creator_name,omitempty"`
	EndDate     time.Time `json:"end_date"`
	MinAge      *int      `json:"min_age"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PollListItem is a poll as shown in GET /api/polls.
type PollListItem struct {
	Poll
	Closes   string `json:"closes"`             // humanized end date, e.g. "3 days from now"
	HasVoted *bool  `json:"has_voted,omitempty"` // voters only
}

type Candidate struct {
	ID          string    `json:"id"`
	PollID      string    `json:"poll_id"`
	Position    int       `json:"position"` // 1-indexed insertion order within the poll
	Name        string    `json:"name"`
	Party       string    `json:"party"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	Age         *int      `json:"age,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Ballot struct {
	ID          string    `json:"id"`
	PollID      string    `json:"poll_id"`
	CandidateID string    `json:"candidate_id"`
	UserID      string    `json:"user_id"`
	CastAt      time.Time `json:"cast_at"`
}

// MyVote is one entry of GET /api/votes/my-votes. The candidate is not
// echoed back.
type MyVote struct {
	PollID string    `json:"poll_id"`
	CastAt time.Time `json:"cast_at"`
}

// TallyRow is the vote count of one candidate in a poll.
type TallyRow struct {
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	Count         int    `json:"count"`
	Position      int    `json:"-"`
}

// Error response

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}
