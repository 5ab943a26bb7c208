package models

import "time"

type EmailSummary struct {
	ID          int       `json:"id"`
	MessageID   string    `json:"message_id"`
	SummaryText string    `json:"summary_text"`
	Body        string    `json:"body"`
	Subject     *string   `json:"subject"`
	Sender      *string   `json:"sender"`
	ThreadID    *string   `json:"thread_id"`
	CreatedAt   time.Time `json:"created_at"`
	User        int       `json:"user"`
}

type SmartReply struct {
	ID           int    `json:"id"`
	EmailSummary int    `json:"email_summary"`
	ReplyText    string `json:"reply_text"`
}

type MeetingTranscript struct {
	ID           int       `json:"id"`
	UploadedFile string    `json:"uploaded_file"`
	Source       string    `json:"source"`
	FileType     string    `json:"file_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type MeetingSummary struct {
	ID          int       `json:"id"`
	KeyPoints   string    `json:"key_points"`
	ActionItems string    `json:"action_items"`
	FollowUps   string    `json:"follow_ups"`
	GeneratedAt time.Time `json:"generated_at"`
	Transcript  int       `json:"transcript"`
}

type Project struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProjectMembership struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"project_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type ProjectActivity struct {
	ID          int    `json:"id"`
	Membership  int    `json:"membership"`
	Description string `json:"description"`
}

// Paginated is the envelope the backend wraps list responses in.
type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
