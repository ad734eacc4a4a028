package dto

import (
	"strings"
	"time"
)

// ========== Request DTOs ==========

type PersonReq struct {
	FullName   string `json:"full_name"`
	USN        string `json:"usn"`
	Department string `json:"department"`
	Semester   string `json:"semester"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

type RegisterReq struct {
	EventSlug string                 `json:"event_slug"`
	TeamName  string                 `json:"team_name"`
	Leader    *PersonReq             `json:"leader"`
	Members   []PersonReq            `json:"members"`
	Metadata  map[string]interface{} `json:"metadata"`

	// Aliases for older clients that still send camelCase.
	EventSlugCamel string `json:"eventSlug,omitempty"`
	TeamNameCamel  string `json:"teamName,omitempty"`
}

// Normalize folds camelCase aliases into the canonical fields, trims
// whitespace everywhere and upper-cases USNs (tickets print them uppercased).
func (r *RegisterReq) Normalize() {
	if r.EventSlug == "" && r.EventSlugCamel != "" {
		r.EventSlug = r.EventSlugCamel
	}
	if r.TeamName == "" && r.TeamNameCamel != "" {
		r.TeamName = r.TeamNameCamel
	}
	r.EventSlug = strings.TrimSpace(r.EventSlug)
	r.TeamName = strings.TrimSpace(r.TeamName)
	if r.Leader != nil {
		r.Leader.normalize()
	}
	for i := range r.Members {
		r.Members[i].normalize()
	}
}

func (p *PersonReq) normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.USN = strings.ToUpper(strings.TrimSpace(p.USN))
	p.Department = strings.TrimSpace(p.Department)
	p.Semester = strings.TrimSpace(p.Semester)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
}

// ========== Response DTOs ==========

type EventInfo struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	RequiresTeam bool   `json:"requires_team"`
}

type ParticipantView struct {
	IsLeader   bool    `json:"is_leader"`
	FullName   string  `json:"full_name"`
	USN        *string `json:"usn"`
	Department *string `json:"department"`
	Semester   *string `json:"semester"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
}

// RegistrationView is the consolidated read returned on a successful
// registration: the registration joined with its event and participants,
// leader first.
type RegistrationView struct {
	ID                 uint32                 `json:"id"`
	RegistrationNumber string                 `json:"registration_number"`
	EventSlug          string                 `json:"event_slug"`
	EventName          string                 `json:"event_name"`
	TeamName           *string                `json:"team_name"`
	Metadata           map[string]interface{} `json:"metadata"`
	CreatedAt          time.Time              `json:"created_at"`
	Participants       []ParticipantView      `json:"participants"`
}
