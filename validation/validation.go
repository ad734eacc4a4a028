// Package validation holds the client-side gate of the registration flow:
// pure functions that check a candidate submission against the field and
// cross-field rules and produce a map from field key to a human-readable
// message. An empty map means the submission is valid. No I/O happens here.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"csifest/dto"
	"csifest/models"
)

var (
	usnRe   = regexp.MustCompile(`^[A-Za-z0-9]{10,15}$`)
	phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// MaxTeamSize is the total participant cap for team events (leader included).
const MaxTeamSize = 4

// Validate checks req against catalog. Member error keys follow the
// member_<i>_<field> convention so the form can attach each message to the
// right input; that key layout is part of the contract with the UI.
func Validate(req dto.RegisterReq, catalog []dto.EventInfo) map[string]string {
	errs := make(map[string]string)

	var event *dto.EventInfo
	if req.EventSlug == "" {
		errs["selectedActivity"] = "Please select an activity"
	} else {
		for i := range catalog {
			if catalog[i].Slug == req.EventSlug {
				event = &catalog[i]
				break
			}
		}
		if event == nil {
			errs["selectedActivity"] = "Unknown activity selected"
		}
	}

	if event != nil && event.RequiresTeam {
		validateTeam(req, errs)
	} else {
		validateSolo(req, errs)
	}

	return errs
}

func validateSolo(req dto.RegisterReq, errs map[string]string) {
	if req.Leader == nil {
		errs["fullName"] = "Full name is required"
		return
	}
	p := *req.Leader

	if p.FullName == "" {
		errs["fullName"] = "Full name is required"
	} else if len(strings.TrimSpace(p.FullName)) < 2 {
		errs["fullName"] = "Full name must be at least 2 characters"
	}

	if p.USN == "" {
		errs["usn"] = "USN is required"
	} else if !usnRe.MatchString(p.USN) {
		errs["usn"] = "USN must be 10-15 alphanumeric characters"
	}

	if p.Department == "" {
		errs["department"] = "Please select a department"
	} else if !knownDepartment(p.Department) {
		errs["department"] = "Please select a valid department"
	}

	if p.Semester == "" {
		errs["semester"] = "Please select a semester"
	} else if !knownSemester(p.Semester) {
		errs["semester"] = "Please select a valid semester"
	}

	if p.Phone == "" {
		errs["phoneNumber"] = "Phone number is required"
	} else if !phoneRe.MatchString(p.Phone) {
		errs["phoneNumber"] = "Please enter a valid 10-digit phone number"
	}

	// Email is optional for solo registrants but must be well-formed when given.
	if p.Email != "" && !emailRe.MatchString(p.Email) {
		errs["email"] = "Email is invalid"
	}
}

func validateTeam(req dto.RegisterReq, errs map[string]string) {
	if req.TeamName == "" {
		errs["teamName"] = "Team name is required for team events"
	}

	if req.Leader == nil {
		errs["leaderName"] = "Team leader name is required"
	} else {
		l := *req.Leader
		if l.FullName == "" {
			errs["leaderName"] = "Team leader name is required"
		} else if len(strings.TrimSpace(l.FullName)) < 2 {
			errs["leaderName"] = "Team leader name must be at least 2 characters"
		}
		if !phoneRe.MatchString(l.Phone) {
			errs["leaderPhone"] = "Valid leader phone is required"
		}
		if !emailRe.MatchString(l.Email) {
			errs["leaderEmail"] = "Valid leader email is required"
		}
		if l.USN == "" {
			errs["leaderUsn"] = "Leader USN is required"
		} else if !usnRe.MatchString(l.USN) {
			errs["leaderUsn"] = "Leader USN must be 10-15 alphanumeric characters"
		}
		if l.Department == "" || !knownDepartment(l.Department) {
			errs["leaderDepartment"] = "Please select leader's department"
		}
		if l.Semester == "" || !knownSemester(l.Semester) {
			errs["leaderSemester"] = "Please select leader's semester"
		}
	}

	for idx, m := range req.Members {
		if m.FullName == "" {
			errs[fmt.Sprintf("member_%d", idx)] = fmt.Sprintf("Member %d name is required", idx+1)
		}
		if m.USN == "" {
			errs[fmt.Sprintf("member_%d_usn", idx)] = fmt.Sprintf("Member %d USN is required", idx+1)
		} else if !usnRe.MatchString(m.USN) {
			errs[fmt.Sprintf("member_%d_usn", idx)] = fmt.Sprintf("Member %d USN must be 10-15 alphanumeric characters", idx+1)
		}
		if m.Department == "" || !knownDepartment(m.Department) {
			errs[fmt.Sprintf("member_%d_department", idx)] = fmt.Sprintf("Member %d department is required", idx+1)
		}
		if m.Semester == "" || !knownSemester(m.Semester) {
			errs[fmt.Sprintf("member_%d_semester", idx)] = fmt.Sprintf("Member %d semester is required", idx+1)
		}
		if m.Phone != "" && !phoneRe.MatchString(m.Phone) {
			errs[fmt.Sprintf("member_%d_phone", idx)] = fmt.Sprintf("Member %d phone is invalid", idx+1)
		}
		if m.Email != "" && !emailRe.MatchString(m.Email) {
			errs[fmt.Sprintf("member_%d_email", idx)] = fmt.Sprintf("Member %d email is invalid", idx+1)
		}
	}

	// Total team size = leader + members; min 2, max MaxTeamSize people.
	if len(req.Members) < 1 {
		errs["teamSize"] = "Team events require at least 2 people (leader + 1 member)"
	} else if 1+len(req.Members) > MaxTeamSize {
		errs["teamSize"] = fmt.Sprintf("Team events allow at most %d people including the leader", MaxTeamSize)
	}
}

var departments = func() map[string]bool {
	m := make(map[string]bool)
	for _, d := range models.Departments() {
		m[string(d)] = true
	}
	return m
}()

var semesters = func() map[string]bool {
	m := make(map[string]bool)
	for _, s := range models.Semesters() {
		m[string(s)] = true
	}
	return m
}()

func knownDepartment(d string) bool { return departments[d] }
func knownSemester(s string) bool   { return semesters[s] }
