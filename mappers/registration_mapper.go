package mappers

import (
	"encoding/json"

	"csifest/dto"
	"csifest/models"
)

func MapRegisterReqToRegistration(req dto.RegisterReq, eventID uint32) *models.Registration {
	reg := models.Registration{
		EventID:  eventID,
		TeamName: nilIfEmpty(req.TeamName),
	}
	if len(req.Metadata) > 0 {
		if raw, err := json.Marshal(req.Metadata); err == nil {
			reg.Metadata = raw
		}
	}
	return &reg
}

// MapRegisterReqToParticipants builds the participant batch: the leader row
// first, then one row per member. The registration always gets exactly one
// leader, even for solo events.
func MapRegisterReqToParticipants(req dto.RegisterReq, registrationID uint32) []models.Participant {
	parts := make([]models.Participant, 0, 1+len(req.Members))
	parts = append(parts, mapPerson(*req.Leader, registrationID, true))
	for _, m := range req.Members {
		parts = append(parts, mapPerson(m, registrationID, false))
	}
	return parts
}

func mapPerson(p dto.PersonReq, registrationID uint32, isLeader bool) models.Participant {
	return models.Participant{
		RegistrationID: registrationID,
		IsLeader:       isLeader,
		FullName:       p.FullName,
		USN:            nilIfEmpty(p.USN),
		Department:     nilIfEmpty(p.Department),
		Semester:       nilIfEmpty(p.Semester),
		Phone:          nilIfEmpty(p.Phone),
		Email:          nilIfEmpty(p.Email),
	}
}

func MapRegistrationToView(reg *models.Registration) dto.RegistrationView {
	view := dto.RegistrationView{
		ID:                 reg.ID,
		RegistrationNumber: reg.RegistrationNumber,
		EventSlug:          reg.Event.Slug,
		EventName:          reg.Event.Name,
		TeamName:           reg.TeamName,
		CreatedAt:          reg.CreatedAt,
		Participants:       make([]dto.ParticipantView, 0, len(reg.Participants)),
	}
	if len(reg.Metadata) > 0 {
		_ = json.Unmarshal(reg.Metadata, &view.Metadata)
	}
	for _, p := range reg.Participants {
		view.Participants = append(view.Participants, dto.ParticipantView{
			IsLeader:   p.IsLeader,
			FullName:   p.FullName,
			USN:        p.USN,
			Department: p.Department,
			Semester:   p.Semester,
			Phone:      p.Phone,
			Email:      p.Email,
		})
	}
	return view
}

func MapEventToInfo(ev models.Event) dto.EventInfo {
	return dto.EventInfo{
		Slug:         ev.Slug,
		Name:         ev.Name,
		RequiresTeam: ev.RequiresTeam,
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
