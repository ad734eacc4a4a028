package models

import "time"

// Department and Semester are the configured fixed label sets shown on the
// registration form.
type Department string
type Semester string

const (
	DeptCSE  Department = "CSE"
	DeptISE  Department = "ISE"
	DeptIOT  Department = "IOT"
	DeptAIML Department = "AIML"
)

const (
	Sem1 Semester = "1st Sem"
	Sem3 Semester = "3rd Sem"
	Sem5 Semester = "5th Sem"
	Sem7 Semester = "7th Sem"
)

func Departments() []Department {
	return []Department{DeptCSE, DeptISE, DeptIOT, DeptAIML}
}

func Semesters() []Semester {
	return []Semester{Sem1, Sem3, Sem5, Sem7}
}

// Participant is one person attached to a Registration. Exactly one
// participant per registration has IsLeader set. Participants are created
// only as part of registration creation and deleted only on rollback or
// cascade delete; none outlives its registration.
type Participant struct {
	ID             uint32  `gorm:"primarykey" json:"id"`
	RegistrationID uint32  `gorm:"index;not null" json:"registration_id"`
	IsLeader       bool    `gorm:"not null;default:false" json:"is_leader"`
	FullName       string  `gorm:"size:100;not null" json:"full_name"`
	USN            *string `gorm:"size:20" json:"usn"`
	Department     *string `gorm:"size:10" json:"department"`
	Semester       *string `gorm:"size:10" json:"semester"`
	Phone          *string `gorm:"size:15" json:"phone"`
	Email          *string `gorm:"size:100" json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Participant) TableName() string {
	return "csi_participant"
}
