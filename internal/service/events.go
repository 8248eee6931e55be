package service

import (
	"lovemirror-backend/internal/scoring"
)

const (
	EventAssessorInvited     = "assessor_invited"
	EventExternalSubmitted   = "external_assessment_submitted"
	EventAssessmentCompleted = "assessment_completed"
	EventPartnerInvited      = "partner_invited"
)

// Publisher is the part of the event bus services publish through.
type Publisher interface {
	Publish(event string, data interface{})
}

// Subscriber is the part of the event bus listeners register with.
type Subscriber interface {
	Subscribe(event string, handler func(interface{}))
}

type AssessorInvitedEvent struct {
	AssessorID     string
	UserID         string
	Email          string
	InvitationCode string
}

type ExternalSubmittedEvent struct {
	AssessorID     string
	UserID         string
	AssessmentType scoring.AssessmentType
}

type AssessmentCompletedEvent struct {
	HistoryID      string
	UserID         string
	AssessmentType scoring.AssessmentType
}

type PartnerInvitedEvent struct {
	InvitationID   string
	SenderID       string
	RecipientEmail string
	InvitationCode string
}
