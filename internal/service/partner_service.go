package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"lovemirror-backend/internal/model"
	"lovemirror-backend/internal/repository"
)

// InvitationView is a partner invitation as the recipient sees it.
type InvitationView struct {
	Invitation *model.PartnerInvitation `json:"invitation"`
	SenderName string                   `json:"sender_name"`
}

// CompletionStatus tells whether both partners have a self-assessment, the
// precondition for a compatibility result.
type CompletionStatus struct {
	RelationshipID string `json:"relationship_id"`
	User1ID        string `json:"user1_id"`
	User2ID        string `json:"user2_id"`
	User1Completed bool   `json:"user1_completed"`
	User2Completed bool   `json:"user2_completed"`
	BothCompleted  bool   `json:"both_completed"`
}

type PartnerService interface {
	Invite(ctx context.Context, senderID, email string) (*model.PartnerInvitation, error)
	Active(ctx context.Context, senderID string) ([]model.PartnerInvitation, error)
	ByCode(ctx context.Context, code string) (*InvitationView, error)
	Accept(ctx context.Context, userID, code string) (*model.Relationship, error)
	Decline(ctx context.Context, userID, code string) error
	Relationships(ctx context.Context, userID string) ([]model.Relationship, error)
	CompletionStatus(ctx context.Context, userID, relationshipID string) (*CompletionStatus, error)
}

type partnerService struct {
	relationships repository.RelationshipRepository
	assessments   repository.AssessmentRepository
	profiles      repository.ProfileRepository
	bus           Publisher
	log           *zap.Logger
	now           func() time.Time
}

func NewPartnerService(
	relationships repository.RelationshipRepository,
	assessments repository.AssessmentRepository,
	profiles repository.ProfileRepository,
	bus Publisher,
	log *zap.Logger,
) PartnerService {
	return &partnerService{
		relationships: relationships,
		assessments:   assessments,
		profiles:      profiles,
		bus:           bus,
		log:           log,
		now:           time.Now,
	}
}

// Invite creates a 7-day invitation code. The email is optional; the code
// can be shared by any channel.
func (s *partnerService) Invite(ctx context.Context, senderID, email string) (*model.PartnerInvitation, error) {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, invalid("invalid partner email %q", email)
	}

	invitation := &model.PartnerInvitation{
		SenderID:       senderID,
		InvitationCode: newInvitationCode(),
		RecipientEmail: email,
		Status:         model.InvitationPending,
		ExpiresAt:      s.now().Add(model.PartnerInvitationTTL),
	}
	if err := s.relationships.CreateInvitation(ctx, invitation); err != nil {
		return nil, err
	}

	s.bus.Publish(EventPartnerInvited, PartnerInvitedEvent{
		InvitationID:   invitation.ID,
		SenderID:       senderID,
		RecipientEmail: email,
		InvitationCode: invitation.InvitationCode,
	})
	return invitation, nil
}

// Active lists the sender's pending invitations that have not expired.
func (s *partnerService) Active(ctx context.Context, senderID string) ([]model.PartnerInvitation, error) {
	pending, err := s.relationships.GetPendingInvitations(ctx, senderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	active := make([]model.PartnerInvitation, 0, len(pending))
	for _, inv := range pending {
		if !inv.Expired(now) {
			active = append(active, inv)
		}
	}
	return active, nil
}

func (s *partnerService) ByCode(ctx context.Context, code string) (*InvitationView, error) {
	invitation, err := s.relationships.GetInvitationByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	view := &InvitationView{Invitation: invitation}
	if profile, err := s.profiles.GetProfile(ctx, invitation.SenderID); err == nil {
		view.SenderName = profile.Name
	}
	return view, nil
}

// Accept turns a pending invitation into an active relationship between
// sender and acceptor.
func (s *partnerService) Accept(ctx context.Context, userID, code string) (*model.Relationship, error) {
	invitation, err := s.pendingInvitation(ctx, userID, code)
	if err != nil {
		return nil, err
	}

	_, err = s.relationships.GetActiveRelationshipBetween(ctx, invitation.SenderID, userID)
	switch {
	case err == nil:
		return nil, ErrAlreadyPartnered
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	invitation.Status = model.InvitationAccepted
	relationship := &model.Relationship{
		User1ID: invitation.SenderID,
		User2ID: userID,
		Status:  model.RelationshipActive,
	}
	if err := s.relationships.AcceptInvitation(ctx, invitation, relationship); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvitationInvalid
		}
		return nil, err
	}

	s.log.Info("partner invitation accepted",
		zap.String("relationship_id", relationship.ID),
		zap.String("sender_id", invitation.SenderID),
	)
	return relationship, nil
}

func (s *partnerService) Decline(ctx context.Context, userID, code string) error {
	invitation, err := s.pendingInvitation(ctx, userID, code)
	if err != nil {
		return err
	}
	invitation.Status = model.InvitationDeclined
	return s.relationships.UpdateInvitation(ctx, invitation)
}

func (s *partnerService) Relationships(ctx context.Context, userID string) ([]model.Relationship, error) {
	return s.relationships.GetRelationshipsByUser(ctx, userID)
}

func (s *partnerService) CompletionStatus(ctx context.Context, userID, relationshipID string) (*CompletionStatus, error) {
	relationship, err := memberOf(ctx, s.relationships, userID, relationshipID)
	if err != nil {
		return nil, err
	}

	user1, err := hasAssessment(ctx, s.assessments, relationship.User1ID)
	if err != nil {
		return nil, err
	}
	user2, err := hasAssessment(ctx, s.assessments, relationship.User2ID)
	if err != nil {
		return nil, err
	}
	return &CompletionStatus{
		RelationshipID: relationship.ID,
		User1ID:        relationship.User1ID,
		User2ID:        relationship.User2ID,
		User1Completed: user1,
		User2Completed: user2,
		BothCompleted:  user1 && user2,
	}, nil
}

// pendingInvitation loads an invitation the user may still act on. An
// expired invitation is marked expired on the way.
func (s *partnerService) pendingInvitation(ctx context.Context, userID, code string) (*model.PartnerInvitation, error) {
	invitation, err := s.relationships.GetInvitationByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if invitation.Status != model.InvitationPending {
		return nil, ErrInvitationInvalid
	}
	if invitation.Expired(s.now()) {
		invitation.Status = model.InvitationExpired
		if err := s.relationships.UpdateInvitation(ctx, invitation); err != nil {
			s.log.Warn("failed to mark invitation expired", zap.String("invitation_id", invitation.ID), zap.Error(err))
		}
		return nil, ErrInvitationInvalid
	}
	if invitation.SenderID == userID {
		return nil, errors.Wrap(ErrInvitationInvalid, "cannot respond to your own invitation")
	}
	return invitation, nil
}

// memberOf loads a relationship the user belongs to.
func memberOf(ctx context.Context, repo repository.RelationshipRepository, userID, relationshipID string) (*model.Relationship, error) {
	relationship, err := repo.GetRelationship(ctx, relationshipID)
	if err != nil {
		return nil, err
	}
	if !relationship.Includes(userID) {
		return nil, ErrForbidden
	}
	return relationship, nil
}

func hasAssessment(ctx context.Context, repo repository.AssessmentRepository, userID string) (bool, error) {
	_, err := repo.GetLatestAssessment(ctx, userID, "")
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
