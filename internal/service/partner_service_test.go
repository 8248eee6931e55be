package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovemirror-backend/internal/model"
	"lovemirror-backend/internal/repository"
	"lovemirror-backend/internal/scoring"
)

func partner(t *testing.T, f *fixture, sender, recipient string) *model.Relationship {
	t.Helper()
	ctx := context.Background()
	invitation, err := f.partners.Invite(ctx, sender, "")
	require.NoError(t, err)
	relationship, err := f.partners.Accept(ctx, recipient, invitation.InvitationCode)
	require.NoError(t, err)
	return relationship
}

func TestPartnerInviteAndAccept(t *testing.T) {
	f := newFixture()
	f.addProfile("alice", "female", "", "")
	ctx := context.Background()

	invitation, err := f.partners.Invite(ctx, "alice", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.InvitationPending, invitation.Status)
	assert.Equal(t, f.clock.t.Add(model.PartnerInvitationTTL), invitation.ExpiresAt)
	assert.Equal(t, []string{EventPartnerInvited}, f.bus.events)

	view, err := f.partners.ByCode(ctx, invitation.InvitationCode)
	require.NoError(t, err)
	assert.Equal(t, "User alice", view.SenderName)

	active, err := f.partners.Active(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	relationship, err := f.partners.Accept(ctx, "bob", invitation.InvitationCode)
	require.NoError(t, err)
	assert.Equal(t, "alice", relationship.User1ID)
	assert.Equal(t, "bob", relationship.User2ID)
	assert.Equal(t, model.RelationshipActive, relationship.Status)

	stored, err := f.store.GetInvitationByCode(ctx, invitation.InvitationCode)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationAccepted, stored.Status)

	for _, user := range []string{"alice", "bob"} {
		relationships, err := f.partners.Relationships(ctx, user)
		require.NoError(t, err)
		assert.Len(t, relationships, 1, user)
	}

	_, err = f.partners.Accept(ctx, "carol", invitation.InvitationCode)
	assert.ErrorIs(t, err, ErrInvitationInvalid, "already accepted")

	_, err = f.partners.Invite(ctx, "alice", "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPartnerAcceptRules(t *testing.T) {
	ctx := context.Background()

	t.Run("own invitation", func(t *testing.T) {
		f := newFixture()
		invitation, err := f.partners.Invite(ctx, "alice", "")
		require.NoError(t, err)
		_, err = f.partners.Accept(ctx, "alice", invitation.InvitationCode)
		assert.ErrorIs(t, err, ErrInvitationInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		f := newFixture()
		invitation, err := f.partners.Invite(ctx, "alice", "")
		require.NoError(t, err)
		f.clock.Advance(model.PartnerInvitationTTL)

		active, err := f.partners.Active(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, active)

		_, err = f.partners.Accept(ctx, "bob", invitation.InvitationCode)
		assert.ErrorIs(t, err, ErrInvitationInvalid)

		stored, err := f.store.GetInvitationByCode(ctx, invitation.InvitationCode)
		require.NoError(t, err)
		assert.Equal(t, model.InvitationExpired, stored.Status)
	})

	t.Run("already partnered", func(t *testing.T) {
		f := newFixture()
		partner(t, f, "alice", "bob")

		invitation, err := f.partners.Invite(ctx, "bob", "")
		require.NoError(t, err)
		_, err = f.partners.Accept(ctx, "alice", invitation.InvitationCode)
		assert.ErrorIs(t, err, ErrAlreadyPartnered)
	})

	t.Run("declined", func(t *testing.T) {
		f := newFixture()
		invitation, err := f.partners.Invite(ctx, "alice", "")
		require.NoError(t, err)
		require.NoError(t, f.partners.Decline(ctx, "bob", invitation.InvitationCode))

		_, err = f.partners.Accept(ctx, "bob", invitation.InvitationCode)
		assert.ErrorIs(t, err, ErrInvitationInvalid)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newFixture()
		_, err := f.partners.Accept(ctx, "bob", "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCompletionStatus(t *testing.T) {
	f := newFixture()
	f.addProfile("alice", "female", "", "")
	f.addProfile("bob", "male", "", "")
	ctx := context.Background()
	relationship := partner(t, f, "alice", "bob")

	status, err := f.partners.CompletionStatus(ctx, "bob", relationship.ID)
	require.NoError(t, err)
	assert.False(t, status.BothCompleted)

	_, err = f.assessments.Submit(ctx, "alice", "", answers(scoring.WifeMaterial, flat(4)))
	require.NoError(t, err)

	status, err = f.partners.CompletionStatus(ctx, "bob", relationship.ID)
	require.NoError(t, err)
	assert.True(t, status.User1Completed)
	assert.False(t, status.User2Completed)
	assert.False(t, status.BothCompleted)

	_, err = f.assessments.Submit(ctx, "bob", "", answers(scoring.HighValueMan, flat(4)))
	require.NoError(t, err)

	status, err = f.partners.CompletionStatus(ctx, "alice", relationship.ID)
	require.NoError(t, err)
	assert.True(t, status.BothCompleted)

	_, err = f.partners.CompletionStatus(ctx, "carol", relationship.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAcceptInvitationConcurrent(t *testing.T) {
	f := newFixture()
	f.addProfile("alice", "female", "", "")
	ctx := context.Background()
	invitation, err := f.partners.Invite(ctx, "alice", "")
	require.NoError(t, err)

	users := []string{"bob", "carol", "dave", "erin"}
	errs := make(chan error, len(users))
	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := f.partners.Accept(ctx, user, invitation.InvitationCode)
			errs <- err
		}(user)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvitationInvalid)
	}
	assert.Equal(t, 1, succeeded)

	relationships, err := f.partners.Relationships(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, relationships, 1)
}
