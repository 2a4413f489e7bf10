package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

func TestDeriveBadges(t *testing.T) {
	projects := []models.Project{
		{Owner: "alice", Members: []models.Member{{Name: "bob"}}},
		{Owner: "carol", Members: []models.Member{{Name: "bob"}}},
		{Owner: "carol", Members: []models.Member{{Name: "bob"}}, Tasks: []models.Task{
			{AssignedTo: "bob", Status: models.TaskStatusDone},
			{AssignedTo: "bob", Status: models.TaskStatusDone},
			{AssignedTo: "bob", Status: models.TaskStatusInProgress},
		}},
	}

	assert.Equal(t, []string{BadgeProjectCreator}, DeriveBadges("alice", nil, nil, projects))
	assert.Equal(t, []string{"Early Bird", BadgeActiveCollaborator},
		DeriveBadges("bob", []string{"Early Bird", "Early Bird"}, nil, projects))
	assert.Equal(t, []string{BadgeSkilledMember},
		DeriveBadges("dave", nil, []string{"a", "b", "c", "d", "e"}, projects))
	assert.Empty(t, DeriveBadges("dave", nil, nil, projects))
}

func TestBadgeService_AwardNeverRevokes(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	_, err := f.users.UpdateBadges(alice.ID, []string{"Pioneer"})
	require.NoError(t, err)

	badges, err := f.badges.AwardBadgesForUser("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pioneer"}, badges)

	f.createProject(t, "alice", "Web")
	stored, err := f.users.GetByName("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pioneer", BadgeProjectCreator}, stored.Badges)

	_, err = f.badges.AwardBadgesForUser("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBadgeService_SweepAll(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	bob := f.register(t, "bob")
	_, err := f.users.UpdateSkills(bob.ID, []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)

	// Written directly so no award runs on creation.
	_, err = f.projectRepo.Update(func(all *[]models.Project) error {
		*all = append(*all, models.Project{ID: "p1", Owner: "alice"})
		return nil
	})
	require.NoError(t, err)

	changed, err := f.badges.SweepAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	alice, err := f.users.GetByName("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeProjectCreator}, alice.Badges)
	assert.Equal(t, []string{BadgeSkilledMember}, f.users.CurrentUser().Badges)

	changed, err = f.badges.SweepAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestBadgeService_SweepAllCancelled(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.badges.SweepAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
