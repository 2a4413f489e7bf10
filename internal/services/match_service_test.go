package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/vcc-collab-api/internal/matching"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/recommend"
)

func TestMatchService(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")
	_, err := f.users.UpdateSkills(bob.ID, []string{"React", "Figma"})
	require.NoError(t, err)
	_, err = f.users.UpdateSkills(carol.ID, []string{"React"})
	require.NoError(t, err)

	p := f.createProject(t, "alice", "Web", "React", "Figma")

	candidates, err := f.matches.Candidates(p.ID, 5, matching.DefaultMinScore)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "bob", candidates[0].Name)
	assert.Equal(t, "carol", candidates[1].Name)

	top, err := f.matches.Candidates(p.ID, 1, matching.DefaultMinScore)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	m, err := f.matches.MatchUser(p.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "Figma"}, m.MatchedSkills)

	_, err = f.matches.MatchUser(p.ID, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.matches.Candidates("missing", 5, 1)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestRecommendationService(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	f.register(t, "bob")

	f.createProject(t, "bob", "Web", "React")
	f.clock.Advance(24 * time.Hour)
	f.createProject(t, "bob", "Film", "Video Editing")

	// No skills anywhere: newest projects with zero scores.
	recs := f.recs.Recommend(alice, recommend.Options{})
	require.Len(t, recs, 2)
	assert.Equal(t, "Film", recs[0].Project.Title)
	assert.Zero(t, recs[0].Score)

	// The stored profile fills in for a user without skills.
	require.NoError(t, f.recs.SaveProfile(models.UserProfile{Name: "alice", Skills: []string{"react"}}))
	profile := f.recs.ProfileFor(alice)
	assert.Equal(t, "alice", profile.Name)
	assert.Equal(t, []string{"react"}, profile.Skills)

	recs = f.recs.Recommend(alice, recommend.Options{})
	require.NotEmpty(t, recs)
	assert.Equal(t, "Web", recs[0].Project.Title)
	assert.Equal(t, 1, recs[0].Matches)

	anonymous := f.recs.ProfileFor(nil)
	assert.Equal(t, []string{"react"}, anonymous.Skills)
}
