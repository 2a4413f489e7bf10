package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

func TestNotificationService(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.notifications.Add(models.Notification{ToName: "alice", Type: "a"}))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.notifications.AddMany([]models.Notification{
		{ToName: "alice", Type: "b"},
		{ToName: "bob", Type: "c"},
	}))

	alice := f.notifications.ForUser("alice")
	require.Len(t, alice, 2)
	assert.Equal(t, "b", alice[0].Type)
	assert.NotEmpty(t, alice[0].ID)
	assert.Equal(t, epoch.Add(time.Minute), alice[0].CreatedAt)
	assert.Empty(t, f.notifications.ForUser(""))
	assert.Equal(t, 2, f.notifications.UnreadCount("alice"))

	require.NoError(t, f.notifications.MarkRead(alice[1].ID))
	assert.Equal(t, 1, f.notifications.UnreadCount("alice"))
	assert.ErrorIs(t, f.notifications.MarkRead("missing"), ErrNotificationNotFound)

	require.NoError(t, f.notifications.MarkAllRead("alice"))
	assert.Equal(t, 0, f.notifications.UnreadCount("alice"))
	assert.Equal(t, 1, f.notifications.UnreadCount("bob"))
}

func TestActivityService(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.activities.Add(models.Activity{ProjectID: "p1", Actor: "alice"}))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.activities.Add(models.Activity{
		ProjectID: "p2",
		Type:      ActivityInviteSent,
		Actor:     "alice",
		Meta:      map[string]string{"toName": "bob"},
	}))

	all := f.activities.All()
	require.Len(t, all, 2)
	assert.Equal(t, ActivityInviteSent, all[0].Type)
	assert.Equal(t, "generic", all[1].Type)
	assert.Equal(t, epoch, all[1].CreatedAt)

	assert.Len(t, f.activities.ForProject("p1"), 1)
	assert.Empty(t, f.activities.ForProject(""))
	assert.Len(t, f.activities.ForUser("alice"), 2)
	assert.Len(t, f.activities.ForUser("bob"), 1)
}
