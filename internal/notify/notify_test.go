package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	args := Args(Notification{
		Title:   "Title",
		Body:    "Body",
		Urgency: UrgencyCritical,
		Timeout: 2 * time.Second,
		Icon:    "icon",
	})
	assert.Equal(t, []string{"-u", "critical", "-t", "2000", "-i", "icon", "-a", "tallyboard", "Title", "Body"}, args)

	assert.Equal(t, []string{"-u", "normal", "-a", "tallyboard", "Only"}, Args(Notification{Title: "Only", Urgency: UrgencyNormal}))
}

func TestSendGoalClaimed(t *testing.T) {
	var gotName string
	var gotArgs []string
	n := NewNotifier()
	n.run = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	require.NoError(t, n.SendGoalClaimed("Bike", 30))
	assert.Equal(t, "notify-send", gotName)
	assert.Contains(t, gotArgs, "Bike: 30 points spent")
}

func TestDisabledNotifierIsSilent(t *testing.T) {
	called := false
	n := NewNotifier()
	n.run = func(string, ...string) error {
		called = true
		return nil
	}
	n.SetEnabled(false)

	require.NoError(t, n.SendRedeemed("Coffee", 20))
	assert.False(t, called)
}
