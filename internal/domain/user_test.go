package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() *User {
	return &User{
		ID:           "user-1",
		Email:        "max@example.com",
		PasswordHash: "hash",
		Salt:         "salt",
		FirstName:    "Max",
		LastName:     "Muster",
	}
}

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(u *User)
		wantField string
		wantMsg   string
	}{
		{name: "valid", mutate: func(u *User) {}},
		{
			name:      "missing email",
			mutate:    func(u *User) { u.Email = "" },
			wantField: "email",
			wantMsg:   "Email is required.",
		},
		{
			name:      "malformed email",
			mutate:    func(u *User) { u.Email = "not-an-email" },
			wantField: "email",
			wantMsg:   "Please fill a valid email address.",
		},
		{
			name:      "missing password hash",
			mutate:    func(u *User) { u.PasswordHash = "" },
			wantField: "password",
			wantMsg:   "Password is required.",
		},
		{
			name:      "missing first name",
			mutate:    func(u *User) { u.FirstName = " " },
			wantField: "firstname",
			wantMsg:   "First name is required.",
		},
		{
			name:      "missing last name",
			mutate:    func(u *User) { u.LastName = "" },
			wantField: "lastname",
			wantMsg:   "Last name is required.",
		},
		{
			name: "picture with rejected mime type",
			mutate: func(u *User) {
				u.Picture = &Picture{OriginalFile: PictureFile{MimeType: "image/gif"}}
			},
			wantField: "picture",
			wantMsg:   "Invalid file.",
		},
		{
			name:      "invitation without event",
			mutate:    func(u *User) { u.Invitations = []Invitation{{EventID: ""}} },
			wantField: "invitations",
			wantMsg:   "Invitation must reference an event.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := validUser()
			tt.mutate(user)
			err := user.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			ve, ok := AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, ve.Fields[tt.wantField])
		})
	}
}

func TestValidPictureMimeType(t *testing.T) {
	assert.True(t, ValidPictureMimeType("image/jpeg"))
	assert.True(t, ValidPictureMimeType("image/png"))
	assert.False(t, ValidPictureMimeType("image/gif"))
	assert.False(t, ValidPictureMimeType("application/pdf"))
	assert.False(t, ValidPictureMimeType(""))
}

func TestUser_DedupInvitations(t *testing.T) {
	answered := ResponseStatus{Answered: true, Attending: false}
	user := validUser()
	user.Invitations = []Invitation{
		{EventID: "ev-1", Status: answered},
		{EventID: "ev-2"},
		{EventID: "ev-1"},
	}

	user.DedupInvitations()

	require.Len(t, user.Invitations, 2)
	assert.Equal(t, "ev-1", user.Invitations[0].EventID)
	assert.Equal(t, answered, user.Invitations[0].Status, "first occurrence wins")
	assert.Equal(t, "ev-2", user.Invitations[1].EventID)
}

func TestUser_AddInvitation(t *testing.T) {
	user := validUser()
	date := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

	require.True(t, user.AddInvitation(Invitation{EventID: "ev-1", Date: date}))
	require.Len(t, user.Invitations, 1)
	assert.Equal(t, StatePending, user.Invitations[0].Status.State())

	assert.False(t, user.AddInvitation(Invitation{EventID: "ev-1"}), "one invitation per event")
	assert.Len(t, user.Invitations, 1)
}

func TestUser_RemoveInvitation(t *testing.T) {
	user := validUser()
	user.AddInvitation(Invitation{EventID: "ev-1"})
	user.AddInvitation(Invitation{EventID: "ev-2"})

	require.True(t, user.RemoveInvitation("ev-1"))
	require.Len(t, user.Invitations, 1)
	assert.Equal(t, "ev-2", user.Invitations[0].EventID)

	assert.False(t, user.RemoveInvitation("ev-1"), "removing an absent invitation is a no-op")
}

func TestUser_FindInvitation(t *testing.T) {
	user := validUser()
	user.AddInvitation(Invitation{EventID: "ev-1"})

	inv := user.FindInvitation("ev-1")
	require.NotNil(t, inv)

	// FindInvitation returns a pointer into the list, so status edits stick.
	require.NoError(t, inv.Status.Decline())
	assert.Equal(t, StateDeclined, user.Invitations[0].Status.State())

	assert.Nil(t, user.FindInvitation("unknown"))
}

func TestUser_AdminEvents(t *testing.T) {
	user := validUser()

	user.AddAdminEvent("ev-1")
	user.AddAdminEvent("ev-2")
	user.AddAdminEvent("ev-1")
	assert.Equal(t, []string{"ev-1", "ev-2"}, user.AdminEvents)

	user.RemoveAdminEvent("ev-1")
	assert.Equal(t, []string{"ev-2"}, user.AdminEvents)
	user.RemoveAdminEvent("missing")
	assert.Equal(t, []string{"ev-2"}, user.AdminEvents)
}

func TestUser_Public(t *testing.T) {
	user := validUser()
	user.ActivationToken = "secret-token"
	user.Active = true
	user.AddInvitation(Invitation{EventID: "ev-1"})

	pub := user.Public()

	assert.Equal(t, user.ID, pub.ID)
	assert.Equal(t, user.Email, pub.Email)
	assert.Equal(t, user.FirstName, pub.FirstName)
	assert.Equal(t, user.LastName, pub.LastName)
	require.Len(t, pub.Invitations, 1)
}

func TestUser_Public_EmptyInvitations(t *testing.T) {
	pub := validUser().Public()
	require.NotNil(t, pub.Invitations)
	assert.Empty(t, pub.Invitations)
}
