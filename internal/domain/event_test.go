package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *Event {
	return &Event{
		ID:          "ev-1",
		Title:       "Launch party",
		Description: "Office rooftop",
		Date:        time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC),
		AdminID:     "user-1",
	}
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(e *Event)
		wantField string
		wantMsg   string
	}{
		{name: "valid", mutate: func(e *Event) {}},
		{
			name:      "missing title",
			mutate:    func(e *Event) { e.Title = "  " },
			wantField: "title",
			wantMsg:   "Title is required.",
		},
		{
			name:      "missing description",
			mutate:    func(e *Event) { e.Description = "" },
			wantField: "description",
			wantMsg:   "Description is required.",
		},
		{
			name:      "missing date",
			mutate:    func(e *Event) { e.Date = time.Time{} },
			wantField: "date",
			wantMsg:   "Date and time are required.",
		},
		{
			name:      "missing admin",
			mutate:    func(e *Event) { e.AdminID = "" },
			wantField: "admin",
			wantMsg:   "Admin user is required.",
		},
		{
			name:      "guest without user",
			mutate:    func(e *Event) { e.Guests = []Guest{{UserID: ""}} },
			wantField: "guests",
			wantMsg:   "Guest must have an associated user.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(event)
			err := event.Validate()
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

func TestEvent_Validate_CollectsAllFields(t *testing.T) {
	event := &Event{}
	err := event.Validate()
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 4)
}

func TestEvent_DedupGuests(t *testing.T) {
	answered := ResponseStatus{Answered: true, Attending: true}
	event := validEvent()
	event.Guests = []Guest{
		{UserID: "u1", Status: answered},
		{UserID: "u2"},
		{UserID: "u1"},
		{UserID: "u3"},
		{UserID: "u2"},
	}

	event.DedupGuests()

	require.Len(t, event.Guests, 3)
	assert.Equal(t, []string{"u1", "u2", "u3"}, event.GuestUserIDs())
	// The first occurrence wins, so u1 keeps its answered status.
	assert.Equal(t, answered, event.Guests[0].Status)
}

func TestEvent_AddGuest(t *testing.T) {
	event := validEvent()

	require.True(t, event.AddGuest("u1"))
	require.Len(t, event.Guests, 1)
	assert.Equal(t, StatePending, event.Guests[0].Status.State())

	assert.False(t, event.AddGuest("u1"), "adding the same user twice is rejected")
	assert.Len(t, event.Guests, 1)
}

func TestEvent_RemoveGuest(t *testing.T) {
	event := validEvent()
	event.AddGuest("u1")
	event.AddGuest("u2")

	require.True(t, event.RemoveGuest("u1"))
	assert.Equal(t, []string{"u2"}, event.GuestUserIDs())

	assert.False(t, event.RemoveGuest("u1"), "removing an absent guest is a no-op")
	assert.False(t, event.RemoveGuest("unknown"))
}

func TestEvent_FindGuest(t *testing.T) {
	event := validEvent()
	event.AddGuest("u1")

	guest := event.FindGuest("u1")
	require.NotNil(t, guest)

	// FindGuest returns a pointer into the list, so status edits stick.
	require.NoError(t, guest.Status.Attend())
	assert.Equal(t, StateAttending, event.Guests[0].Status.State())

	assert.Nil(t, event.FindGuest("unknown"))
}
