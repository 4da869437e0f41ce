package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

var emailFormat = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailFormat.MatchString(s)
}

// Allowed profile picture MIME types.
var pictureMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// ValidPictureMimeType reports whether mimeType is an accepted upload type.
func ValidPictureMimeType(mimeType string) bool {
	_, ok := pictureMimeTypes[mimeType]
	return ok
}

// Invitation is a user-owned mirror of a Guest entry: one event the user was
// invited to, the event's date at invitation time, and the response status.
type Invitation struct {
	EventID string         `json:"event_id"`
	Date    time.Time      `json:"date"`
	Status  ResponseStatus `json:"status"`
}

// PictureFile describes the original uploaded file.
type PictureFile struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Picture is the stored profile picture metadata.
type Picture struct {
	Path         string      `json:"path"`
	URL          string      `json:"url"`
	OriginalFile PictureFile `json:"original_file"`
}

// User is the aggregate owning identity, credentials, and the authoritative
// invitation list. Password hash, salt, activation token, and the active flag
// persist with the document but are never exposed; see Public.
type User struct {
	ID              string       `json:"id"`
	Email           string       `json:"email"`
	PasswordHash    string       `json:"password_hash"`
	Salt            string       `json:"salt"`
	FirstName       string       `json:"firstname"`
	LastName        string       `json:"lastname"`
	ActivationToken string       `json:"activation_token"`
	Active          bool         `json:"active"`
	Picture         *Picture     `json:"picture,omitempty"`
	Invitations     []Invitation `json:"invitations"`
	AdminEvents     []string     `json:"admin_events"`
	CreatedAt       time.Time    `json:"created_at"`
}

// PublicUser is the externally visible shape of a User. Credentials and the
// activation token are never included.
type PublicUser struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	FirstName   string       `json:"firstname"`
	LastName    string       `json:"lastname"`
	Picture     *Picture     `json:"picture,omitempty"`
	Invitations []Invitation `json:"invitations"`
}

// Public returns the user's externally visible representation.
func (u *User) Public() *PublicUser {
	invs := u.Invitations
	if invs == nil {
		invs = []Invitation{}
	}
	return &PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Picture:     u.Picture,
		Invitations: invs,
	}
}

// UserSummary is the projection used by the guest directory.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// Validate checks field-level constraints and returns a ValidationError
// listing every violated field, or nil. It also collapses duplicate
// invitations.
func (u *User) Validate() error {
	ve := &ValidationError{}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		ve.Add("email", "Email is required.")
	} else if !ValidEmail(email) {
		ve.Add("email", "Please fill a valid email address.")
	}
	if u.PasswordHash == "" {
		ve.Add("password", "Password is required.")
	}
	if strings.TrimSpace(u.FirstName) == "" {
		ve.Add("firstname", "First name is required.")
	}
	if strings.TrimSpace(u.LastName) == "" {
		ve.Add("lastname", "Last name is required.")
	}
	if u.Picture != nil && u.Picture.OriginalFile.MimeType != "" && !ValidPictureMimeType(u.Picture.OriginalFile.MimeType) {
		ve.Add("picture", "Invalid file.")
	}
	for _, inv := range u.Invitations {
		if inv.EventID == "" {
			ve.Add("invitations", "Invitation must reference an event.")
			break
		}
	}
	u.DedupInvitations()
	if ve.Empty() {
		return nil
	}
	return ve
}

// DedupInvitations silently drops invitations whose event reference already
// appeared earlier in the list. The first occurrence wins.
func (u *User) DedupInvitations() {
	seen := make(map[string]struct{}, len(u.Invitations))
	kept := u.Invitations[:0]
	for _, inv := range u.Invitations {
		if _, ok := seen[inv.EventID]; ok {
			continue
		}
		seen[inv.EventID] = struct{}{}
		kept = append(kept, inv)
	}
	u.Invitations = kept
}

// AddInvitation upserts inv into the invitation list. Returns false without
// modification if an invitation for the same event already exists.
func (u *User) AddInvitation(inv Invitation) bool {
	if u.FindInvitation(inv.EventID) != nil {
		return false
	}
	u.Invitations = append(u.Invitations, inv)
	return true
}

// RemoveInvitation deletes the invitation referencing eventID. Removing an
// absent invitation is a no-op and returns false.
func (u *User) RemoveInvitation(eventID string) bool {
	for i, inv := range u.Invitations {
		if inv.EventID == eventID {
			u.Invitations = append(u.Invitations[:i], u.Invitations[i+1:]...)
			return true
		}
	}
	return false
}

// FindInvitation returns the invitation referencing eventID, or nil.
func (u *User) FindInvitation(eventID string) *Invitation {
	for i := range u.Invitations {
		if u.Invitations[i].EventID == eventID {
			return &u.Invitations[i]
		}
	}
	return nil
}

// AddAdminEvent records eventID in the user's administered events.
func (u *User) AddAdminEvent(eventID string) {
	for _, id := range u.AdminEvents {
		if id == eventID {
			return
		}
	}
	u.AdminEvents = append(u.AdminEvents, eventID)
}

// RemoveAdminEvent drops eventID from the user's administered events.
func (u *User) RemoveAdminEvent(eventID string) {
	for i, id := range u.AdminEvents {
		if id == eventID {
			u.AdminEvents = append(u.AdminEvents[:i], u.AdminEvents[i+1:]...)
			return
		}
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository persists User aggregates one at a time. Save is an
// insert-or-update of the whole document and returns ErrDuplicateEmail when
// the storage-level unique email constraint is violated.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByActivationToken(ctx context.Context, token string) (*User, error)
	ListSummaries(ctx context.Context) ([]*UserSummary, error)
	Save(ctx context.Context, user *User) error
}

// PictureUpload is a raw profile picture payload.
type PictureUpload struct {
	Name     string
	MimeType string
	Data     []byte
}

// ProfileUpdate carries the caller-supplied changes for the current user.
// Nil fields are left unchanged. A password change requires the correct
// current password.
type ProfileUpdate struct {
	FirstName       *string
	LastName        *string
	CurrentPassword *string
	NewPassword     *string
	Picture         *PictureUpload
}

// UserService is the business surface for the user aggregate.
type UserService interface {
	// Register validates and persists a new user (inactive, with a fresh
	// activation token) and sends the activation email best-effort.
	Register(ctx context.Context, email, password, firstName, lastName string) (*User, error)
	// Activate flips the account active and regenerates the activation token.
	Activate(ctx context.Context, token string) error
	// UpdateProfile applies upd to the user, storing a new picture through
	// the blob store when provided.
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*User, error)
	// Respond applies the attend/decline transition to the user's invitation
	// for eventID, then mirrors the status onto the event's guest copy and
	// notifies the event admin.
	Respond(ctx context.Context, userID, eventID string, action ResponseAction) error
	// ListDirectory returns all users as directory summaries.
	ListDirectory(ctx context.Context) ([]*UserSummary, error)
	// ListAdminEvents returns upcoming events administered by the user,
	// sorted by date ascending.
	ListAdminEvents(ctx context.Context, userID string) ([]*Event, error)
}

// AuthService authenticates users and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
