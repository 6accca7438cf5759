// Package identity resolves the display label shown for an actor in
// notifications, falling back through profile data, the external identity
// provider and the e-mail address before settling on a placeholder.
package identity

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/memoria-app/backend/internal/models"
)

// PlaceholderName labels actors for whom no other source yields a name.
const PlaceholderName = "Ein Gast"

// ExternalIdentity looks up names held by the external identity provider.
type ExternalIdentity interface {
	// Lookup returns the account's full display name and the shorter
	// provider-level name for uid. Empty strings mean "not set".
	Lookup(ctx context.Context, uid string) (fullName, name string, err error)
}

// FirebaseIdentity implements ExternalIdentity over the Firebase Admin SDK
type FirebaseIdentity struct {
	client *auth.Client
}

// NewFirebaseIdentity creates a new FirebaseIdentity
func NewFirebaseIdentity(client *auth.Client) *FirebaseIdentity {
	return &FirebaseIdentity{client: client}
}

// Lookup fetches the Firebase user record for uid
func (f *FirebaseIdentity) Lookup(ctx context.Context, uid string) (string, string, error) {
	record, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return "", "", err
	}
	full := record.DisplayName
	name := ""
	for _, info := range record.ProviderUserInfo {
		if info.DisplayName != "" {
			name = info.DisplayName
			break
		}
	}
	return full, name, nil
}

// Resolver picks a display name for a user by evaluating an ordered list
// of sources lazily; the first non-empty result wins.
type Resolver struct {
	external ExternalIdentity
}

// NewResolver creates a new Resolver. external may be nil when no
// identity provider is configured; the chain then skips those legs.
func NewResolver(external ExternalIdentity) *Resolver {
	return &Resolver{external: external}
}

// DisplayName resolves the label for user. The chain is: profile display
// name, external full name, external provider name, e-mail local part,
// placeholder. External lookups only happen when the earlier sources are
// empty and the user is linked to an external account.
func (r *Resolver) DisplayName(ctx context.Context, user *models.User) string {
	var (
		externalFull   string
		externalName   string
		externalLoaded bool
	)
	loadExternal := func() {
		if externalLoaded {
			return
		}
		externalLoaded = true
		if r.external == nil || user.FirebaseUID == nil || *user.FirebaseUID == "" {
			return
		}
		full, name, err := r.external.Lookup(ctx, *user.FirebaseUID)
		if err != nil {
			return
		}
		externalFull, externalName = full, name
	}

	strategies := []func() string{
		func() string { return user.DisplayName },
		func() string { loadExternal(); return externalFull },
		func() string { loadExternal(); return externalName },
		func() string { return emailLocalPart(user.Email) },
	}
	for _, strategy := range strategies {
		if name := strings.TrimSpace(strategy()); name != "" {
			return name
		}
	}
	return PlaceholderName
}

// emailLocalPart returns the part of an e-mail address before the @.
func emailLocalPart(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return local
}
