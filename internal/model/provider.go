package model

import "fmt"

// Provider identifies a federated identity provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderLinkedIn Provider = "linkedin"
)

// Providers lists every supported provider in display order.
var Providers = []Provider{ProviderGoogle, ProviderLinkedIn}

// ParseProvider converts a path segment into a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderLinkedIn:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

func (p Provider) String() string {
	return string(p)
}

// SocialProfile is the normalized identity returned by a provider's userinfo endpoint.
type SocialProfile struct {
	Provider    Provider
	SubjectID   string
	Email       string
	DisplayName string
}

// PlaceholderEmail is used when the provider discloses no email address.
func (p SocialProfile) PlaceholderEmail() string {
	return fmt.Sprintf("%s@%s.oauth", p.SubjectID, p.Provider)
}
