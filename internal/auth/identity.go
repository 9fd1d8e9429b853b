package auth

import (
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "ROLE_ADMIN"

// Identity is the signed-in user as described by the token claims.
type Identity struct {
	Subject string
	Roles   []string
}

// ParseIdentity reads the subject and the "<namespace>/roles" claim without
// verifying the signature. The result only gates client-side views; the API
// checks the token itself.
func ParseIdentity(token, namespace string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("jwt.ParseUnverified: %w", err)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return Identity{}, fmt.Errorf("claims.GetSubject: %w", err)
	}

	return Identity{
		Subject: subject,
		Roles:   extractRoles(claims, namespace+"/roles"),
	}, nil
}

func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

func (i Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

func extractRoles(claims jwt.MapClaims, key string) []string {
	var out []string
	if arr, ok := claims[key].([]any); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
