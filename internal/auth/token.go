package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 7 * 24 * time.Hour

// Claims identifies the authenticated organisation admin. The subject is
// the organisation id, serialized as a string like every other identifier
// crossing the API boundary.
type Claims struct {
	Slug       string `json:"slug"`
	AdminEmail string `json:"admin_email"`
	jwt.RegisteredClaims
}

// OrganisationID parses the subject back into an id.
func (c *Claims) OrganisationID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// CreateToken issues a signed session token for an organisation admin.
func CreateToken(secret []byte, orgID int64, slug, adminEmail string, now time.Time) (string, error) {
	claims := Claims{
		Slug:       slug,
		AdminEmail: adminEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(orgID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates a session token and returns its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
