package utils // package utils provides helper functions for token creation and hashing

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are encoded in the Authorization
// header when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user's numeric ID and employee ID, the admin and
// active flags, and a TTL in hours.  The JWT includes the subject (sub),
// employee_id, is_admin, is_active, expiration (exp) and issued at (iat)
// claims.
func NewAccessToken(secret string, userID uint64, employeeID string, isAdmin, isActive bool, ttlHours int) (AccessToken, error) {
	// Calculate the expiration time by adding the TTL to the current UTC time.
	exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
	// Construct the JWT claims.  Using MapClaims allows arbitrary key/value
	// pairs.  The subject carries the numeric user ID; employee_id is the
	// login identifier shown to admins.
	claims := jwt.MapClaims{
		"sub":         userID,
		"employee_id": employeeID,
		"is_admin":    isAdmin,
		"is_active":   isActive,
		"exp":         exp.Unix(),
		"iat":         time.Now().UTC().Unix(),
	}
	// Create a new token object specifying the signing method (HS256) and
	// include the claims.
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// Sign the token with the provided secret and obtain the string form.  If
	// signing fails, return the error and a zero AccessToken.
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
