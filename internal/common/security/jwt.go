package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var (
	TokenAuth *jwtauth.JWTAuth
	tokenExp  time.Duration
)

func InitJWT(key []byte, exp time.Duration) {
	TokenAuth = jwtauth.New("HS256", key, nil)
	tokenExp = exp
}

// GenerateToken issues a stateless session credential. Role and permissions
// ride along as claims and are trusted until expiry; the server keeps no
// session state, so a changed account takes effect only at the next login.
func GenerateToken(userID, username, role, permissions string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":     userID,
		"username":    username,
		"role":        role,
		"permissions": permissions,
		"exp":         now.Add(tokenExp).Unix(),
		"iat":         now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

func stringClaim(claims map[string]interface{}, key string) (string, error) {
	v, ok := claims[key].(string)
	if !ok {
		return "", errors.New(key + " claim is missing or not a string")
	}
	return v, nil
}

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	return stringClaim(claims, "user_id")
}

func GetUsernameFromClaims(claims map[string]interface{}) (string, error) {
	return stringClaim(claims, "username")
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	return stringClaim(claims, "role")
}

func GetUserPermissionsFromClaims(claims map[string]interface{}) (string, error) {
	return stringClaim(claims, "permissions")
}
