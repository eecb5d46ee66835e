package jwt

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("token carries an unknown role")
)

// AccessClaims is the identity embedded in an access token.
type AccessClaims struct {
	UserID     string
	EmployeeID *string
	Role       user.Role
	IsAdmin    bool
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	// GenerateAccessTokenWithTTL issues tokens for integrations with their own lifetime.
	GenerateAccessTokenWithTTL(claims AccessClaims, ttl time.Duration) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	return j.GenerateAccessTokenWithTTL(claims, expDuration)
}

func (j *JWTService) GenerateAccessTokenWithTTL(claims AccessClaims, ttl time.Duration) (token string, expiresAt int64, err error) {
	if !claims.Role.IsValid() {
		return "", 0, ErrInvalidRole
	}
	expiresAt = time.Now().Add(ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":     claims.UserID,
		"employee_id": returnValueOrNil(claims.EmployeeID),
		"role":        string(claims.Role),
		"is_admin":    claims.IsAdmin,
		"type":        "access",
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// ParseAccessClaims reads the identity back out of verified token claims.
func ParseAccessClaims(claims map[string]interface{}) (AccessClaims, error) {
	tokenType, _ := claims["type"].(string)
	if tokenType != "access" {
		return AccessClaims{}, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return AccessClaims{}, ErrInvalidToken
	}

	roleStr, _ := claims["role"].(string)
	role := user.Role(roleStr)
	if !role.IsValid() {
		return AccessClaims{}, ErrInvalidRole
	}

	out := AccessClaims{UserID: userID, Role: role}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		out.EmployeeID = &employeeID
	}
	if isAdmin, ok := claims["is_admin"].(bool); ok {
		out.IsAdmin = isAdmin
	}
	return out, nil
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
