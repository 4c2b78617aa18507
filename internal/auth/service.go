package auth

import (
	"context"
	"errors"
	"time"

	"backend-trailmeet/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
)

const accessTokenTTL = 15 * time.Minute

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrTokenInvalid = errors.New("token invalid")
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Identity is the authenticated organizer behind a request.
type Identity struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName is what gets printed as the organizer of an event.
func (i Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	return i.Username
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

// Identify resolves a user id taken from a verified token. Without a
// configured database the id itself is the only identity available.
func (s *Service) Identify(ctx context.Context, userID string) (Identity, error) {
	if userID == "" {
		return Identity{}, ErrUnknownUser
	}
	if s.db == nil {
		return Identity{UserID: userID, Username: userID}, nil
	}

	row := s.db.QueryRow(ctx, `
		SELECT id, username, COALESCE(full_name, ''), COALESCE(avatar_url, '')
		FROM users WHERE id = $1
	`, userID)
	var id Identity
	if err := row.Scan(&id.UserID, &id.Username, &id.FullName, &id.AvatarURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrUnknownUser
		}
		return Identity{}, err
	}
	return id, nil
}

func (s *Service) IssueAccessToken(userID string) (string, error) {
	return s.signToken(userID, accessTokenTTL)
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) signToken(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
