package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoomGrants are the capabilities a room token confers
type RoomGrants struct {
	RoomJoin       bool `json:"roomJoin"`
	CanPublish     bool `json:"canPublish"`
	CanSubscribe   bool `json:"canSubscribe"`
	CanPublishData bool `json:"canPublishData"`
}

// RoomClaims are the claims carried by a room capability token
type RoomClaims struct {
	Identity string     `json:"identity"`
	Room     string     `json:"room"`
	Grants   RoomGrants `json:"grants"`
	jwt.RegisteredClaims
}

// RoomTokenIssuer issues and verifies time-boxed capability tokens scoped to
// a single room. Dashboard identities get long-lived tokens with the full
// grant set; server-side publishers get short-lived join-and-publish tokens.
type RoomTokenIssuer struct {
	secretKey    []byte
	dashboardTTL time.Duration // default 10h
	publisherTTL time.Duration // default 5m
}

// NewRoomTokenIssuer creates a token issuer
func NewRoomTokenIssuer(secretKey string, dashboardTTL, publisherTTL time.Duration) (*RoomTokenIssuer, error) {
	if secretKey == "" {
		return nil, errors.New("room token secret cannot be empty")
	}

	if dashboardTTL == 0 {
		dashboardTTL = 10 * time.Hour
	}
	if publisherTTL == 0 {
		publisherTTL = 5 * time.Minute
	}

	return &RoomTokenIssuer{
		secretKey:    []byte(secretKey),
		dashboardTTL: dashboardTTL,
		publisherTTL: publisherTTL,
	}, nil
}

// IssueDashboardToken issues a long-lived token for a dashboard identity
// with room-join plus publish/subscribe/publish-data grants.
func (i *RoomTokenIssuer) IssueDashboardToken(identity, room string) (string, error) {
	return i.issue(identity, room, i.dashboardTTL, RoomGrants{
		RoomJoin:       true,
		CanPublish:     true,
		CanSubscribe:   true,
		CanPublishData: true,
	})
}

// IssuePublisherToken issues a short-lived token for a server-side publisher
func (i *RoomTokenIssuer) IssuePublisherToken(identity, room string) (string, error) {
	return i.issue(identity, room, i.publisherTTL, RoomGrants{
		RoomJoin:       true,
		CanPublish:     true,
		CanPublishData: true,
	})
}

func (i *RoomTokenIssuer) issue(identity, room string, ttl time.Duration, grants RoomGrants) (string, error) {
	if identity == "" || room == "" {
		return "", errors.New("identity and room are required")
	}

	now := time.Now()
	claims := RoomClaims{
		Identity: identity,
		Room:     room,
		Grants:   grants,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identity,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "frontdesk",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign room token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a room token, returning its claims
func (i *RoomTokenIssuer) Verify(tokenString string) (*RoomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RoomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse room token: %w", err)
	}

	if claims, ok := token.Claims.(*RoomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid room token")
}
