// Package entry issues and verifies the signed links respondents reach through QR codes.
package entry

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed, tampered and expired entry tokens alike.
var ErrInvalidToken = errors.New("invalid entry token")

const issuer = "feedback-go"

// Issuer signs entry tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a token whose subject is the survey id.
func (i *Issuer) Issue(surveyID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Issuer:   issuer,
		Subject:  surveyID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign entry token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the survey id it was issued for.
func (i *Issuer) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithLeeway(30*time.Second),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// URL is the public address a respondent opens for the given token.
func URL(baseURL, token string) string {
	return fmt.Sprintf("%s/entry/%s", baseURL, url.PathEscape(token))
}

// QRImageURL points at the external QR service rendering entryURL.
func QRImageURL(serviceURL, entryURL string) string {
	q := url.Values{}
	q.Set("size", "300x300")
	q.Set("data", entryURL)
	return serviceURL + "?" + q.Encode()
}
