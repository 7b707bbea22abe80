/**
 * Copyright 2025-present Profit Bliss
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package auth

import (
	"errors"
	"time"

	"profitbliss-backend-go/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

// SessionIssuer issues and validates signed, self-contained session tokens.
// No server-side state: signature and expiry are the whole credential.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionIssuer creates an issuer with the provided secret and lifetime.
func NewSessionIssuer(secret string, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a session token embedding the account id and an absolute expiry.
func (s *SessionIssuer) Issue(accountId string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid": accountId,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks signature and expiry and returns the embedded account id.
// Expired tokens fail with ErrSessionExpired, everything else with
// ErrInvalidSession, so callers can branch.
func (s *SessionIssuer) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", store.ErrSessionExpired
		}
		return "", store.ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", store.ErrInvalidSession
	}

	accountId, ok := claims["uid"].(string)
	if !ok || accountId == "" {
		return "", store.ErrInvalidSession
	}

	return accountId, nil
}
