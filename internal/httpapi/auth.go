package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ServiceAccount is a calling service authorized to submit documents for
// parsing. The discourse parser has no notion of a player account, only of
// callers authenticating with a shared secret.
type ServiceAccount struct {
	ID         uuid.UUID
	Name       string
	SecretHash []byte
}

// ServiceAccountRepository looks up the service accounts an AuthHandler may
// authenticate a bearer token against.
type ServiceAccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (ServiceAccount, bool)
}

// authContextKey namespaces the values AuthHandler stores on a request's
// context.
type authContextKey int

const authAccountKey authContextKey = iota

// IssueToken creates a JWT for svc, signed with secret concatenated with the
// account's own bcrypt secret hash, so that rotating an account's secret
// invalidates every token issued under the old one.
func IssueToken(secret []byte, svc ServiceAccount) (string, error) {
	claims := jwt.MapClaims{
		"iss": "discourse-parsing",
		"sub": svc.ID.String(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	signKey := append(append([]byte(nil), secret...), svc.SecretHash...)
	return tok.SignedString(signKey)
}

// CheckSecret reports whether plaintext matches svc's stored bcrypt hash.
func CheckSecret(svc ServiceAccount, plaintext string) bool {
	return bcrypt.CompareHashAndPassword(svc.SecretHash, []byte(plaintext)) == nil
}

// HashSecret bcrypt-hashes a plaintext service-account secret for storage.
func HashSecret(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
}

// AuthHandler is bearer-JWT middleware: it extracts and validates the token,
// looks up the claimed service account, and rejects the request with
// HTTP-401 if that fails. On success the account is attached to the request
// context for handlers to read via AccountFromContext.
type AuthHandler struct {
	accounts ServiceAccountRepository
	secret   []byte
	next     http.Handler
}

// RequireAuth wraps next behind bearer-JWT authentication.
func RequireAuth(accounts ServiceAccountRepository, secret []byte, next http.Handler) *AuthHandler {
	return &AuthHandler{accounts: accounts, secret: secret, next: next}
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := bearerToken(req)
	if err != nil {
		jsonUnauthorized("", err.Error()).writeResponse(w, req)
		return
	}

	svc, err := ah.validate(req.Context(), tok)
	if err != nil {
		jsonUnauthorized("", err.Error()).writeResponse(w, req)
		return
	}

	ctx := context.WithValue(req.Context(), authAccountKey, svc)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

func (ah *AuthHandler) validate(ctx context.Context, tok string) (ServiceAccount, error) {
	var account ServiceAccount

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}
		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		svc, ok := ah.accounts.GetByID(ctx, id)
		if !ok {
			return nil, fmt.Errorf("subject does not exist")
		}
		account = svc

		signKey := append(append([]byte(nil), ah.secret...), svc.SecretHash...)
		return signKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("discourse-parsing"), jwt.WithLeeway(time.Minute))

	if err != nil {
		return ServiceAccount{}, err
	}
	return account, nil
}

func bearerToken(req *http.Request) (string, error) {
	h := req.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", fmt.Errorf("missing or malformed Authorization header")
	}
	return strings.TrimPrefix(h, prefix), nil
}

// AccountFromContext returns the ServiceAccount an AuthHandler attached to
// req's context. It panics if called on a request that never passed through
// one; callers are expected to register AuthHandler as required middleware
// ahead of any handler that calls this.
func AccountFromContext(ctx context.Context) ServiceAccount {
	return ctx.Value(authAccountKey).(ServiceAccount)
}
