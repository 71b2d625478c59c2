package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the resolved caller: the stable subject id assigned by the
// external identity provider plus whatever profile fields its token carries.
type Identity struct {
	SubjectID string
	Email     string
	Name      string
}

type Verifier interface {
	Verify(tokenString string) (*Identity, error)
}

// JWTVerifier validates bearer tokens issued by the identity provider and
// maps their claims onto an Identity.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(tokenString string) (*Identity, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("verifier has no signing secret configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("token has no subject")
	}

	identity := &Identity{SubjectID: subject}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}

	return identity, nil
}
