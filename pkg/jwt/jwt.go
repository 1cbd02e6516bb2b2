package jwt

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims del token de sesión propio. Role viaja en el token para que el middleware
// de permisos decida sin consultar la base.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// SessionClaims datos extraídos de un token de sesión válido.
type SessionClaims struct {
	UserID string
	Email  string
	Role   string
}

// Generate genera un token de sesión firmado (HS256).
func Generate(secret, userID, email, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token de sesión y devuelve sus claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*SessionClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(secret))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return &SessionClaims{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// providerClaims ID token emitido por el proveedor de identidad externo.
type providerClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// ParseAssertion verifica el ID token del proveedor y devuelve (sub, email).
// Si issuer no está vacío, el claim iss debe coincidir.
func ParseAssertion(secret, issuer, tokenString string) (externalID, email string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret del proveedor vacío")
	}
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	claims := &providerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(secret), opts...)
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", fmt.Errorf("claims inválidos")
	}
	if strings.TrimSpace(claims.Email) == "" {
		return "", "", fmt.Errorf("el token del proveedor no incluye email")
	}
	return claims.Subject, claims.Email, nil
}

// GenerateAssertion firma un ID token con el formato del proveedor (desarrollo y tests).
func GenerateAssertion(secret, issuer, externalID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := providerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   externalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func hmacKey(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}
