package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// PasswordResetClaim is embedded in the signed password-reset link sent to a
// user. The token is stateless: expiry and user identity travel inside it.
type PasswordResetClaim struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "Polaris-Secret"
	}
	return secret
}

func resetTokenLifespan() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("RESET_TOKEN_HOUR_LIFESPAN"))
	if err != nil || hours <= 0 {
		hours = 1
	}
	return time.Duration(hours) * time.Hour
}

func GeneratePasswordResetToken(userID int, email string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &PasswordResetClaim{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(resetTokenLifespan()).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})
	return t.SignedString(jwtSecret)
}

// ValidatePasswordResetToken parses and verifies a reset token and returns
// its claim. Expired or tampered tokens fail here.
func ValidatePasswordResetToken(token string) (*PasswordResetClaim, error) {
	parsed, err := jwt.ParseWithClaims(token, &PasswordResetClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claim, ok := parsed.Claims.(*PasswordResetClaim)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid reset token")
	}
	return claim, nil
}
