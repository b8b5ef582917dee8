package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lumea_back_end/internal/models"
)

// JWTSecret : clé de signature partagée entre l'émission et la vérification.
// Lue à la demande (jamais au chargement du package) pour que le .env chargé
// par config.Load() soit bien pris en compte.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

func GenerateJWT(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}
