package models

import "time"

type User struct {
	ID            string    `json:"user_id"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email"`
	Password      string    `json:"-"`
	Role          string    `json:"role,omitempty"`
	AffiliateCode *string   `json:"affiliateCode,omitempty"` // code de parrainage si l'utilisateur est affilié
	CreatedAt     time.Time `json:"created_at"`
}
