package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// ShippingFreeThreshold : montant du sous-total à partir duquel la livraison
// est offerte (défaut 5000, en unités de prix catalogue).
func ShippingFreeThreshold() float64 {
	return envFloat("SHIPPING_FREE_THRESHOLD", 5000)
}

// ShippingFlatFee : frais de livraison forfaitaires sous le seuil (défaut 300).
func ShippingFlatFee() float64 {
	return envFloat("SHIPPING_FLAT_FEE", 300)
}

// CommissionRate : taux de commission affilié appliqué sur le total de ligne.
// Politique externe — un seul taux global pour l'instant.
func CommissionRate() float64 {
	return envFloat("AFFILIATE_COMMISSION_RATE", 0.08)
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("⚠️ Valeur invalide pour %s, on garde la valeur par défaut %.2f", key, fallback)
	}
	return fallback
}
