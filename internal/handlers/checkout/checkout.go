package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	engine "lumea_back_end/internal/checkout"
	"lumea_back_end/internal/config"
	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
	"lumea_back_end/internal/utils"
)

// selectionFromCart convertit le panier Redis en lignes de sélection pour le
// moteur de checkout. Le prix panier n'est qu'indicatif, il sera recalculé.
func selectionFromCart(cart []models.CartItem) []engine.SelectionLine {
	lines := make([]engine.SelectionLine, 0, len(cart))
	for _, item := range cart {
		lines = append(lines, engine.SelectionLine{
			ProductID:         item.ProductID,
			VariationID:       item.VariationID,
			Color:             item.Color,
			Size:              item.Size,
			RequestedQuantity: item.Quantity,
			CartUnitPrice:     item.Price,
			ProductName:       item.Name,
			AffiliateID:       item.AffiliateID,
		})
	}
	return lines
}

func loadCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := database.RedisClient.Get(ctx, "cart:"+userID).Result()
	if err != nil || data == "" {
		return nil, errors.New("panier vide")
	}
	var cart []models.CartItem
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, errors.New("panier vide")
	}
	return cart, nil
}

//
// 🟢 POST /api/checkout/availability
// Réconcilie le panier avec le catalogue et vérifie les stocks, sans rien
// réserver. Réponse purement consultative : seule la transaction de commit
// fait foi.
//
func CheckAvailability(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cart, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	store := engine.NewPGStore(database.PG)
	reconciled := engine.NewReconciler(store).Reconcile(ctx, selectionFromCart(cart))

	report, err := engine.NewAvailabilityChecker(store).Check(ctx, reconciled)
	if err != nil {
		log.Println("❌ Erreur vérification disponibilité:", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Vérification de stock indisponible, réessayez"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"all_available": report.AllAvailable,
		"availability":  report.Verdicts,
		"items":         reconciled,
	})
}

//
// 🟢 GET /api/checkout/shipping
// Détail des frais de livraison pour le panier courant
//
func ShippingQuote(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	cart, err := loadCart(c.Request.Context(), userID)
	if err != nil {
		cart = nil
	}

	subtotal := 0.0
	for _, item := range cart {
		subtotal += item.Price * float64(item.Quantity)
	}

	policy := models.ShippingPolicy{
		FlatFee:       config.ShippingFlatFee(),
		FreeThreshold: config.ShippingFreeThreshold(),
	}
	cost := engine.ShippingCost(subtotal, policy)

	c.JSON(http.StatusOK, models.ShippingCalculation{
		Subtotal:      subtotal,
		ShippingCost:  cost,
		FreeThreshold: policy.FreeThreshold,
		IsFree:        cost == 0,
		Total:         subtotal + cost,
	})
}

//
// 💳 POST /api/checkout/order
// Place la commande : réconciliation, vérification, commit atomique. Les
// effets de bord (commissions, email, vidage panier) partent après le commit
// et n'empêchent jamais la commande d'aboutir.
//
func PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	cart, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	session := engine.NewSession()
	store := engine.NewPGStore(database.PG)

	session.Transition(engine.StateReconciling)
	reconciled, err := engine.NewReconciler(store).ReconcileVerified(ctx, selectionFromCart(cart))
	if err != nil {
		// Catalogue injoignable même après relecture : on ne place pas une
		// commande sur des lignes non vérifiées
		session.Transition(engine.StateFailed)
		log.Println("❌ Catalogue injoignable au placement de commande:", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalogue momentanément indisponible, réessayez"})
		return
	}

	session.Transition(engine.StateChecking)
	report, err := engine.NewAvailabilityChecker(store).Check(ctx, reconciled)
	if err != nil {
		session.Transition(engine.StateFailed)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Vérification de stock indisponible, réessayez"})
		return
	}
	if !report.AllAvailable {
		session.Transition(engine.StateRejected)
		c.JSON(http.StatusConflict, gin.H{
			"error":        "Stock insuffisant",
			"availability": report.Verdicts,
		})
		return
	}

	session.Transition(engine.StateSubmitting)
	shipping := models.ShippingPolicy{
		FlatFee:       config.ShippingFlatFee(),
		FreeThreshold: config.ShippingFreeThreshold(),
	}
	order, err := engine.NewOrderBuilder(store, shipping).PlaceOrder(ctx, userID, input.PhoneNumber, reconciled)
	if err != nil {
		respondOrderError(c, session, err)
		return
	}
	session.Transition(engine.StateCommitted)

	// Commissions : best-effort, jamais bloquant pour la commande
	entries := engine.NewAttributor(store, config.CommissionRate()).Attribute(ctx, order)
	if len(entries) > 0 {
		log.Printf("💰 %d commission(s) enregistrée(s) pour la commande %s", len(entries), order.ID)
	}

	// Effets de bord post-commit, détachés de la requête
	go postCommitSideEffects(userID, c.GetString("email"), *order)

	log.Printf("✅ Commande %s créée pour user %s (%.2f€)", order.ID, userID, order.TotalAmount)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Commande confirmée",
		"order":   order,
	})
}

// respondOrderError traduit les erreurs du moteur en réponses HTTP
func respondOrderError(c *gin.Context, session *engine.Session, err error) {
	var vErr *engine.ValidationError
	var stockErr *engine.InsufficientStockError
	var pErr *engine.PersistenceError

	switch {
	case errors.As(err, &vErr):
		session.Transition(engine.StateRejected)
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
	case errors.As(err, &stockErr):
		// Un concurrent a pris le stock entre la vérification et le commit
		session.Transition(engine.StateRejected)
		c.JSON(http.StatusConflict, gin.H{
			"error":        "Stock insuffisant",
			"availability": stockErr.Shortfalls,
		})
	case errors.As(err, &pErr) && pErr.OutcomeUnknown:
		session.Transition(engine.StateFailed)
		log.Printf("⚠️ Commit au statut inconnu: %v", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "Le statut de votre commande est incertain. Vérifiez vos commandes avant de réessayer",
		})
	default:
		session.Transition(engine.StateFailed)
		log.Printf("❌ Erreur placement commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la commande, réessayez"})
	}
}

// postCommitSideEffects vide le panier et envoie l'email de confirmation avec
// la facture PDF. Tout échec est logué mais n'affecte pas la commande.
func postCommitSideEffects(userID, email string, order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// 🧹 Vider le panier et prévenir les clients connectés
	if err := database.RedisClient.Del(ctx, "cart:"+userID).Err(); err != nil {
		log.Println("⚠️ Erreur vidage panier post-commande:", err)
	}
	database.Redis.Publish(ctx, "cart:"+userID, "cleared")

	if email == "" {
		return
	}

	// 🧾 Facture PDF avec QR SEPA
	var pdf []byte
	iban, bic, name := utils.MerchantSepaDetails()
	if iban != "" {
		qr, err := utils.GenerateSepaQR(iban, bic, name, order.ID, order.TotalAmount)
		if err != nil {
			log.Println("⚠️ Erreur génération QR SEPA:", err)
			qr = ""
		}
		pdf, err = utils.RenderInvoicePDF(order, qr)
		if err != nil {
			log.Println("⚠️ Erreur génération facture PDF:", err)
			pdf = nil
		}
	}

	html := utils.GenerateOrderConfirmationHTML(order, email)
	if err := utils.SendConfirmationEmail(email, "Confirmation de votre commande Lumea", html, pdf); err != nil {
		log.Println("⚠️ Erreur envoi email confirmation:", err)
	}
}
