package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"

	"lumea_back_end/internal/models"
)

// GenerateSepaQR génère un QR SEPA (EPC) en base64 prêt à mettre dans <img src="...">
func GenerateSepaQR(iban, bic, name, ref string, amount float64) (string, error) {
	// format EPC basique
	sepa := fmt.Sprintf(`BCD
001
1
SCT
%s
%s
%s
EUR%.2f
%s`, bic, name, iban, amount, ref)

	png, err := qrcode.Encode(sepa, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RenderInvoicePDF génère la facture en HTML côté serveur et l'imprime en PDF
// via Chrome headless.
func RenderInvoicePDF(order models.Order, qrBase64 string) ([]byte, error) {
	html := buildInvoiceHTML(order, qrBase64)
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

func buildInvoiceHTML(order models.Order, qrBase64 string) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(`<tr>
			<td>%s (%s %s)</td>
			<td>%s</td>
			<td>%d</td>
			<td>%.2f€</td>
			<td>%.2f€</td>
		</tr>`, item.ProductName, item.Color, item.Size, item.SKU,
			item.Quantity, item.UnitPrice, item.UnitPrice*float64(item.Quantity)))
	}

	qrBlock := ""
	if qrBase64 != "" {
		qrBlock = fmt.Sprintf(`<div style="margin-top:30px;">
			<p>Scannez pour payer par virement SEPA :</p>
			<img src="%s" width="160" height="160" alt="QR SEPA">
		</div>`, qrBase64)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Facture %s</title></head>
<body style="font-family: Arial, sans-serif; padding: 40px; color: #222;">
	<h1 style="color:#333;">Facture</h1>
	<p>Commande n° <strong>%s</strong><br>
	Date : %s</p>
	<table style="width:100%%; border-collapse: collapse; margin: 20px 0;" border="1" cellpadding="8">
		<thead>
			<tr style="background:#f0f0f0;">
				<th>Article</th><th>SKU</th><th>Qté</th><th>PU</th><th>Total</th>
			</tr>
		</thead>
		<tbody>%s</tbody>
		<tfoot>
			<tr><td colspan="4" style="text-align:right;font-weight:bold;">Total TTC</td>
			<td style="font-weight:bold;">%.2f€</td></tr>
		</tfoot>
	</table>
	%s
	<p style="margin-top:40px;color:#777;">Lumea — merci pour votre commande.</p>
</body>
</html>`, order.ID, order.ID, order.CreatedAt.Format("02/01/2006"), rows.String(), order.TotalAmount, qrBlock)
}

// Helper: coordonnées bancaires du marchand depuis l'env
func MerchantSepaDetails() (iban, bic, name string) {
	iban = os.Getenv("MERCHANT_IBAN")
	bic = os.Getenv("MERCHANT_BIC")
	name = os.Getenv("MERCHANT_NAME")
	if name == "" {
		name = "Lumea SRL"
	}
	return
}
