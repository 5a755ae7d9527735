package utils

import (
	"bytes"
	"html/template"

	"fleur_back_end/internal/models"
)

var orderConfirmationTmpl = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Merci pour votre commande, {{.CustomerName}} !</h2>
		<p>Commande n° <strong>{{.ID}}</strong></p>
		<p>Livraison : {{.DeliveryAddress}}, {{.DeliveryCity}}</p>
		{{if .DeliveryNotes}}<p>Instructions : {{.DeliveryNotes}}</p>{{end}}
		{{if .CardMessage}}<p>Message de la carte : <em>{{.CardMessage}}</em></p>{{end}}
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Fleur</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
			{{range .Items}}
				<tr>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.ProductName}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Quantity}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.UnitPrice.StringFixed 2}} {{$.Currency}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Subtotal.StringFixed 2}} {{$.Currency}}</td>
				</tr>
			{{end}}
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total :</td>
					<td style="padding: 10px; font-weight: bold;">{{.TotalAmount.StringFixed 2}} {{.Currency}}</td>
				</tr>
			</tfoot>
		</table>
		<p>Paiement : {{if eq .PaymentMethod "card"}}carte bancaire{{else}}espèces à la livraison{{end}}</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Fleur</strong>
		</p>
	</div>
</body>
</html>`))

var contactTmpl = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif;">
	<h3>Nouveau message depuis le formulaire de contact</h3>
	<p><strong>Nom :</strong> {{.Name}}</p>
	{{if .Email}}<p><strong>E-mail :</strong> {{.Email}}</p>{{end}}
	{{if .Phone}}<p><strong>Téléphone :</strong> {{.Phone}}</p>{{end}}
	<p style="white-space: pre-wrap;">{{.Message}}</p>
</body>
</html>`))

// ContactMessage est un message envoyé depuis la page contact.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// OrderConfirmationSubject renvoie le sujet de l'e-mail de confirmation.
func OrderConfirmationSubject(order models.Order) string {
	return "Votre commande est confirmée, " + order.CustomerName
}

// OrderConfirmationHTML génère le reçu détaillé envoyé au client.
func OrderConfirmationHTML(order models.Order) (string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, order); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func ContactHTML(msg ContactMessage) (string, error) {
	var buf bytes.Buffer
	if err := contactTmpl.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}
