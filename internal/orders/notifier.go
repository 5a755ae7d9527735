package orders

import (
	"context"
	"log"
	"sync"
	"time"

	"fleur_back_end/internal/models"
	"fleur_back_end/internal/services"
	"fleur_back_end/internal/utils"
)

// Notifier envoie la confirmation de commande en arrière-plan.
// Un échec d'envoi est seulement journalisé.
type Notifier struct {
	mailer    services.Mailer
	shopInbox string
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewNotifier(mailer services.Mailer, shopInbox string) *Notifier {
	return &Notifier{mailer: mailer, shopInbox: shopInbox, timeout: 30 * time.Second}
}

func (n *Notifier) OrderPlaced(order models.Order) {
	if n == nil || n.mailer == nil || order.CustomerEmail == "" {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		html, err := utils.OrderConfirmationHTML(order)
		if err != nil {
			log.Println("❌ Erreur génération e-mail confirmation :", err)
			return
		}
		msg := services.Message{
			To:      []string{order.CustomerEmail},
			Subject: utils.OrderConfirmationSubject(order),
			HTML:    html,
		}
		if n.shopInbox != "" {
			msg.Bcc = []string{n.shopInbox}
		}

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.mailer.Send(ctx, msg); err != nil {
			log.Println("❌ Erreur envoi e-mail confirmation :", err)
			return
		}
		log.Println("📧 E-mail de confirmation envoyé à", order.CustomerEmail)
	}()
}

// Wait attend la fin des envois en cours.
func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}
