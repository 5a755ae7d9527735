package user

import (
	"context"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/services"
	"fleur_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	Mailer services.Mailer
	Inbox  string
}

func NewContactHandler(mailer services.Mailer, inbox string) *ContactHandler {
	return &ContactHandler{Mailer: mailer, Inbox: inbox}
}

//
// 🟢 POST /api/contact
//
func (h *ContactHandler) SendContact(c *gin.Context) {
	var msg utils.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		respond.BadRequest(c, "Données invalides")
		return
	}
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Phone = strings.TrimSpace(msg.Phone)
	msg.Message = strings.TrimSpace(msg.Message)

	fields := map[string]string{}
	if msg.Name == "" {
		fields["name"] = "requis"
	}
	if msg.Message == "" {
		fields["message"] = "requis"
	}
	if msg.Email != "" {
		if _, err := mail.ParseAddress(msg.Email); err != nil {
			fields["email"] = "format invalide"
		}
	}
	if len(fields) > 0 {
		respond.Error(c, apperrors.Validation("Formulaire incomplet", fields))
		return
	}

	h.forward(c.Request.Context(), msg)
	c.JSON(http.StatusOK, gin.H{"message": "Message envoyé, merci !"})
}

// forward transmet le message à la boîte de la boutique ; un échec est seulement journalisé.
func (h *ContactHandler) forward(ctx context.Context, msg utils.ContactMessage) {
	if h.Mailer == nil || h.Inbox == "" {
		log.Println("⚠️ CONTACT_INBOX non configuré, message de contact non transmis :", msg.Name)
		return
	}

	html, err := utils.ContactHTML(msg)
	if err != nil {
		log.Println("❌ Erreur génération e-mail contact :", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	err = h.Mailer.Send(ctx, services.Message{
		To:      []string{h.Inbox},
		ReplyTo: msg.Email,
		Subject: "Nouveau message de " + msg.Name,
		HTML:    html,
	})
	if err != nil {
		log.Println("❌ Erreur envoi e-mail contact :", err)
		return
	}
	log.Println("📧 Message de contact transmis de", msg.Name)
}
