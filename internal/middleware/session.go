package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "fleur_session"

	sessionVisitorKey = "visitor_id"
	sessionStaffKey   = "staff_id"

	ctxVisitorID = "visitor_id"
	ctxSession   = "session"
	ctxStaffID   = "staff_id"
	ctxRole      = "role"
)

// NewCookieStore configure le store de sessions signées (30 jours).
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Visitor attribue à chaque visiteur un identifiant stable, stocké dans la session.
func Visitor(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, SessionName)
		if err != nil {
			// Cookie illisible (secret changé) : on repart d'une session neuve.
			log.Println("⚠️ Session invalide, nouvelle session :", err)
		}

		id, _ := sess.Values[sessionVisitorKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[sessionVisitorKey] = id
			if err := sess.Save(c.Request, c.Writer); err != nil {
				log.Println("❌ Erreur sauvegarde session :", err)
			}
		}

		c.Set(ctxVisitorID, id)
		c.Set(ctxSession, sess)
		c.Next()
	}
}

// VisitorID renvoie l'identifiant posé par Visitor.
func VisitorID(c *gin.Context) string {
	return c.GetString(ctxVisitorID)
}

// Session renvoie la session de la requête, ou nil hors du middleware Visitor.
func Session(c *gin.Context) *sessions.Session {
	if v, ok := c.Get(ctxSession); ok {
		if sess, ok := v.(*sessions.Session); ok {
			return sess
		}
	}
	return nil
}

// LoginStaff enregistre le compte staff dans la session.
func LoginStaff(c *gin.Context, staffID string) error {
	sess := Session(c)
	if sess == nil {
		return errors.New("session absente")
	}
	sess.Values[sessionStaffKey] = staffID
	return sess.Save(c.Request, c.Writer)
}

// LogoutStaff retire le compte staff de la session ; le panier du visiteur est conservé.
func LogoutStaff(c *gin.Context) error {
	sess := Session(c)
	if sess == nil {
		return nil
	}
	delete(sess.Values, sessionStaffKey)
	return sess.Save(c.Request, c.Writer)
}

// StaffID renvoie l'identifiant posé par StaffAuth.
func StaffID(c *gin.Context) string {
	return c.GetString(ctxStaffID)
}
