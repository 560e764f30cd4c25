package http

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/sessions"

	"github.com/azrova/azrovadash/internal/models"
)

// Session keys for the identity snapshot. Scalars rather than a struct so no
// gob registration is needed by either session store backend.
const (
	sessionKeyUserID   = "userID"
	sessionKeyUsername = "username"
	sessionKeyEmail    = "email"
	sessionKeyIsAdmin  = "isAdmin"
)

const contextKeySessionStore = "sessionStore"

// sessionStoreConfig carries the raw store so login can mint a session under
// a brand-new id instead of reusing the middleware-managed one.
type sessionStoreConfig struct {
	store   gorilla.Store
	name    string
	options gorilla.Options
}

// ExposeSessionStore makes the session store reachable from handlers. Must
// be registered after the sessions middleware.
func ExposeSessionStore(store gorilla.Store, name string, options gorilla.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeySessionStore, &sessionStoreConfig{
			store:   store,
			name:    name,
			options: options,
		})
		c.Next()
	}
}

func storeConfig(c *gin.Context) *sessionStoreConfig {
	if v, ok := c.Get(contextKeySessionStore); ok {
		if sc, ok := v.(*sessionStoreConfig); ok {
			return sc
		}
	}
	return nil
}

// currentUser reads the identity snapshot from the session. A nil result
// means the request is anonymous. The snapshot is trusted as-is; it is not
// re-validated against the store and can go stale until next login.
func currentUser(c *gin.Context) *models.SessionUser {
	session := sessions.Default(c)

	userID, ok := session.Get(sessionKeyUserID).(int64)
	if !ok {
		return nil
	}
	username, _ := session.Get(sessionKeyUsername).(string)
	email, _ := session.Get(sessionKeyEmail).(string)
	isAdmin, _ := session.Get(sessionKeyIsAdmin).(bool)

	return &models.SessionUser{
		ID:       userID,
		Username: username,
		Email:    email,
		IsAdmin:  isAdmin,
	}
}

// loginSession rotates the session on the anonymous to authenticated
// transition. The pre-login session and its server-side record are expired,
// and the identity snapshot is written into a session minted under a new id.
// Clearing values alone is not enough with a server-side backend: the
// pre-login id would keep resolving to the authenticated snapshot, so a
// fixated id would gain the login.
func loginSession(c *gin.Context, user *models.User) error {
	sc := storeConfig(c)
	if sc == nil {
		return errors.New("session store is not available")
	}

	old := sessions.Default(c)
	old.Clear()
	old.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := old.Save(); err != nil {
		return err
	}

	// An empty session id makes the backend generate a new one on Save.
	fresh := gorilla.NewSession(sc.store, sc.name)
	opts := sc.options
	fresh.Options = &opts
	fresh.IsNew = true
	fresh.Values[sessionKeyUserID] = user.ID
	fresh.Values[sessionKeyUsername] = user.Username
	fresh.Values[sessionKeyEmail] = user.Email
	fresh.Values[sessionKeyIsAdmin] = user.IsAdmin
	return sc.store.Save(c.Request, c.Writer, fresh)
}

// updateSessionProfile refreshes the mutable snapshot fields after a profile
// edit without touching authentication state.
func updateSessionProfile(c *gin.Context, username, email string) error {
	session := sessions.Default(c)
	session.Set(sessionKeyUsername, username)
	session.Set(sessionKeyEmail, email)
	return session.Save()
}

// destroySession clears the snapshot and expires the session cookie.
func destroySession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
