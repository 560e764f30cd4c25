package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azrova/azrovadash/internal/models"
)

// memoryStore is a server-side session backend for tests. Records are keyed
// by a generated session id carried in the cookie, like the redis store, so
// it exercises the id lifecycle the cookie store cannot.
type memoryStore struct {
	options gorilla.Options
	records map[string]map[any]any
	nextID  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		options: gorilla.Options{Path: "/", MaxAge: 3600, HttpOnly: true},
		records: make(map[string]map[any]any),
	}
}

func (m *memoryStore) Get(r *http.Request, name string) (*gorilla.Session, error) {
	return m.New(r, name)
}

func (m *memoryStore) New(r *http.Request, name string) (*gorilla.Session, error) {
	session := gorilla.NewSession(m, name)
	opts := m.options
	session.Options = &opts
	session.IsNew = true
	if c, err := r.Cookie(name); err == nil {
		if values, ok := m.records[c.Value]; ok {
			session.ID = c.Value
			for k, v := range values {
				session.Values[k] = v
			}
			session.IsNew = false
		}
	}
	return session, nil
}

func (m *memoryStore) Save(r *http.Request, w http.ResponseWriter, session *gorilla.Session) error {
	if session.Options.MaxAge <= 0 {
		delete(m.records, session.ID)
		http.SetCookie(w, gorilla.NewCookie(session.Name(), "", session.Options))
		return nil
	}
	if session.ID == "" {
		m.nextID++
		session.ID = fmt.Sprintf("session-%d", m.nextID)
	}
	values := make(map[any]any, len(session.Values))
	for k, v := range session.Values {
		values[k] = v
	}
	m.records[session.ID] = values
	http.SetCookie(w, gorilla.NewCookie(session.Name(), session.ID, session.Options))
	return nil
}

func (m *memoryStore) Options(options sessions.Options) {
	m.options = gorilla.Options{
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
	}
}

func TestLoginRotatesSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemoryStore()
	router := gin.New()
	router.Use(sessions.Sessions("test_session", store))
	router.Use(ExposeSessionStore(store, "test_session", store.options))

	router.GET("/touch", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("seen", true)
		require.NoError(t, session.Save())
		c.Status(http.StatusOK)
	})
	router.GET("/fake-login", func(c *gin.Context) {
		require.NoError(t, loginSession(c, &models.User{
			ID:       1,
			Username: "alice",
			Email:    "alice@example.com",
		}))
		c.Status(http.StatusOK)
	})
	router.GET("/dashboard", AuthRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	sessionCookie := func(w *httptest.ResponseRecorder) *http.Cookie {
		var last *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == "test_session" {
				last = c
			}
		}
		require.NotNil(t, last)
		return last
	}

	// An attacker plants an anonymous session id.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/touch", nil))
	fixated := sessionCookie(w)
	require.NotEmpty(t, fixated.Value)

	// The victim logs in carrying that id.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fake-login", nil)
	req.AddCookie(fixated)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	rotated := sessionCookie(w)

	assert.NotEqual(t, fixated.Value, rotated.Value, "login must issue a new session id")
	_, alive := store.records[fixated.Value]
	assert.False(t, alive, "pre-login session record must be expired")

	// The planted id does not authenticate.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(fixated)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)

	// The rotated id does.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(rotated)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
