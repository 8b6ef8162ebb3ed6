package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ncls-p/notes-sub001/internal/auth"
	"github.com/ncls-p/notes-sub001/internal/authz"
	"github.com/ncls-p/notes-sub001/internal/database"
	"github.com/ncls-p/notes-sub001/internal/handlers"
	"github.com/ncls-p/notes-sub001/internal/middleware"
	"github.com/ncls-p/notes-sub001/internal/repositories"
	"github.com/ncls-p/notes-sub001/internal/router"
	"github.com/ncls-p/notes-sub001/internal/services"
	"github.com/ncls-p/notes-sub001/internal/share"
	"github.com/ncls-p/notes-sub001/pkg/logger"
)

// testServer hosts the whole API over an in-memory database, with no
// Redis, Kafka, or user directory attached.
type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger.Log = zerolog.New(io.Discard)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	issuer, err := auth.NewSessionIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	revocations := auth.NewRevocationList(time.Minute)
	t.Cleanup(revocations.Stop)

	verifier := auth.NewSessionVerifier("access-secret", "refresh-secret", revocations)

	userRepo := repositories.NewUserRepository(db)
	folderRepo := repositories.NewFolderRepository(db)
	noteRepo := repositories.NewNoteRepository(db)
	shareRepo := repositories.NewShareRepository(db, nil)
	publicStore := repositories.NewPublicAccessStore(db)

	authzService := authz.NewService(shareRepo)
	shareMgr := share.NewManager(publicStore)

	var directory *services.UserDirectory

	authHandler := handlers.NewAuthHandler(userRepo, issuer, verifier, revocations, nil, false)
	folderHandler := handlers.NewFolderHandler(folderRepo, noteRepo, shareRepo, userRepo, directory, authzService, shareMgr, nil)
	noteHandler := handlers.NewNoteHandler(noteRepo, folderRepo, shareRepo, userRepo, directory, authzService, shareMgr, nil)
	publicHandler := handlers.NewPublicHandler(shareMgr, noteRepo)

	engine := gin.New()
	router.SetupRouter(engine, authHandler, folderHandler, noteHandler, publicHandler, middleware.AuthMiddleware(verifier))

	return &testServer{engine: engine, db: db}
}

// request performs one API call. A non-empty token goes in the
// Authorization header; cookies ride along as given.
func (s *testServer) request(t *testing.T, method, path, token string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	s.engine.ServeHTTP(recorder, req)
	return recorder
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()

	var envelope apiEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder, out any) {
	t.Helper()

	envelope := decodeEnvelope(t, recorder)
	require.NotEmpty(t, envelope.Data, "response carried no data: %s", recorder.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

// registerUser creates an account through the API and returns the
// access token plus the refresh cookie.
func (s *testServer) registerUser(t *testing.T, email string) (string, *http.Cookie) {
	t.Helper()

	recorder := s.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	decodeData(t, recorder, &data)
	require.NotEmpty(t, data.AccessToken)

	var refreshCookie *http.Cookie
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == handlers.RefreshCookieName {
			refreshCookie = cookie
		}
	}
	require.NotNil(t, refreshCookie, "register must set the refresh cookie")

	return data.AccessToken, refreshCookie
}
