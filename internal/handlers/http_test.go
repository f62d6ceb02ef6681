package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/voxus/internal/middleware"
	"github.com/thereayou/voxus/internal/services"
	"github.com/thereayou/voxus/pkg/auth"
)

type httpHarness struct {
	*harness
	router *gin.Engine
	jwt    *auth.JWTManager
}

func newHTTPHarness(t *testing.T) *httpHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := newHarness(t)
	jwtManager := auth.NewJWTManager("secret", time.Hour)

	authH := NewAuthHandler(services.NewAuthService(h.db, jwtManager, nil))
	userH := NewUserHandler(h.svc)
	messageH := NewHTTPMessageHandler(h.svc, h.files)

	r := gin.New()
	r.POST("/auth/register", authH.Register)
	r.POST("/auth/login", authH.Login)
	api := r.Group("/api/v1", middleware.AuthMiddleware(jwtManager, nil))
	api.GET("/users/me", userH.GetMe)
	api.GET("/channels", userH.ListChannels)
	api.GET("/channels/:id/messages", messageH.GetChannelMessages)
	api.POST("/channels/:id/files", messageH.UploadFile)
	api.GET("/channels/:id/files/:fileId", messageH.DownloadFile)

	return &httpHarness{harness: h, router: r, jwt: jwtManager}
}

func (h *httpHarness) do(t *testing.T, req *http.Request, userID uint) *httptest.ResponseRecorder {
	t.Helper()
	if userID != 0 {
		token, _, err := h.jwt.Generate(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, channelID uint, name, contentType string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/channels/%d/files", channelID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHTTPHarness(t)

	body := `{"nick":"alice","email":"Alice@Example.com","password":"correct-horse"}`
	w := h.do(t, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body)), 0)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered services.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"email":"alice@example.com","password":"correct-horse"}`, http.StatusOK},
		{"wrong password", `{"email":"alice@example.com","password":"wrong-horse"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"bob@example.com","password":"correct-horse"}`, http.StatusUnauthorized},
		{"malformed", `{"email":"nope"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(t, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body)), 0)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	t.Run("duplicate nick", func(t *testing.T) {
		body := `{"nick":"alice","email":"other@example.com","password":"correct-horse"}`
		w := h.do(t, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body)), 0)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("me", func(t *testing.T) {
		w := h.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil), registered.User.ID)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"nick":"alice"`)
		assert.NotContains(t, w.Body.String(), "password")
	})
}

func TestUploadAndDownload(t *testing.T) {
	h := newHTTPHarness(t)
	alice, bob := h.user(t, "alice"), h.user(t, "bob")
	channel, _ := h.room(t, "general", alice)

	w := h.do(t, uploadRequest(t, channel.ID, "notes.txt", "text/plain", []byte("hello file")), alice.ID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var input services.FileInput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &input))
	assert.Equal(t, "notes.txt", input.Name)
	assert.Equal(t, int64(len("hello file")), input.Size)

	delivery, err := h.svc.SendMessage(context.Background(), alice.ID, channel.ID, "", []services.FileInput{input})
	require.NoError(t, err)
	require.Len(t, delivery.Message.Files, 1)
	fileURL := fmt.Sprintf("/api/v1/channels/%d/files/%d", channel.ID, delivery.Message.Files[0].ID)

	w = h.do(t, httptest.NewRequest(http.MethodGet, fileURL, nil), alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	got, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello file", string(got))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "notes.txt")

	t.Run("non member cannot download", func(t *testing.T) {
		w := h.do(t, httptest.NewRequest(http.MethodGet, fileURL, nil), bob.ID)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non member cannot upload", func(t *testing.T) {
		w := h.do(t, uploadRequest(t, channel.ID, "x.txt", "text/plain", []byte("x")), bob.ID)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejected type", func(t *testing.T) {
		w := h.do(t, uploadRequest(t, channel.ID, "run.sh", "application/x-sh", []byte("#!")), alice.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown file", func(t *testing.T) {
		url := fmt.Sprintf("/api/v1/channels/%d/files/999", channel.ID)
		w := h.do(t, httptest.NewRequest(http.MethodGet, url, nil), alice.ID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestChannelMessagesEndpoint(t *testing.T) {
	h := newHTTPHarness(t)
	alice := h.user(t, "alice")
	channel, _ := h.room(t, "general", alice)

	for i := 0; i < 3; i++ {
		_, err := h.svc.SendMessage(context.Background(), alice.ID, channel.ID, fmt.Sprintf("m%d", i), nil)
		require.NoError(t, err)
	}

	url := fmt.Sprintf("/api/v1/channels/%d/messages", channel.ID)
	w := h.do(t, httptest.NewRequest(http.MethodGet, url, nil), alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var page services.MessagePage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Messages, 3)

	w = h.do(t, httptest.NewRequest(http.MethodGet, url+"?offset=-1", nil), alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/channels/abc/messages", nil), alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, httptest.NewRequest(http.MethodGet, url, nil), 0)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
