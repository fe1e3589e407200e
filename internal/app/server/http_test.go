package server

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
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/lessonmap/internal/adapter/db"
	"github.com/eslsoft/lessonmap/internal/adapter/geocode"
	"github.com/eslsoft/lessonmap/internal/adapter/media/fake"
	"github.com/eslsoft/lessonmap/internal/adapter/media/local"
	"github.com/eslsoft/lessonmap/internal/adapter/metrics"
	"github.com/eslsoft/lessonmap/internal/adapter/transport"
	"github.com/eslsoft/lessonmap/internal/config"
	"github.com/eslsoft/lessonmap/internal/core"
	"github.com/eslsoft/lessonmap/internal/usecase"
)

const testJWTKey = "server-test-key"

type testApp struct {
	handler     http.Handler
	users       *db.UserRepository
	images      *fake.Store
	coordinator *usecase.LessonCoordinator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	drv, err := db.Open(db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	require.NoError(t, db.Migrate(context.Background(), drv))

	cfg := config.Config{
		JWTKey:             testJWTKey,
		UploadDir:          t.TempDir(),
		CORSAllowedOrigins: []string{"*"},
		MaxImageBytes:      1024,
	}
	log, _ := logtest.NewNullLogger()
	reg := metrics.NewRegistry()
	images := fake.NewStore("")

	lessons := db.NewLessonRepository(drv)
	users := db.NewUserRepository(drv)
	coordinator := usecase.NewLessonCoordinator(lessons, users, db.NewTxScope(drv), images, log)
	service := usecase.NewLessonService(lessons, users, NewInstrumentedCoordinator(reg, coordinator),
		geocode.NewStatic(core.Location{Lat: 40.7484, Lng: -73.9857}), log)

	handler, err := NewHTTPHandler(cfg, log, reg, NewAuthenticator(cfg),
		NewLessonRESTHandler(cfg, service, images, log),
		NewLessonConnectHandler(cfg, service, images, log))
	require.NoError(t, err)

	return &testApp{handler: handler, users: users, images: images, coordinator: coordinator}
}

func (a *testApp) seedUser(t *testing.T, name string) *core.User {
	t.Helper()

	now := time.Now().UTC()
	user, err := a.users.Create(context.Background(), core.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     strings.ToLower(name) + "@example.com",
		Image:     "avatar.png",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return user
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, transport.Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testJWTKey))
	require.NoError(t, err)
	return "Bearer " + signed
}

func lessonForm(t *testing.T) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Yoga"))
	require.NoError(t, writer.WriteField("description", "Morning flow class"))
	require.NoError(t, writer.WriteField("address", "20 W 34th St"))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="yoga.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestHTTPHandler_LessonLifecycle(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "Alice")

	body, contentType := lessonForm(t)
	req := httptest.NewRequest(http.MethodPost, "/api/lessons", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer(t, alice.ID))
	rec := app.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created transport.LessonResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotNil(t, created.Lesson)
	assert.Equal(t, alice.ID.String(), created.Lesson.Creator)
	assert.InDelta(t, 40.7484, created.Lesson.Location.Lat, 1e-9)
	assert.True(t, app.images.Has(created.Lesson.Image))

	rec = app.do(httptest.NewRequest(http.MethodGet, "/api/lessons/user/"+alice.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed transport.LessonsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	require.Len(t, listed.Lessons, 1)
	assert.Equal(t, created.Lesson.ID, listed.Lessons[0].ID)

	req = httptest.NewRequest(http.MethodDelete, "/api/lessons/"+created.Lesson.ID, nil)
	req.Header.Set("Authorization", bearer(t, alice.ID))
	rec = app.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	app.coordinator.Wait()
	assert.Contains(t, app.images.Released(), created.Lesson.Image)

	rec = app.do(httptest.NewRequest(http.MethodGet, "/api/lessons/user/"+alice.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	owner, err := app.users.Get(context.Background(), alice.ID, core.UserQueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, owner.LessonIDs)
}

func TestHTTPHandler_DeleteByOtherUserIsRejected(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "Alice")
	bob := app.seedUser(t, "Bob")

	body, contentType := lessonForm(t)
	req := httptest.NewRequest(http.MethodPost, "/api/lessons", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer(t, alice.ID))
	rec := app.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created transport.LessonResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	req = httptest.NewRequest(http.MethodDelete, "/api/lessons/"+created.Lesson.ID, nil)
	req.Header.Set("Authorization", bearer(t, bob.ID))
	rec = app.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(httptest.NewRequest(http.MethodGet, "/api/lessons/"+created.Lesson.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, app.images.Released())
}

func TestHTTPHandler_CreateRequiresToken(t *testing.T) {
	app := newTestApp(t)

	body, contentType := lessonForm(t)
	req := httptest.NewRequest(http.MethodPost, "/api/lessons", body)
	req.Header.Set("Content-Type", contentType)
	rec := app.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPHandler_Operational(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var msg transport.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	assert.Equal(t, "Could not find this route.", msg.Message)

	rec = app.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lessonmap_http_requests_total")
}

func TestHTTPHandler_ServesLocalUploadsFromAnyDir(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	dir := filepath.Join(t.TempDir(), "srv", "images")
	store, err := local.NewStore(dir, log)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), core.ImageUpload{
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	cfg := config.Config{JWTKey: testJWTKey, UploadDir: dir, CORSAllowedOrigins: []string{"*"}}
	handler, err := NewHTTPHandler(cfg, log, metrics.NewRegistry(), NewAuthenticator(cfg),
		NewLessonRESTHandler(cfg, nil, store, log),
		NewLessonConnectHandler(cfg, nil, store, log))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+ref, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}
