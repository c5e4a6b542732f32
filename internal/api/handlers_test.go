package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/service"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPlaceService struct {
	mock.Mock
}

func (m *mockPlaceService) GetPlace(ctx context.Context, placeID uuid.UUID) (*domain.Place, error) {
	args := m.Called(ctx, placeID)
	p, _ := args.Get(0).(*domain.Place)
	return p, args.Error(1)
}

func (m *mockPlaceService) ListPlacesByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Place, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]*domain.Place)
	return p, args.Error(1)
}

func (m *mockPlaceService) CreatePlace(
	ctx context.Context,
	callerID uuid.UUID,
	input service.CreatePlaceInput,
) (*domain.Place, error) {
	args := m.Called(ctx, callerID, input)
	p, _ := args.Get(0).(*domain.Place)
	return p, args.Error(1)
}

func (m *mockPlaceService) UpdatePlace(
	ctx context.Context,
	callerID, placeID uuid.UUID,
	title, description string,
) (*domain.Place, error) {
	args := m.Called(ctx, callerID, placeID, title, description)
	p, _ := args.Get(0).(*domain.Place)
	return p, args.Error(1)
}

func (m *mockPlaceService) DeletePlace(ctx context.Context, callerID, placeID uuid.UUID) error {
	return m.Called(ctx, callerID, placeID).Error(0)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Signup(ctx context.Context, input service.SignupInput) (*service.AuthResult, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

// pngBytes is the smallest prefix http.DetectContentType reports as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// multipartBody builds a multipart form with the given fields and, when
// image is non-nil, an "image" file part.
func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="pic.png"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// serve routes req through a chi router so URL params resolve, optionally
// as an authenticated caller.
func serve(
	method, pattern string,
	handler http.HandlerFunc,
	req *http.Request,
	callerID uuid.UUID,
) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Method(method, pattern, handler)

	if callerID != uuid.Nil {
		req = req.WithContext(shared.WithUserID(req.Context(), callerID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
