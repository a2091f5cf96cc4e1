package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyhub/internal/handler"
	"supplyhub/internal/middleware"
	"supplyhub/internal/model"
	"supplyhub/internal/repository"
	"supplyhub/internal/service"
)

// env bundles a memory-backed repository with the services and handlers
// under test. Session validation is bypassed by injecting session data
// straight into the request context.
type env struct {
	repo     *repository.MemoryAccountRepository
	accounts *service.AccountService
	auth     *handler.AuthHandler
	sellers  *handler.SellerHandler
	supplies *handler.SupplyHandler
	users    *handler.UserHandler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	repo := repository.NewMemoryAccountRepository()
	sellerSvc := service.NewSellerService(repo, false)
	supplySvc := service.NewSupplyService(repo)
	accountSvc := service.NewAccountService(repo, nil, sellerSvc)
	return &env{
		repo:     repo,
		accounts: accountSvc,
		auth:     handler.NewAuthHandler(accountSvc, nil),
		sellers:  handler.NewSellerHandler(sellerSvc),
		supplies: handler.NewSupplyHandler(supplySvc),
		users:    handler.NewUserHandler(accountSvc),
	}
}

// register creates an account directly through the service and returns a
// session for it.
func (e *env) register(t *testing.T, email string) *model.SessionData {
	t.Helper()
	acc, err := e.accounts.Register(context.Background(), email, "secret")
	require.NoError(t, err)
	return &model.SessionData{
		AccountID: acc.ID.Hex(),
		Email:     acc.Email,
		UserType:  acc.UserType,
	}
}

// do runs a handler against a request, optionally authenticated.
func do(h http.HandlerFunc, session *model.SessionData, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if session != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), session))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	e := newEnv(t)

	rec := do(e.auth.Register, nil, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"secret"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "registration successful", body["message"])
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a@example.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "secret", "password never leaves the server")
	assert.NotContains(t, user, "password")
}

func TestRegisterEndpoint_BadBody(t *testing.T) {
	e := newEnv(t)

	rec := do(e.auth.Register, nil, http.MethodPost, "/auth/register", "{not json")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["error"])
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.register(t, "a@example.com")

	rec := do(e.auth.Register, nil, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"secret"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "email already in use", body["error"])
}

func TestSellerEndpoints_RequireSession(t *testing.T) {
	e := newEnv(t)

	rec := do(e.sellers.List, nil, http.MethodGet, "/seller", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body, "error")
}

func TestSellerCreateAndList(t *testing.T) {
	e := newEnv(t)
	session := e.register(t, "a@example.com")

	rec := do(e.sellers.Create, session, http.MethodPost, "/seller",
		`{"seller_id":"1234567890","seller_name":"My Shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	seller, ok := body["seller"].(map[string]interface{})
	require.True(t, ok, "response is wrapped in a seller envelope")
	assert.Equal(t, "1234567890", seller["seller_id"])

	rec = do(e.sellers.List, session, http.MethodGet, "/seller", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	sellers, ok := body["sellers"].([]interface{})
	require.True(t, ok)
	require.Len(t, sellers, 1)
}

func TestSellerCreate_ValidationError(t *testing.T) {
	e := newEnv(t)
	session := e.register(t, "a@example.com")

	rec := do(e.sellers.Create, session, http.MethodPost, "/seller",
		`{"seller_id":"12345","seller_name":"My Shop"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["error"])
}

func TestSellerUpdate_MissingID(t *testing.T) {
	e := newEnv(t)
	session := e.register(t, "a@example.com")

	rec := do(e.sellers.Update, session, http.MethodPut, "/seller",
		`{"seller_id":"1234567890","seller_name":"My Shop"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSellerDelete_SuccessEnvelope(t *testing.T) {
	e := newEnv(t)
	session := e.register(t, "a@example.com")

	rec := do(e.sellers.Create, session, http.MethodPost, "/seller",
		`{"seller_id":"1234567890","seller_name":"My Shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e.sellers.Delete, session, http.MethodDelete, "/seller?id=1234567890", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestSupplyCreateAndList(t *testing.T) {
	e := newEnv(t)
	session := e.register(t, "a@example.com")

	rec := do(e.sellers.Create, session, http.MethodPost, "/seller",
		`{"seller_id":"1234567890","seller_name":"My Shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e.supplies.Create, session, http.MethodPost, "/supply?seller_id=1234567890",
		`{"preorder_id":"P-1","status":{"active":true,"booked":true,"attempts_count":5}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	supply, ok := body["supply"].(map[string]interface{})
	require.True(t, ok)
	status, ok := supply["status"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, status["active"], "client-supplied status is discarded")
	assert.Equal(t, false, status["booked"])
	assert.Equal(t, float64(0), status["attempts_count"])

	rec = do(e.supplies.List, session, http.MethodGet, "/supply?seller_id=1234567890", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	supplies, ok := body["supplies"].([]interface{})
	require.True(t, ok)
	require.Len(t, supplies, 1)
}

func TestSupplyList_MissingSellerScope(t *testing.T) {
	e := newEnv(t)
	session := e.register(t, "a@example.com")

	rec := do(e.supplies.List, session, http.MethodGet, "/supply", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["error"])
}

func TestSupplyUpdate_ForeignSellerIsNotFound(t *testing.T) {
	e := newEnv(t)
	owner := e.register(t, "owner@example.com")
	intruder := e.register(t, "intruder@example.com")

	rec := do(e.sellers.Create, owner, http.MethodPost, "/seller",
		`{"seller_id":"1234567890","seller_name":"My Shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e.supplies.Create, owner, http.MethodPost, "/supply?seller_id=1234567890",
		`{"preorder_id":"P-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	supply := decode(t, rec)["supply"].(map[string]interface{})
	supplyID := supply["_id"].(string)

	rec = do(e.supplies.Update, intruder, http.MethodPut,
		"/supply?id="+supplyID+"&seller_id=1234567890",
		`{"status":{"booked":true}}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserData_SetupCompleted(t *testing.T) {
	e := newEnv(t)
	session := e.register(t, "a@example.com")

	rec := do(e.users.GetData, session, http.MethodGet, "/user/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["setup_completed"])

	rec = do(e.sellers.Create, session, http.MethodPost, "/seller",
		`{"seller_id":"1234567890","seller_name":"My Shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e.users.GetData, session, http.MethodGet, "/user/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, true, body["setup_completed"])
	user := body["user"].(map[string]interface{})
	sellers, ok := user["sellers"].([]interface{})
	require.True(t, ok)
	require.Len(t, sellers, 1)
}

func TestUserGet_ExcludesSellers(t *testing.T) {
	e := newEnv(t)
	session := e.register(t, "a@example.com")

	rec := do(e.sellers.Create, session, http.MethodPost, "/seller",
		`{"seller_id":"1234567890","seller_name":"My Shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e.users.Get, session, http.MethodGet, "/user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]interface{})
	assert.NotContains(t, user, "sellers")
}

func TestUserUpdateWithSellers_ReplacesList(t *testing.T) {
	e := newEnv(t)
	session := e.register(t, "a@example.com")

	rec := do(e.sellers.Create, session, http.MethodPost, "/seller",
		`{"seller_id":"1234567890","seller_name":"Old Shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e.users.UpdateWithSellers, session, http.MethodPost, "/user/update",
		`{"sellers":[{"seller_id":"123456789012","seller_name":"New Shop"}],"telegram_id":"@keeper"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["setup_completed"])
	user := body["user"].(map[string]interface{})
	sellers := user["sellers"].([]interface{})
	require.Len(t, sellers, 1)
	first := sellers[0].(map[string]interface{})
	assert.Equal(t, "123456789012", first["seller_id"])
	assert.Equal(t, "@keeper", user["telegram_id"])
}
