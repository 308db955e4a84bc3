package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Booking-api/internal/application/auth"
	"github.com/jhoicas/Booking-api/internal/application/usecase"
	"github.com/jhoicas/Booking-api/internal/application/voucher"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/orderpolicy"
	"github.com/jhoicas/Booking-api/internal/infrastructure/mail"
	"github.com/jhoicas/Booking-api/internal/infrastructure/memtest"
	"github.com/jhoicas/Booking-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Booking-api/internal/interfaces/http"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	app    *fiber.App
	store  *memtest.Store
	tokens *auth.TokenIssuer
}

func newTestServer(t *testing.T, db apphttp.Pinger) *testServer {
	t.Helper()
	store := memtest.NewStore()
	repos := store.Repositories()
	log := logger.Nop()
	tokens := auth.NewTokenIssuer(auth.JWTConfig{Secret: testJWTSecret, Issuer: testIssuer, ExpMinutes: testExpMin})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log, false)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(repos.Users, store, tokens),
		InvitationUC: usecase.NewInvitationUseCase(repos.Users, repos.Invitations, store, tokens, mail.NewLogMailer(log), "http://localhost:5173", log),
		AgentUC:      usecase.NewAgentUseCase(repos.Users),
		OrderUC: usecase.NewOrderUseCase(repos.Orders, repos.Users, store,
			orderpolicy.NewAuthorizer(orderpolicy.StatusPolicyStrict), log),
		BankAccountUC: usecase.NewBankAccountUseCase(repos.BankAccounts, repos.Users),
		VoucherUC: voucher.NewUseCase(repos.Orders, repos.Users, repos.BankAccounts,
			pdf.NewVoucherGenerator(), voucher.Agency{Name: "Viajes Sol"}, log),
		Users:     repos.Users,
		DB:        db,
		Env:       "test",
		JWTSecret: testJWTSecret,
	})
	return &testServer{app: app, store: store, tokens: tokens}
}

func (s *testServer) seed(t *testing.T, role entity.Role, email string, managerID *string) *entity.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	u := entity.NewUser(entity.NewUserParams{
		Role: role, Email: email, PasswordHash: hash, FirstName: "Nombre", LastName: "Apellido", ManagerID: managerID,
	}, time.Now())
	require.NoError(t, s.store.Repositories().Users.Create(context.Background(), u))
	return u
}

func (s *testServer) bearer(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := s.tokens.Issue(u)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call lanza la petición y decodifica el JSON de respuesta (si lo hay) en un mapa.
func (s *testServer) call(t *testing.T, method, path, authHeader string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var out map[string]any
	if len(raw) > 0 && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func errorOf(body map[string]any) map[string]any {
	e, _ := body["error"].(map[string]any)
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth y perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_PrimerAdminYLogin(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := s.call(t, http.MethodPost, "/api/admin/register-first-admin", "", map[string]any{
		"email": "root@example.com", "password": "password123", "firstName": "Root", "lastName": "Admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = s.call(t, http.MethodPost, "/api/admin/register-first-admin", "", map[string]any{
		"email": "otro@example.com", "password": "password123", "firstName": "Otro", "lastName": "Admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", errorOf(body)["code"])

	resp, body = s.call(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "root@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = s.call(t, http.MethodGet, "/api/profile", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", body["role"])
	assert.NotContains(t, body, "passwordHash")

	resp, _ = s.call(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "root@example.com", "password": "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_ValidacionDevuelve422ConCampos(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := s.call(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "no-es-email"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	e := errorOf(body)
	assert.Equal(t, "VALIDATION_ERROR", e["code"])
	assert.EqualValues(t, 422, e["status"])

	fields := []string{}
	for _, d := range e["details"].([]any) {
		fields = append(fields, d.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"email", "password"}, fields)
	assert.NotEmpty(t, e["stack"], "fuera de producción se incluye la traza")
}

func TestAPI_CuerpoMalformado_400(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_UsuarioDesactivado_401(t *testing.T) {
	s := newTestServer(t, nil)
	agent := s.seed(t, entity.RoleAgent, "a@example.com", nil)
	token := s.bearer(t, agent)

	agent.IsActive = false
	require.NoError(t, s.store.Repositories().Users.Update(context.Background(), agent))

	resp, _ := s.call(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invitación de un manager → agente asignado
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_InvitacionDeManager_AgenteQuedaAsignado(t *testing.T) {
	s := newTestServer(t, nil)
	manager := s.seed(t, entity.RoleManager, "m@example.com", nil)

	resp, body := s.call(t, http.MethodPost, "/api/invitations", s.bearer(t, manager), map[string]any{"email": "nuevo@example.com", "role": "agent"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	token := body["token"].(string)

	resp, body = s.call(t, http.MethodGet, "/api/auth/invitations/"+token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nuevo@example.com", body["email"])

	resp, body = s.call(t, http.MethodPost, "/api/auth/register/"+token, "", map[string]any{
		"password": "password123", "firstName": "Pablo", "lastName": "Soto",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "agent", user["role"])
	assert.Equal(t, manager.ID, user["managerId"])

	resp, body = s.call(t, http.MethodPost, "/api/auth/register/"+token, "", map[string]any{
		"password": "password123", "firstName": "Pablo", "lastName": "Soto",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INVITATION", errorOf(body)["code"])

	resp, body = s.call(t, http.MethodPost, "/api/invitations", s.bearer(t, manager), map[string]any{"email": "otro@example.com", "role": "manager"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, body)
}

func TestAPI_AgenteNoGestionaInvitacionesNiAgentes(t *testing.T) {
	s := newTestServer(t, nil)
	agent := s.seed(t, entity.RoleAgent, "a@example.com", nil)

	resp, _ := s.call(t, http.MethodGet, "/api/invitations", s.bearer(t, agent), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = s.call(t, http.MethodGet, "/api/agents", s.bearer(t, agent), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos: total, pago del depósito y bloqueo del importe
// ──────────────────────────────────────────────────────────────────────────────

func orderBody() map[string]any {
	return map[string]any{
		"clientName":        "Lucía Gómez",
		"reservationNumber": "RES-001",
		"checkIn":           "2026-11-02",
		"checkOut":          "2026-11-09",
		"nights":            7,
		"propertyName":      "Hotel Mirador",
		"cityTravel":        "Málaga",
		"countryTravel":     "España",
		"officialPrice":     1000,
		"taxClean":          50,
		"discount":          100,
		"deposit":           map[string]any{"amount": 300},
		"balance":           map[string]any{"amount": 650},
	}
}

func TestAPI_PedidoDepositoPagadoBloqueaImporte(t *testing.T) {
	s := newTestServer(t, nil)
	manager := s.seed(t, entity.RoleManager, "m@example.com", nil)
	agent := s.seed(t, entity.RoleAgent, "a@example.com", &manager.ID)
	agentToken, managerToken := s.bearer(t, agent), s.bearer(t, manager)

	resp, body := s.call(t, http.MethodPost, "/api/orders", agentToken, orderBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "950", body["totalPrice"])
	id := body["id"].(string)

	resp, body = s.call(t, http.MethodPatch, "/api/manager/orders/"+id+"/confirm-payment", managerToken, map[string]any{"payment": "deposit"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	deposit := body["deposit"].(map[string]any)
	assert.Equal(t, "paid", deposit["status"])
	assert.NotNil(t, deposit["paidDate"])

	resp, _ = s.call(t, http.MethodPut, "/api/orders/"+id, agentToken, map[string]any{"deposit": map[string]any{"amount": 999}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = s.call(t, http.MethodPut, "/api/orders/"+id, managerToken, map[string]any{"deposit": map[string]any{"amount": 999}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "999", body["deposit"].(map[string]any)["amount"])

	resp, body = s.call(t, http.MethodPatch, "/api/orders/"+id+"/deposit-paid", agentToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)

	resp, _ = s.call(t, http.MethodDelete, "/api/orders/"+id, agentToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_SoloAgentesCreanPedidos(t *testing.T) {
	s := newTestServer(t, nil)
	manager := s.seed(t, entity.RoleManager, "m@example.com", nil)

	resp, _ := s.call(t, http.MethodPost, "/api/orders", s.bearer(t, manager), orderBody())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_PedidoSinCliente_422(t *testing.T) {
	s := newTestServer(t, nil)
	agent := s.seed(t, entity.RoleAgent, "a@example.com", nil)

	in := orderBody()
	delete(in, "clientName")
	in["checkIn"] = "02/11/2026"
	resp, body := s.call(t, http.MethodPost, "/api/orders", s.bearer(t, agent), in)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	fields := []string{}
	for _, d := range errorOf(body)["details"].([]any) {
		fields = append(fields, d.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"clientName", "checkIn"}, fields)
}

func TestAPI_ManagerListaYApruebaYDescargaVoucher(t *testing.T) {
	s := newTestServer(t, nil)
	manager := s.seed(t, entity.RoleManager, "m@example.com", nil)
	other := s.seed(t, entity.RoleManager, "n@example.com", nil)
	agent := s.seed(t, entity.RoleAgent, "a@example.com", &manager.ID)
	agentToken, managerToken := s.bearer(t, agent), s.bearer(t, manager)

	resp, body := s.call(t, http.MethodPost, "/api/orders", agentToken, orderBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	id := body["id"].(string)

	resp, _ = s.call(t, http.MethodGet, "/api/orders/"+id+"/voucher", agentToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "pendiente: sin voucher")

	resp, body = s.call(t, http.MethodGet, "/api/manager/orders?status=pending", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["page"].(map[string]any)["total"])

	resp, body = s.call(t, http.MethodGet, "/api/manager/orders", s.bearer(t, other), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["page"].(map[string]any)["total"])

	resp, _ = s.call(t, http.MethodPatch, "/api/manager/orders/"+id+"/confirm", s.bearer(t, other), map[string]any{"statusOrder": "approved"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = s.call(t, http.MethodPatch, "/api/manager/orders/"+id+"/confirm", managerToken, map[string]any{"statusOrder": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "approved", body["statusOrder"])

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+id+"/voucher", nil)
	req.Header.Set("Authorization", agentToken)
	vresp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer vresp.Body.Close()
	require.Equal(t, http.StatusOK, vresp.StatusCode)
	assert.Equal(t, "application/pdf", vresp.Header.Get("Content-Type"))
	assert.Contains(t, vresp.Header.Get("Content-Disposition"), `filename="voucher-RES-001.pdf"`)
	pdfBytes, err := io.ReadAll(vresp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuentas bancarias y agentes
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CuentasBancarias(t *testing.T) {
	s := newTestServer(t, nil)
	manager := s.seed(t, entity.RoleManager, "m@example.com", nil)
	agent := s.seed(t, entity.RoleAgent, "a@example.com", &manager.ID)
	admin := s.seed(t, entity.RoleAdmin, "root@example.com", nil)
	managerToken := s.bearer(t, manager)

	account := map[string]any{
		"bankName":   "Banco Central",
		"swift":      "bcen esmm xxx",
		"iban":       "ES91 2100 0418 4502 0005 1332",
		"holderName": "Viajes Sol S.L.",
		"identifier": "EUR",
	}
	resp, body := s.call(t, http.MethodPost, "/api/bank-accounts", managerToken, account)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "BCENESMMXXX", body["swift"])
	id := body["id"].(string)

	resp, _ = s.call(t, http.MethodPost, "/api/bank-accounts", managerToken, account)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	account["holderName"] = "Viajes Sol 2000"
	account["identifier"] = "USD"
	resp, body = s.call(t, http.MethodPost, "/api/bank-accounts", managerToken, account)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "holderName", errorOf(body)["details"].([]any)[0].(map[string]any)["field"])

	resp, _ = s.call(t, http.MethodPost, "/api/bank-accounts", s.bearer(t, agent), account)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = s.call(t, http.MethodGet, "/api/bank-accounts/EUR", s.bearer(t, agent), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, id, body["id"])

	resp, _ = s.call(t, http.MethodGet, "/api/bank-accounts/EUR", s.bearer(t, admin), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = s.call(t, http.MethodGet, "/api/bank-accounts/EUR?manager_id="+manager.ID, s.bearer(t, admin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.call(t, http.MethodPut, "/api/bank-accounts/"+id, managerToken, map[string]any{"bankName": "Banco Norte"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Banco Norte", body["bankName"])

	resp, _ = s.call(t, http.MethodDelete, "/api/bank-accounts/"+id, managerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAPI_ToggleStatusDeAdmin_403(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.seed(t, entity.RoleAdmin, "root@example.com", nil)
	manager := s.seed(t, entity.RoleManager, "m@example.com", nil)
	agent := s.seed(t, entity.RoleAgent, "a@example.com", &manager.ID)

	resp, _ := s.call(t, http.MethodPatch, "/api/agents/"+admin.ID+"/toggle-status", s.bearer(t, admin), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := s.call(t, http.MethodPatch, "/api/agents/"+agent.ID+"/toggle-status", s.bearer(t, manager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["isActive"])

	resp, body = s.call(t, http.MethodGet, "/api/agents?active=false", s.bearer(t, manager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	s := newTestServer(t, pingFunc(func(context.Context) error { return nil }))
	resp, body := s.call(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, "test", body["environment"])

	s = newTestServer(t, pingFunc(func(context.Context) error { return errors.New("sin conexión") }))
	resp, body = s.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "disconnected", body["database"])
}

// ──────────────────────────────────────────────────────────────────────────────
// ErrorHandler
// ──────────────────────────────────────────────────────────────────────────────

func TestErrorHandler_ErrorInesperado(t *testing.T) {
	for _, production := range []bool{true, false} {
		app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop(), production)})
		app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("detalle interno") })

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		e := errorOf(body)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL", e["code"])
		if production {
			assert.NotContains(t, e["message"], "detalle interno")
			assert.NotContains(t, e, "stack")
		} else {
			assert.NotEmpty(t, e["stack"])
		}
	}
}

func TestErrorHandler_RutaInexistente_404(t *testing.T) {
	s := newTestServer(t, nil)
	resp, body := s.call(t, http.MethodGet, "/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorOf(body)["code"])
}
