package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Portal-api/internal/application/analytics"
	"github.com/jhoicas/Portal-api/internal/application/auth"
	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/application/identity"
	"github.com/jhoicas/Portal-api/internal/application/lifecycle"
	"github.com/jhoicas/Portal-api/internal/application/reports"
	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/internal/infrastructure/memory"
	"github.com/jhoicas/Portal-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Portal-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Portal-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Portal-api/pkg/jwt"
)

const (
	providerSecret = "provider-secret"
	providerIssuer = "idp-test"
	bootstrapEmail = "root@portal.local"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

// newTestServer arma el API completo sobre el almacenamiento en memoria.
func newTestServer(t *testing.T, limiter *apphttp.IPRateLimiter) *testServer {
	t.Helper()
	store := memory.NewStore()
	pol := policy.New(policy.DefaultTable())
	m := metrics.New()

	resolver := identity.NewResolver(store.Accounts(), identity.BootstrapConfig{Email: bootstrapEmail, AccountID: "bootstrap-admin"}, m)
	sessionUC := auth.NewSessionUseCase(resolver, store.Accounts(), pol, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		ProviderSecret: providerSecret, ProviderIssuer: providerIssuer,
	}, nil)
	manager := lifecycle.NewManager(pol, store.Accounts(), store.Requests(), store.Approvals(), store, nil, m, lifecycle.Config{BootstrapEmail: bootstrapEmail})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Policy:         pol,
		SessionUC:      sessionUC,
		Lifecycle:      manager,
		DashboardUC:    appanalytics.NewDashboardUseCase(store.Accounts(), store.Requests(), store.Approvals()),
		AccessReportUC: reports.NewAccessReportUseCase(store.Accounts(), store.Requests(), store.Approvals(), pol, infrapdf.NewMarotoPDFGenerator()),
		JWTSecret:      testJWTSecret,
		PublicLimiter:  limiter,
		RequestTimeout: 5 * time.Second,
		Metrics:        m,
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func sessionToken(t *testing.T, userID, email, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, email, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

// bootstrapToken sesión de la identidad de arranque (sin fila en la base).
func bootstrapToken(t *testing.T) string {
	t.Helper()
	return sessionToken(t, "bootstrap-admin", bootstrapEmail, "admin")
}

// seedAccount crea una cuenta activa y devuelve un token de sesión para ella.
func (s *testServer) seedAccount(t *testing.T, id, email string, role entity.Role) string {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, s.store.Accounts().Create(context.Background(), &entity.Account{
		ID: id, Email: email, FirstName: id, Role: role, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now,
	}))
	return sessionToken(t, id, email, string(role))
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

var adaRequest = dto.SubmitAccountRequestRequest{
	Email: "ada@x.com", FirstName: "Ada", LastName: "Lovelace", Department: "Engineering", Reason: "analytical engine",
}

func TestRouter_FlujoSolicitudAprobacionYSesion(t *testing.T) {
	s := newTestServer(t, nil)
	admin := bootstrapToken(t)

	// alta pública
	resp := s.do(t, http.MethodPost, "/api/account-requests", "", adaRequest)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	req := decode[dto.AccountRequestResponse](t, resp)
	assert.Equal(t, "pending", req.Status)

	// duplicada pendiente
	resp = s.do(t, http.MethodPost, "/api/account-requests", "", adaRequest)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)

	// sin sesión no se listan
	resp = s.do(t, http.MethodGet, "/api/account-requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// member no aprueba
	member := s.seedAccount(t, "mem-1", "mem@x.com", entity.RoleMember)
	resp = s.do(t, http.MethodPost, "/api/account-requests/"+req.ID+"/approve", member, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// admin aprueba como coordinator
	resp = s.do(t, http.MethodPost, "/api/account-requests/"+req.ID+"/approve", admin, dto.ApproveAccountRequestRequest{Role: "coordinator"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[dto.ApprovalResultResponse](t, resp)
	assert.Equal(t, "approved", result.Request.Status)
	assert.Equal(t, "active", result.Account.Status)
	assert.Equal(t, "coordinator", result.Account.Role)

	// segunda aprobación: transición inválida, no reintentable
	resp = s.do(t, http.MethodPost, "/api/account-requests/"+req.ID+"/approve", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_STATE_TRANSITION", errBody.Code)
	assert.False(t, errBody.Retryable)

	// la nueva cuenta inicia sesión con el ID token del proveedor
	idTok, err := pkgjwt.GenerateAssertion(providerSecret, providerIssuer, "ext-ada", "ada@x.com", time.Minute)
	require.NoError(t, err)
	resp = s.do(t, http.MethodPost, "/api/auth/session", "", dto.StartSessionRequest{IDToken: idTok})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decode[dto.SessionResponse](t, resp)
	assert.Contains(t, session.Capabilities, policy.CapUpdateTaskStatus)

	// /api/me con el token emitido
	resp = s.do(t, http.MethodGet, "/api/me", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.MeResponse](t, resp)
	assert.Equal(t, "ada@x.com", me.Account.Email)
	assert.NotEmpty(t, me.Navigation)
}

func TestRouter_SesionSinCuentaPideSolicitarAcceso(t *testing.T) {
	s := newTestServer(t, nil)
	idTok, err := pkgjwt.GenerateAssertion(providerSecret, providerIssuer, "ext-x", "nobody@x.com", time.Minute)
	require.NoError(t, err)

	resp := s.do(t, http.MethodPost, "/api/auth/session", "", dto.StartSessionRequest{IDToken: idTok})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NO_ACCOUNT", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_SesionBootstrapSinFilaEnBase(t *testing.T) {
	s := newTestServer(t, nil)
	idTok, err := pkgjwt.GenerateAssertion(providerSecret, providerIssuer, "ext-root", bootstrapEmail, time.Minute)
	require.NoError(t, err)

	resp := s.do(t, http.MethodPost, "/api/auth/session", "", dto.StartSessionRequest{IDToken: idTok})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decode[dto.SessionResponse](t, resp)
	assert.Equal(t, "admin", session.Account.Role)
	assert.Equal(t, 0, s.store.Calls(memory.OpAccountFindByEmail))
}

func TestRouter_AlmacenamientoCaidoEsReintentable(t *testing.T) {
	s := newTestServer(t, nil)
	s.store.FailOn(memory.OpAccountFindByEmail, domain.ErrStoreUnavailable)

	resp := s.do(t, http.MethodPost, "/api/account-requests", "", adaRequest)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("Retry-After"))
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "STORE_UNAVAILABLE", body.Code)
	assert.True(t, body.Retryable)
}

func TestRouter_ValidacionDevuelveCampos(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.do(t, http.MethodPost, "/api/account-requests", "", dto.SubmitAccountRequestRequest{Email: "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "first_name")
}

func TestRouter_RateLimitEnAltaPublica(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newTestServer(t, apphttp.NewIPRateLimiter(ctx, 1, 1, time.Minute))

	resp := s.do(t, http.MethodPost, "/api/account-requests", "", adaRequest)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/account-requests", "", adaRequest)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}

func TestRouter_AprobacionesEstrategicas(t *testing.T) {
	s := newTestServer(t, nil)
	member := s.seedAccount(t, "mem-1", "mem@x.com", entity.RoleMember)
	exec := s.seedAccount(t, "exe-1", "exe@x.com", entity.RoleExecutive)

	resp := s.do(t, http.MethodPost, "/api/strategic-approvals", member, dto.CreateStrategicApprovalRequest{
		Title: "Nueva sede", Description: "Abrir oficina en Bogotá", Category: "Strategic", Priority: "high",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	approval := decode[dto.StrategicApprovalResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/strategic-approvals/"+approval.ID+"/review", member, dto.ReviewStrategicApprovalRequest{Decision: "approved"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/strategic-approvals/"+approval.ID+"/under-review", exec, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "under_review", decode[dto.StrategicApprovalResponse](t, resp).Status)

	resp = s.do(t, http.MethodPost, "/api/strategic-approvals/"+approval.ID+"/review", exec, dto.ReviewStrategicApprovalRequest{Decision: "approved", Notes: "adelante"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", decode[dto.StrategicApprovalResponse](t, resp).Status)

	resp = s.do(t, http.MethodPost, "/api/strategic-approvals/"+approval.ID+"/review", exec, dto.ReviewStrategicApprovalRequest{Decision: "rejected"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/strategic-approvals?mine=true", member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.StrategicApprovalListResponse](t, resp)
	assert.Len(t, list.Items, 1)
}

func TestRouter_CuentasYPerfil(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, s.store.Accounts().Create(ctx, &entity.Account{
		ID: "acc-1", Email: "ada@x.com", FirstName: "Ada", LastName: "Lovelace",
		Role: entity.RoleMember, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now,
	}))
	admin := bootstrapToken(t)
	ada := sessionToken(t, "acc-1", "ada@x.com", "member")

	resp := s.do(t, http.MethodGet, "/api/accounts", ada, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/accounts/acc-1", ada, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "la cuenta propia se puede consultar")

	dept := "Research"
	resp = s.do(t, http.MethodPut, "/api/me/profile", ada, dto.UpdateProfileRequest{Department: &dept})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Research", decode[dto.AccountResponse](t, resp).Department)

	suspended := "suspended"
	resp = s.do(t, http.MethodPut, "/api/accounts/acc-1", admin, dto.UpdateAccountRequest{Status: &suspended})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "suspended", decode[dto.AccountResponse](t, resp).Status)

	resp = s.do(t, http.MethodGet, "/api/accounts?order_by=email", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.AccountListResponse](t, resp).Page.Total)

	resp = s.do(t, http.MethodDelete, "/api/accounts/acc-1", admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/accounts/acc-1", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_TablerosEInforme(t *testing.T) {
	s := newTestServer(t, nil)
	exec := s.seedAccount(t, "exe-1", "exe@x.com", entity.RoleExecutive)
	admin := bootstrapToken(t)

	resp := s.do(t, http.MethodGet, "/api/dashboard/executive", exec, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[dto.ExecutiveSummaryDTO](t, resp)
	assert.NotEmpty(t, summary.KPIs)

	resp = s.do(t, http.MethodGet, "/api/dashboard/admin", exec, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/dashboard/admin", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/reports/access.pdf", exec, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "informe-accesos-")
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestRouter_MetricasExpuestas(t *testing.T) {
	s := newTestServer(t, nil)
	_ = s.do(t, http.MethodPost, "/api/account-requests", "", adaRequest)

	resp := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `portal_lifecycle_transitions_total{kind="account_request",outcome="submitted"} 1`)
	assert.Contains(t, string(body), "portal_http_requests_total")
}

// ── Sesión vigente frente a cambios de la cuenta ──────────────────────────────

// adminSession crea un administrador almacenado e inicia sesión con el ID token del proveedor.
func adminSession(t *testing.T, s *testServer) string {
	t.Helper()
	s.seedAccount(t, "adm-2", "adm2@x.com", entity.RoleAdmin)
	idTok, err := pkgjwt.GenerateAssertion(providerSecret, providerIssuer, "ext-adm2", "adm2@x.com", time.Minute)
	require.NoError(t, err)
	resp := s.do(t, http.MethodPost, "/api/auth/session", "", dto.StartSessionRequest{IDToken: idTok})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.SessionResponse](t, resp).Token
}

func TestRouter_CuentaSuspendidaPierdeAccesoConSesionVigente(t *testing.T) {
	s := newTestServer(t, nil)
	root := bootstrapToken(t)
	adm2 := adminSession(t, s)

	resp := s.do(t, http.MethodPost, "/api/account-requests", "", adaRequest)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	req := decode[dto.AccountRequestResponse](t, resp)

	suspended := "suspended"
	resp = s.do(t, http.MethodPut, "/api/accounts/adm-2", root, dto.UpdateAccountRequest{Status: &suspended})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/account-requests/"+req.ID+"/approve", adm2, dto.ApproveAccountRequestRequest{Role: "admin"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Contains(t, body.Message, "suspended")

	resp = s.do(t, http.MethodGet, "/api/account-requests/"+req.ID, root, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", decode[dto.AccountRequestResponse](t, resp).Status)
	assert.Equal(t, 1, s.store.Calls(memory.OpAccountCreate), "solo la cuenta sembrada")
}

func TestRouter_CuentaEliminadaPierdeAccesoConSesionVigente(t *testing.T) {
	s := newTestServer(t, nil)
	root := bootstrapToken(t)
	adm2 := adminSession(t, s)

	resp := s.do(t, http.MethodGet, "/api/accounts", adm2, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/accounts/adm-2", root, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/accounts", adm2, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NO_ACCOUNT", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_RolDegradadoSeAplicaSinNuevaSesion(t *testing.T) {
	s := newTestServer(t, nil)
	root := bootstrapToken(t)
	adm2 := adminSession(t, s)

	member := "member"
	resp := s.do(t, http.MethodPut, "/api/accounts/adm-2", root, dto.UpdateAccountRequest{Role: &member})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/accounts", adm2, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)

	// la cuenta sigue activa: la ruta sin capacidad específica responde
	resp = s.do(t, http.MethodGet, "/api/me", adm2, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "member", decode[dto.MeResponse](t, resp).Account.Role)
}

func TestRouter_TokenDeCuentaInexistenteNoDaAcceso(t *testing.T) {
	s := newTestServer(t, nil)
	forged := sessionToken(t, "fantasma", "fantasma@x.com", "admin")

	resp := s.do(t, http.MethodGet, "/api/dashboard/admin", forged, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NO_ACCOUNT", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_ResolucionConTimeoutEsResolutionFailed(t *testing.T) {
	s := newTestServer(t, nil)
	s.store.FailOn(memory.OpAccountFindByEmail, domain.ErrStoreTimeout)
	idTok, err := pkgjwt.GenerateAssertion(providerSecret, providerIssuer, "ext-ada", "ada@x.com", time.Minute)
	require.NoError(t, err)

	resp := s.do(t, http.MethodPost, "/api/auth/session", "", dto.StartSessionRequest{IDToken: idTok})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("Retry-After"))
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "RESOLUTION_FAILED", body.Code)
	assert.True(t, body.Retryable)
}

func TestRouter_SolicitudParaEmailDeArranque(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.do(t, http.MethodPost, "/api/account-requests", "", dto.SubmitAccountRequestRequest{
		Email: bootstrapEmail, FirstName: "Root", LastName: "Admin",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", decode[dto.ErrorResponse](t, resp).Code)
}
