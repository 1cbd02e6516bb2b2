package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Portal-api/internal/application/auth"
	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/application/identity"
	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/internal/infrastructure/memory"
	"github.com/jhoicas/Portal-api/pkg/jwt"
)

const (
	sessionSecret  = "session-secret"
	providerSecret = "provider-secret"
)

func newSession(t *testing.T) (*auth.SessionUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	resolver := identity.NewResolver(store.Accounts(), identity.BootstrapConfig{Email: "root@portal.local", AccountID: "bootstrap-admin"}, nil)
	uc := auth.NewSessionUseCase(resolver, store.Accounts(), policy.New(policy.DefaultTable()), auth.JWTConfig{
		Secret: sessionSecret, ExpMinutes: 30, Issuer: "portal-test",
		ProviderSecret: providerSecret, ProviderIssuer: "idp",
	}, nil)
	return uc, store
}

func idToken(t *testing.T, email string) string {
	t.Helper()
	tok, err := jwt.GenerateAssertion(providerSecret, "idp", "ext-"+email, email, time.Minute)
	require.NoError(t, err)
	return tok
}

func TestStartSession_CuentaActivaEmiteTokenYRegistraLogin(t *testing.T) {
	ctx := context.Background()
	uc, store := newSession(t)
	require.NoError(t, store.Accounts().Create(ctx, &entity.Account{
		ID: "a1", Email: "ada@x.com", Role: entity.RoleTeamLead, Status: entity.StatusActive,
	}))

	res, err := uc.StartSession(ctx, dto.StartSessionRequest{IDToken: idToken(t, "ada@x.com")})
	require.NoError(t, err)
	assert.Equal(t, 1800, res.ExpiresIn)
	assert.Equal(t, "team_lead", res.Account.Role)
	assert.Contains(t, res.Capabilities, policy.CapManageTeam)

	claims, err := jwt.Parse(sessionSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.UserID)
	assert.Equal(t, "team_lead", claims.Role)

	stored, err := store.Accounts().GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestStartSession_SinCuentaPideSolicitarAcceso(t *testing.T) {
	uc, _ := newSession(t)

	_, err := uc.StartSession(context.Background(), dto.StartSessionRequest{IDToken: idToken(t, "nadie@x.com")})
	assert.ErrorIs(t, err, domain.ErrNoAccount)
}

func TestStartSession_CuentaNoActiva(t *testing.T) {
	ctx := context.Background()
	uc, store := newSession(t)
	for _, st := range []entity.Status{entity.StatusPending, entity.StatusSuspended, entity.StatusInactive} {
		email := string(st) + "@x.com"
		require.NoError(t, store.Accounts().Create(ctx, &entity.Account{ID: email, Email: email, Role: entity.RoleMember, Status: st}))

		_, err := uc.StartSession(ctx, dto.StartSessionRequest{IDToken: idToken(t, email)})
		assert.ErrorIs(t, err, domain.ErrForbidden, st)
	}
	assert.Zero(t, store.Calls(memory.OpAccountTouchLogin))
}

func TestStartSession_ArranqueSinAlmacenamiento(t *testing.T) {
	uc, store := newSession(t)

	res, err := uc.StartSession(context.Background(), dto.StartSessionRequest{IDToken: idToken(t, "root@portal.local")})
	require.NoError(t, err)
	assert.Equal(t, "admin", res.Account.Role)
	assert.Zero(t, store.Calls(memory.OpAccountFindByEmail))
	assert.Zero(t, store.Calls(memory.OpAccountTouchLogin))
}

func TestStartSession_TokenInvalido(t *testing.T) {
	uc, _ := newSession(t)

	forged, err := jwt.GenerateAssertion("otra-clave", "idp", "ext", "root@portal.local", time.Minute)
	require.NoError(t, err)
	_, err = uc.StartSession(context.Background(), dto.StartSessionRequest{IDToken: forged})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.StartSession(context.Background(), dto.StartSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStartSession_FalloDeAlmacenamiento(t *testing.T) {
	uc, store := newSession(t)
	store.FailOn(memory.OpAccountFindByEmail, domain.ErrStoreUnavailable)

	_, err := uc.StartSession(context.Background(), dto.StartSessionRequest{IDToken: idToken(t, "ada@x.com")})
	assert.ErrorIs(t, err, domain.ErrResolution)
	assert.True(t, domain.IsRetryable(err))
}

func TestStartSession_FalloAlRegistrarLoginNoImpideSesion(t *testing.T) {
	ctx := context.Background()
	uc, store := newSession(t)
	require.NoError(t, store.Accounts().Create(ctx, &entity.Account{ID: "a1", Email: "ada@x.com", Role: entity.RoleMember, Status: entity.StatusActive}))
	store.FailOn(memory.OpAccountTouchLogin, domain.ErrStoreUnavailable)

	res, err := uc.StartSession(ctx, dto.StartSessionRequest{IDToken: idToken(t, "ada@x.com")})
	require.NoError(t, err)
	assert.Nil(t, res.Account.LastLoginAt)
}

func TestMe_CapacidadesYNavegacion(t *testing.T) {
	ctx := context.Background()
	uc, store := newSession(t)
	require.NoError(t, store.Accounts().Create(ctx, &entity.Account{ID: "e1", Email: "exec@x.com", Role: entity.RoleExecutive, Status: entity.StatusActive}))

	me, err := uc.Me(ctx, "exec@x.com")
	require.NoError(t, err)
	assert.Equal(t, "executive", me.Account.Role)
	assert.Contains(t, me.Capabilities, policy.CapApproveStrategic)
	assert.NotContains(t, me.Capabilities, policy.CapManageUsers)

	keys := make([]string, 0, len(me.Navigation))
	for _, s := range me.Navigation {
		keys = append(keys, s.Key)
	}
	assert.Contains(t, keys, "executive.dashboard")
	assert.NotContains(t, keys, "admin.users")
}

func TestMe_CuentaEliminadaTrasLaSesion(t *testing.T) {
	uc, _ := newSession(t)

	_, err := uc.Me(context.Background(), "borrada@x.com")
	assert.ErrorIs(t, err, domain.ErrNoAccount)
}

// ── Authenticate ──────────────────────────────────────────────────────────────

func TestAuthenticate_RolYEstadoAlmacenadosPrevalecen(t *testing.T) {
	ctx := context.Background()
	uc, store := newSession(t)
	acc := &entity.Account{ID: "a1", Email: "ada@x.com", Role: entity.RoleAdmin, Status: entity.StatusActive}
	require.NoError(t, store.Accounts().Create(ctx, acc))

	got, err := uc.Authenticate(ctx, "a1", "ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)

	acc.Role = entity.RoleMember
	require.NoError(t, store.Accounts().Update(ctx, acc))
	got, err = uc.Authenticate(ctx, "a1", "ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMember, got.Role, "el rol degradado se aplica sin nueva sesión")

	acc.Status = entity.StatusSuspended
	require.NoError(t, store.Accounts().Update(ctx, acc))
	_, err = uc.Authenticate(ctx, "a1", "ada@x.com")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, store.Accounts().Delete(ctx, "a1"))
	_, err = uc.Authenticate(ctx, "a1", "ada@x.com")
	assert.ErrorIs(t, err, domain.ErrNoAccount)
}

func TestAuthenticate_EmailReasignadoAOtraCuenta(t *testing.T) {
	ctx := context.Background()
	uc, store := newSession(t)
	require.NoError(t, store.Accounts().Create(ctx, &entity.Account{
		ID: "a2", Email: "ada@x.com", Role: entity.RoleMember, Status: entity.StatusActive,
	}))

	_, err := uc.Authenticate(ctx, "a1", "ada@x.com")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_ArranqueSinAlmacenamiento(t *testing.T) {
	uc, store := newSession(t)

	got, err := uc.Authenticate(context.Background(), "bootstrap-admin", "root@portal.local")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)
	assert.Zero(t, store.Calls(memory.OpAccountFindByEmail))
}

func TestAuthenticate_FalloDeAlmacenamientoEsReintentable(t *testing.T) {
	uc, store := newSession(t)
	store.FailOn(memory.OpAccountFindByEmail, domain.ErrStoreTimeout)

	_, err := uc.Authenticate(context.Background(), "a1", "ada@x.com")
	assert.ErrorIs(t, err, domain.ErrResolution)
	assert.True(t, domain.IsRetryable(err))
}
