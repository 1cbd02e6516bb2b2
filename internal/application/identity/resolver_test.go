package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Portal-api/internal/application/identity"
	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/infrastructure/memory"
)

var bootstrap = identity.BootstrapConfig{Email: "root@portal.local", AccountID: "bootstrap-admin"}

type countingMetrics struct{ outcomes []string }

func (m *countingMetrics) ObserveResolution(o string) { m.outcomes = append(m.outcomes, o) }

func TestResolve_IdentidadDeArranqueSinConsultarAlmacenamiento(t *testing.T) {
	store := memory.NewStore()
	r := identity.NewResolver(store.Accounts(), bootstrap, nil)

	res, err := r.Resolve(context.Background(), identity.Assertion{ExternalID: "ext-1", Email: "root@portal.local"})
	require.NoError(t, err)
	require.True(t, res.HasAccount())
	assert.Equal(t, identity.OutcomeBootstrap, res.Outcome)
	assert.Equal(t, entity.RoleAdmin, res.Account.Role)
	assert.Equal(t, entity.StatusActive, res.Account.Status)
	assert.Equal(t, "bootstrap-admin", res.Account.ID)
	assert.Equal(t, "ext-1", res.Account.ExternalID)
	assert.Zero(t, store.Calls(memory.OpAccountFindByEmail))
}

func TestResolve_IdentidadDeArranqueConAlmacenamientoCaido(t *testing.T) {
	store := memory.NewStore()
	store.FailOn(memory.OpAccountFindByEmail, domain.ErrStoreUnavailable)
	r := identity.NewResolver(store.Accounts(), bootstrap, nil)

	res, err := r.Resolve(context.Background(), identity.Assertion{Email: "root@portal.local"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, res.Account.Role)
}

func TestResolve_SinCuentaNoInventaRol(t *testing.T) {
	store := memory.NewStore()
	r := identity.NewResolver(store.Accounts(), bootstrap, nil)

	res, err := r.Resolve(context.Background(), identity.Assertion{ExternalID: "ext-2", Email: "nadie@x.com"})
	require.NoError(t, err)
	assert.False(t, res.HasAccount())
	assert.Equal(t, identity.OutcomeNoAccount, res.Outcome)
	assert.Equal(t, 1, store.Calls(memory.OpAccountFindByEmail))
}

func TestResolve_EmailDistingueMayusculas(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Accounts().Create(context.Background(), &entity.Account{
		ID: "a1", Email: "ada@x.com", Role: entity.RoleTeamLead, Status: entity.StatusActive,
	}))
	r := identity.NewResolver(store.Accounts(), bootstrap, nil)

	res, err := r.Resolve(context.Background(), identity.Assertion{Email: "Ada@x.com"})
	require.NoError(t, err)
	assert.False(t, res.HasAccount())
}

func TestResolve_EmailConEspaciosNoSeRecorta(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Accounts().Create(context.Background(), &entity.Account{
		ID: "a1", Email: "a@x.com", Role: entity.RoleAdmin, Status: entity.StatusActive,
	}))
	r := identity.NewResolver(store.Accounts(), bootstrap, nil)

	for _, email := range []string{" a@x.com", "a@x.com ", " root@portal.local"} {
		res, err := r.Resolve(context.Background(), identity.Assertion{Email: email})
		assert.ErrorIs(t, err, domain.ErrValidation, email)
		assert.False(t, res.HasAccount(), email)
	}
	assert.Zero(t, store.Calls(memory.OpAccountFindByEmail))
	assert.False(t, r.IsBootstrap(" root@portal.local"))
}

func TestResolve_CuentaAlmacenadaConDefectos(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Accounts().Create(context.Background(), &entity.Account{
		ID: "a1", Email: "ada@x.com", Role: entity.Role("superuser"), Status: entity.Status(""),
	}))
	r := identity.NewResolver(store.Accounts(), bootstrap, nil)

	res, err := r.Resolve(context.Background(), identity.Assertion{ExternalID: "ext-3", Email: "ada@x.com"})
	require.NoError(t, err)
	require.True(t, res.HasAccount())
	assert.Equal(t, entity.RoleMember, res.Account.Role)
	assert.Equal(t, entity.StatusPending, res.Account.Status, "un estado ausente nunca concede acceso")
	assert.Equal(t, "ext-3", res.Account.ExternalID)
	assert.Equal(t, "", res.Account.Department)
}

func TestResolve_CuentaValidaSeRespeta(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Accounts().Create(context.Background(), &entity.Account{
		ID: "a1", Email: "ada@x.com", Role: entity.RoleExecutive, Status: entity.StatusSuspended, Department: "Eng",
	}))
	r := identity.NewResolver(store.Accounts(), bootstrap, nil)

	res, err := r.Resolve(context.Background(), identity.Assertion{Email: "ada@x.com"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleExecutive, res.Account.Role)
	assert.Equal(t, entity.StatusSuspended, res.Account.Status)
	assert.Equal(t, "Eng", res.Account.Department)
}

func TestResolve_FalloDeAlmacenamientoEsErrorDeResolucion(t *testing.T) {
	store := memory.NewStore()
	store.FailOn(memory.OpAccountFindByEmail, domain.ErrStoreTimeout)
	m := &countingMetrics{}
	r := identity.NewResolver(store.Accounts(), bootstrap, m)

	res, err := r.Resolve(context.Background(), identity.Assertion{Email: "ada@x.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrResolution)
	assert.ErrorIs(t, err, domain.ErrStoreTimeout)
	assert.True(t, domain.IsRetryable(err))
	assert.False(t, res.HasAccount())
	assert.Equal(t, identity.OutcomeFailed, res.Outcome)
	assert.Equal(t, []string{"failed"}, m.outcomes)
}

func TestResolve_EmailVacioEsValidacion(t *testing.T) {
	r := identity.NewResolver(memory.NewStore().Accounts(), bootstrap, nil)

	_, err := r.Resolve(context.Background(), identity.Assertion{ExternalID: "ext", Email: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, domain.IsRetryable(err))
}

func TestResolve_SinEfectosSecundarios(t *testing.T) {
	store := memory.NewStore()
	r := identity.NewResolver(store.Accounts(), bootstrap, nil)

	_, err := r.Resolve(context.Background(), identity.Assertion{Email: "nuevo@x.com"})
	require.NoError(t, err)
	assert.Zero(t, store.Calls(memory.OpAccountCreate))
	assert.Zero(t, store.Calls(memory.OpAccountUpdate))
	assert.Zero(t, store.Calls(memory.OpAccountTouchLogin))
}

func TestHandleAuthStateChange_CadaLlamadaResuelveDeNuevo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	r := identity.NewResolver(store.Accounts(), bootstrap, nil)
	a := &identity.Assertion{Email: "ada@x.com"}

	res, err := r.HandleAuthStateChange(ctx, a)
	require.NoError(t, err)
	assert.False(t, res.HasAccount())

	require.NoError(t, store.Accounts().Create(ctx, &entity.Account{
		ID: "a1", Email: "ada@x.com", Role: entity.RoleMember, Status: entity.StatusActive,
	}))
	res, err = r.HandleAuthStateChange(ctx, a)
	require.NoError(t, err)
	assert.True(t, res.HasAccount())

	res, err = r.HandleAuthStateChange(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, identity.OutcomeAnonymous, res.Outcome)
	assert.False(t, res.HasAccount())
	assert.Equal(t, 2, store.Calls(memory.OpAccountFindByEmail))
}
