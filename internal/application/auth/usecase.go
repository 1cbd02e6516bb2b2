package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/application/identity"
	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
	"github.com/jhoicas/Portal-api/pkg/jwt"
	"github.com/jhoicas/Portal-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens de sesión y verificación de ID tokens del proveedor.
type JWTConfig struct {
	Secret         string
	ExpMinutes     int
	Issuer         string
	ProviderSecret string
	ProviderIssuer string
}

// SessionUseCase inicio de sesión a partir de la aserción del proveedor y datos del usuario actual.
type SessionUseCase struct {
	resolver *identity.Resolver
	accounts repository.AccountRepository
	policy   *policy.Policy
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewSessionUseCase construye el caso de uso de sesión.
func NewSessionUseCase(resolver *identity.Resolver, accounts repository.AccountRepository, pol *policy.Policy, jwtCfg JWTConfig, log *logger.Logger) *SessionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionUseCase{
		resolver: resolver,
		accounts: accounts,
		policy:   pol,
		jwtCfg:   jwtCfg,
		log:      log.Component("session"),
		now:      time.Now,
	}
}

// StartSession verifica el ID token del proveedor, resuelve la cuenta y emite el token de sesión.
//
// Errores: ErrUnauthorized si el ID token no es válido; ErrNoAccount si la identidad no tiene
// cuenta (debe solicitar acceso); ErrForbidden si la cuenta no está activa; ErrResolution si
// falló el almacenamiento.
func (uc *SessionUseCase) StartSession(ctx context.Context, in dto.StartSessionRequest) (*dto.SessionResponse, error) {
	if strings.TrimSpace(in.IDToken) == "" {
		return nil, domain.NewValidationError(map[string]string{"id_token": "no puede estar vacío"})
	}
	externalID, email, err := jwt.ParseAssertion(uc.jwtCfg.ProviderSecret, uc.jwtCfg.ProviderIssuer, in.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	res, err := uc.resolver.Resolve(ctx, identity.Assertion{ExternalID: externalID, Email: email})
	if err != nil {
		return nil, err
	}
	if !res.HasAccount() {
		return nil, domain.ErrNoAccount
	}
	account := res.Account
	if account.Status != entity.StatusActive {
		return nil, fmt.Errorf("%w: cuenta en estado %s", domain.ErrForbidden, account.Status)
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, account.ID, account.Email, string(account.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	// La cuenta de arranque no está almacenada; el resto registra el inicio de sesión aparte
	// del resolvedor, que es de solo lectura.
	if res.Outcome == identity.OutcomeAccount {
		now := uc.now().UTC()
		if err := uc.accounts.TouchLastLogin(ctx, account.ID, now); err != nil {
			uc.log.Warn().Err(err).Str("account_id", account.ID).Msg("no se pudo registrar last_login")
		} else {
			account.LastLoginAt = &now
		}
	}

	uc.log.Info().Str("account_id", account.ID).Str("role", string(account.Role)).Msg("sesión iniciada")
	return &dto.SessionResponse{
		Token:        token,
		ExpiresIn:    uc.jwtCfg.ExpMinutes * 60,
		Account:      dto.FromAccount(account),
		Capabilities: uc.policy.Capabilities(account.Role),
	}, nil
}

// Authenticate vuelve a resolver la cuenta de una sesión vigente en cada petición protegida.
// El rol y el estado almacenados prevalecen sobre los del token: una cuenta suspendida,
// eliminada o con otro rol pierde o cambia sus permisos sin esperar a que expire la sesión.
//
// Errores: ErrNoAccount si la cuenta ya no existe; ErrUnauthorized si el email pertenece
// ahora a otra cuenta; ErrForbidden si la cuenta no está activa; ErrResolution si falló
// el almacenamiento.
func (uc *SessionUseCase) Authenticate(ctx context.Context, userID, email string) (*entity.Account, error) {
	account, err := uc.activeAccount(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.ID != userID {
		return nil, fmt.Errorf("%w: la sesión pertenece a otra cuenta", domain.ErrUnauthorized)
	}
	return account, nil
}

// Me vuelve a resolver la cuenta de la sesión y devuelve capacidades y navegación del rol actual.
func (uc *SessionUseCase) Me(ctx context.Context, email string) (*dto.MeResponse, error) {
	account, err := uc.activeAccount(ctx, email)
	if err != nil {
		return nil, err
	}

	sections := uc.policy.Navigation(account.Role)
	nav := make([]dto.NavSectionResponse, 0, len(sections))
	for _, s := range sections {
		nav = append(nav, dto.NavSectionResponse{Key: s.Key, Label: s.Label, Href: s.Href})
	}
	return &dto.MeResponse{
		Account:      dto.FromAccount(account),
		Capabilities: uc.policy.Capabilities(account.Role),
		Navigation:   nav,
	}, nil
}

func (uc *SessionUseCase) activeAccount(ctx context.Context, email string) (*entity.Account, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: la sesión no incluye email", domain.ErrUnauthorized)
	}
	res, err := uc.resolver.Resolve(ctx, identity.Assertion{Email: email})
	if err != nil {
		return nil, err
	}
	if !res.HasAccount() {
		return nil, domain.ErrNoAccount
	}
	if res.Account.Status != entity.StatusActive {
		return nil, fmt.Errorf("%w: cuenta en estado %s", domain.ErrForbidden, res.Account.Status)
	}
	return res.Account, nil
}
