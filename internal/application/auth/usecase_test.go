package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret"
	testPassword = "s3cret!"
	testContract = "C-1001"
)

type harness struct {
	uc       *AuthUseCase
	users    *fakeUsers
	sessions *fakeSessions
	logs     *fakeLogs
	sender   *fakeSender
	attempts *fakeAttempts
	company  *entity.Company
	clock    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		users:    newFakeUsers(),
		sessions: newFakeSessions(),
		logs:     &fakeLogs{},
		sender:   &fakeSender{},
		attempts: &fakeAttempts{n: map[string]int64{}},
		company:  &entity.Company{ID: uuid.New().String(), Name: "Acme", ContractNumber: testContract},
		clock:    time.Now(),
	}
	h.uc = NewAuthUseCase(Deps{
		Users:     h.users,
		Companies: &fakeCompanies{list: []*entity.Company{h.company}},
		Sessions:  h.sessions,
		Logs:      h.logs,
		Tx:        &fakeTx{users: h.users, sessions: h.sessions},
		Sender:    h.sender,
		Attempts:  h.attempts,
	}, Config{
		JWTSecret:      testSecret,
		Issuer:         "selfcare-test",
		SessionTTL:     24 * time.Hour,
		OTPTTL:         10 * time.Minute,
		OTPMaxAttempts: 3,
		BcryptCost:     bcrypt.MinCost,
	})
	h.uc.now = func() time.Time { return h.clock }
	return h
}

func (h *harness) seedUser(t *testing.T, username, role, status string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	phone := "35569" + username
	u := &entity.User{
		ID:           uuid.New().String(),
		Username:     &username,
		Phone:        &phone,
		PasswordHash: string(hash),
		Role:         role,
		CompanyID:    &h.company.ID,
		Status:       status,
		CreatedAt:    h.clock,
		UpdatedAt:    h.clock,
	}
	require.NoError(t, h.users.Create(context.Background(), u))
	return u
}

// loginAndVerify devuelve la sesión de un usuario verificado.
func (h *harness) loginAndVerify(t *testing.T, username string) *dto.SessionResponse {
	t.Helper()
	ctx := context.Background()
	res, err := h.uc.Login(ctx, dto.LoginRequest{Username: username, Password: testPassword}, RequestMeta{})
	require.NoError(t, err)
	sess, err := h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: h.sender.last()}, RequestMeta{})
	require.NoError(t, err)
	return sess
}

// ─── Login ───────────────────────────────────────────────────────────────────

func TestLogin_EmiteOTPConVencimientoDiezMinutos(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser(t, "ana", entity.RoleSMEA, entity.UserStatusVerified)

	res, err := h.uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: testPassword}, RequestMeta{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, MsgOTPSent, res.Message)

	stored, _ := h.users.GetByID(context.Background(), u.ID)
	require.NotNil(t, stored.OTP)
	assert.Len(t, *stored.OTP, 6)
	assert.WithinDuration(t, h.clock.Add(10*time.Minute), *stored.OTPExpiry, time.Second)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, *u.Phone, h.sender.sent[0].recipient)
	assert.Equal(t, *stored.OTP, h.sender.sent[0].code)
	assert.Contains(t, h.logs.actions(), entity.ActionUserLogin)
}

func TestLogin_AceptaTelefonoComoUsuario(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)

	res, err := h.uc.Login(context.Background(), dto.LoginRequest{Username: *u.Phone, Password: testPassword}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	ctx := context.Background()

	_, err := h.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "incorrecta"}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = h.uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: testPassword}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "usuario inexistente y contraseña incorrecta deben ser indistinguibles")

	_, err = h.uc.Login(ctx, dto.LoginRequest{Username: "", Password: testPassword}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, h.sender.sent)
}

func TestLogin_CuentaPendienteNoVerificada(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleSMEA, entity.UserStatusPending)

	_, err := h.uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: testPassword}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrNotVerified)
}

func TestLogin_FalloDeEnvioNoFallaLogin(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	h.sender.err = assert.AnError

	_, err := h.uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: testPassword}, RequestMeta{})
	assert.NoError(t, err)
}

// ─── VerifyOTP ───────────────────────────────────────────────────────────────

func TestVerifyOTP_CreaSesionYConsumeCodigo(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser(t, "ana", entity.RoleSMEA, entity.UserStatusVerified)

	sess := h.loginAndVerify(t, "ana")
	assert.Equal(t, MsgOTPVerified, sess.Message)
	assert.Equal(t, u.ID, sess.User.ID)
	assert.Equal(t, entity.RoleSMEA, sess.User.Role)
	assert.Equal(t, 1, h.sessions.count(), "exactamente una sesión")

	stored, _ := h.users.GetByID(context.Background(), u.ID)
	assert.Nil(t, stored.OTP)
	assert.Nil(t, stored.OTPExpiry)

	claims, err := jwt.Parse(testSecret, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, sess.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestVerifyOTP_SegundoUsoFalla(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	ctx := context.Background()

	res, err := h.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: testPassword}, RequestMeta{})
	require.NoError(t, err)
	code := h.sender.last()

	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: code}, RequestMeta{})
	require.NoError(t, err)
	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: code}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
}

func TestVerifyOTP_PendientePasaAVerified(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reg, err := h.uc.Register(ctx, dto.RegisterRequest{
		ContractNumber: testContract, PhoneNumber: "355691234567", Username: "empresa1", Password: testPassword,
	}, RequestMeta{})
	require.NoError(t, err)

	_, err = h.uc.Login(ctx, dto.LoginRequest{Username: "empresa1", Password: testPassword}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrNotVerified)

	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: reg.UserID, OTP: h.sender.last()}, RequestMeta{})
	require.NoError(t, err)

	u, _ := h.users.GetByID(ctx, reg.UserID)
	assert.Equal(t, entity.UserStatusVerified, u.Status)
	assert.Nil(t, u.OTP)
}

func TestVerifyOTP_ExpiradoAunqueCodigoCorrecto(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	ctx := context.Background()

	res, err := h.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: testPassword}, RequestMeta{})
	require.NoError(t, err)

	h.clock = h.clock.Add(10*time.Minute + time.Second)
	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: h.sender.last()}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
	assert.Zero(t, h.sessions.count())
}

func TestVerifyOTP_CodigoIncorrectoYLimiteDeIntentos(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	ctx := context.Background()

	res, err := h.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: testPassword}, RequestMeta{})
	require.NoError(t, err)
	wrong := "000000"
	if h.sender.last() == wrong {
		wrong = "111111"
	}

	for i := 0; i < 3; i++ {
		_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: wrong}, RequestMeta{})
		assert.ErrorIs(t, err, domain.ErrOTPMismatch)
	}
	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: h.sender.last()}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrRateLimited, "agotados los intentos ni el código correcto sirve")
}

func TestLogin_NuevoOTPReiniciaIntentos(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	ctx := context.Background()

	res, err := h.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: testPassword}, RequestMeta{})
	require.NoError(t, err)
	wrong := "000000"
	if h.sender.last() == wrong {
		wrong = "111111"
	}
	for i := 0; i < 3; i++ {
		_, _ = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: wrong}, RequestMeta{})
	}
	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: wrong}, RequestMeta{})
	require.ErrorIs(t, err, domain.ErrRateLimited)

	_, err = h.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: testPassword}, RequestMeta{})
	require.NoError(t, err)
	sess, err := h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: h.sender.last()}, RequestMeta{})
	require.NoError(t, err, "el código nuevo no hereda los intentos del anterior")
	assert.NotEmpty(t, sess.Token)
}

func TestVerifyOTP_EntradaInvalidaYUsuarioInexistente(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: uuid.New().String(), OTP: "12345"}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: uuid.New().String(), OTP: "123456"}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ─── Sesiones ────────────────────────────────────────────────────────────────

func TestValidateSession_IdentidadDesdeFilaDeUsuario(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser(t, "ana", entity.RoleSMEA, entity.UserStatusVerified)
	sess := h.loginAndVerify(t, "ana")
	ctx := context.Background()

	id, err := h.uc.ValidateSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, entity.RoleSMEA, id.Role)
	assert.Equal(t, h.company.ID, id.CompanyID)

	role := entity.RoleUser
	_, _ = h.users.Update(ctx, u.ID, entity.UserPatch{Role: &role})
	id, err = h.uc.ValidateSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, id.Role, "el cambio de rol aplica de inmediato")
}

func TestValidateSession_FallaCerrado(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.uc.ValidateSession(ctx, "")
	assert.Error(t, err)
	_, err = h.uc.ValidateSession(ctx, "basura")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	forged, err := jwt.Generate("otro-secret", "tok", uuid.New().String(), "", entity.RoleAdmin, "x", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = h.uc.ValidateSession(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	orphan, err := jwt.Generate(testSecret, "sin-fila", uuid.New().String(), "", entity.RoleAdmin, "x", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = h.uc.ValidateSession(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrInvalidSession, "JWT válido sin fila de sesión no autentica")
}

func TestValidateSession_ExpiradaSeBorra(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	sess := h.loginAndVerify(t, "ana")
	require.Equal(t, 1, h.sessions.count())

	// la fila vence aunque el JWT siga vigente
	for _, s := range h.sessions.byToken {
		s.ExpiresAt = h.clock.Add(-time.Second)
	}
	_, err := h.uc.ValidateSession(context.Background(), sess.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Zero(t, h.sessions.count(), "expiración perezosa: la fila se borra")
}

func TestLogout_RevocaElToken(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	sess := h.loginAndVerify(t, "ana")
	ctx := context.Background()

	require.NoError(t, h.uc.Logout(ctx, sess.Token, RequestMeta{}))
	_, err := h.uc.ValidateSession(ctx, sess.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
	assert.Contains(t, h.logs.actions(), entity.ActionUserLogout)

	assert.NoError(t, h.uc.Logout(ctx, sess.Token, RequestMeta{}), "logout repetido no es error")
	assert.NoError(t, h.uc.Logout(ctx, "basura", RequestMeta{}))
}

func TestPurgeExpired(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	h.loginAndVerify(t, "ana")
	_, err := h.uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: testPassword}, RequestMeta{})
	require.NoError(t, err)

	h.clock = h.clock.Add(25 * time.Hour)
	s, o, err := h.uc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, s)
	assert.EqualValues(t, 1, o)
}

// ─── Signup / Register ───────────────────────────────────────────────────────

func TestSignup_CreaUsuarioVerificadoConSesion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	in := dto.SignupRequest{Identifier: "+355 69 111 2222", Password: testPassword, ContractNumber: testContract}

	sess, err := h.uc.Signup(ctx, in, RequestMeta{})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, entity.RoleUser, sess.User.Role)
	require.NotNil(t, sess.User.Phone, "prefijo 35569 se guarda como teléfono")
	assert.Equal(t, "355691112222", *sess.User.Phone)
	assert.Nil(t, sess.User.MSISDN)

	_, err = h.uc.Signup(ctx, in, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "repetir el alta es conflicto")
	assert.Contains(t, h.logs.actions(), entity.ActionUserSignup)
}

func TestSignup_MSISDNYContratoInvalido(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	sess, err := h.uc.Signup(ctx, dto.SignupRequest{Identifier: "355681234567", Password: testPassword, ContractNumber: testContract}, RequestMeta{})
	require.NoError(t, err)
	require.NotNil(t, sess.User.MSISDN)

	_, err = h.uc.Signup(ctx, dto.SignupRequest{Identifier: "355681234568", Password: testPassword, ContractNumber: "NOPE"}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidContract)
}

func TestRegister_UsernameDuplicado(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "empresa1", entity.RoleSMEA, entity.UserStatusVerified)

	_, err := h.uc.Register(context.Background(), dto.RegisterRequest{
		ContractNumber: testContract, PhoneNumber: "355690000000", Username: "empresa1", Password: testPassword,
	}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegister_CreaLaCuentaConSuOTP(t *testing.T) {
	h := newHarness(t)
	h.users.setOTPErr = errors.New("db down")
	ctx := context.Background()

	res, err := h.uc.Register(ctx, dto.RegisterRequest{
		ContractNumber: testContract, PhoneNumber: "355691234567", Username: "empresa2", Password: testPassword,
	}, RequestMeta{})
	require.NoError(t, err, "el alta no depende de una segunda escritura")

	stored, err := h.users.GetByID(ctx, res.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.UserStatusPending, stored.Status)
	require.NotNil(t, stored.OTP)
	require.NotNil(t, stored.OTPExpiry)
	assert.Equal(t, h.sender.last(), *stored.OTP)
	assert.Equal(t, h.clock.Add(10*time.Minute), *stored.OTPExpiry)

	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{UserID: res.UserID, OTP: h.sender.last()}, RequestMeta{})
	require.NoError(t, err)
	verified, err := h.users.GetByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusVerified, verified.Status)
}

// ─── ResetPassword ───────────────────────────────────────────────────────────

func TestResetPassword_PropiaRevocaOtrasSesiones(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	s1 := h.loginAndVerify(t, "ana")
	s2 := h.loginAndVerify(t, "ana")
	ctx := context.Background()

	id, err := h.uc.ValidateSession(ctx, s1.Token)
	require.NoError(t, err)
	require.NoError(t, h.uc.ResetPassword(ctx, *id, dto.ResetPasswordRequest{Password: "nueva123"}, RequestMeta{}))

	_, err = h.uc.ValidateSession(ctx, s1.Token)
	assert.NoError(t, err, "la sesión actual se conserva")
	_, err = h.uc.ValidateSession(ctx, s2.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = h.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "nueva123"}, RequestMeta{})
	assert.NoError(t, err)
}

func TestResetPassword_AjenaSoloAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	target := h.seedUser(t, "ana", entity.RoleUser, entity.UserStatusVerified)
	msisdn := "355681111111"
	target.MSISDN = &msisdn
	h.users.byID[target.ID].MSISDN = &msisdn

	smea := entity.Identity{UserID: uuid.New().String(), Role: entity.RoleSMEA}
	err := h.uc.ResetPassword(ctx, smea, dto.ResetPasswordRequest{Password: "nueva123", MSISDN: msisdn}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := entity.Identity{UserID: uuid.New().String(), Role: entity.RoleAdmin}
	require.NoError(t, h.uc.ResetPassword(ctx, admin, dto.ResetPasswordRequest{Password: "nueva123", MSISDN: msisdn}, RequestMeta{}))

	err = h.uc.ResetPassword(ctx, admin, dto.ResetPasswordRequest{Password: "nueva123", MSISDN: "355689999999"}, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
