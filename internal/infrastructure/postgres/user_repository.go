package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, phone, msisdn, password_hash, role, company_id, otp, otp_expiry, status, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios (pool o tx).
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Phone, &u.MSISDN, &u.PasswordHash, &u.Role, &u.CompanyID,
		&u.OTP, &u.OTPExpiry, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario. Username/phone/msisdn repetidos devuelven ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, username, phone, msisdn, password_hash, role, company_id, otp, otp_expiry, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		u.ID, u.Username, u.Phone, u.MSISDN, u.PasswordHash, u.Role, u.CompanyID,
		u.OTP, u.OTPExpiry, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: company_id inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByLogin obtiene el usuario cuyo username, phone o msisdn coincide con identifier.
// Si hay más de una coincidencia gana el username.
func (r *UserRepo) FindByLogin(ctx context.Context, identifier string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR phone = $1 OR msisdn = $1
		ORDER BY (username = $1) DESC NULLS LAST
		LIMIT 1`
	u, err := scanUser(r.db.QueryRow(ctx, query, identifier))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return u, nil
}

// List lista usuarios con filtro opcional de empresa y teléfono.
func (r *UserRepo) List(ctx context.Context, f entity.UserFilter) ([]*entity.User, error) {
	var phone *string
	if f.Phone != "" {
		p := "%" + f.Phone + "%"
		phone = &p
	}
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1::uuid IS NULL OR company_id = $1)
		  AND ($2::text IS NULL OR phone ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, nullIfEmpty(f.CompanyID), phone, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Count cuenta usuarios de una empresa (o de todas si companyID es "").
func (r *UserRepo) Count(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE ($1::uuid IS NULL OR company_id = $1)`, nullIfEmpty(companyID),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Update aplica los campos no nulos de patch y devuelve la fila resultante (nil si no existe).
func (r *UserRepo) Update(ctx context.Context, id string, p entity.UserPatch) (*entity.User, error) {
	query := `
		UPDATE users SET
			username      = COALESCE($2, username),
			phone         = COALESCE($3, phone),
			msisdn        = COALESCE($4, msisdn),
			role          = COALESCE($5, role),
			company_id    = COALESCE($6::uuid, company_id),
			password_hash = COALESCE($7, password_hash),
			updated_at    = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query,
		id, p.Username, p.Phone, p.MSISDN, p.Role, p.CompanyID, p.PasswordHash,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete elimina un usuario por ID; ErrNotFound si no existe.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetOTP guarda el código y su vencimiento en la fila del usuario.
func (r *UserRepo) SetOTP(ctx context.Context, userID, code string, expiry time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET otp = $2, otp_expiry = $3, updated_at = NOW() WHERE id = $1`,
		userID, code, expiry,
	)
	if err != nil {
		return fmt.Errorf("set otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ConsumeOTP borra el código (uso único) y pasa la cuenta a verified.
// La condición sobre otp hace que dos verificaciones concurrentes no puedan consumirlo dos veces.
func (r *UserRepo) ConsumeOTP(ctx context.Context, userID, code string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET otp = NULL, otp_expiry = NULL, status = 'verified', updated_at = NOW()
		WHERE id = $1 AND otp = $2`, userID, code)
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOTPExpired
	}
	return nil
}

// ClearExpiredOTPs limpia los códigos vencidos.
func (r *UserRepo) ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET otp = NULL, otp_expiry = NULL WHERE otp_expiry IS NOT NULL AND otp_expiry <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("clear expired otps: %w", err)
	}
	return tag.RowsAffected(), nil
}
