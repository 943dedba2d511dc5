package access

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Ошибки проверки доступа.
var (
	ErrInvalidUserID = errors.New("invalid user id")
	ErrUserNotFound  = errors.New("user not found")
	ErrForbidden     = errors.New("forbidden")
)

// Роль пользователя в системе.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleAnonymous Role = "anonymous"
)

// Доменная модель пользователя.
type User struct {
	ID   uuid.UUID
	Role Role
}

// Principal — тот, от чьего имени выполняется запрос.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// Anonymous — запрос без идентификатора пользователя.
var Anonymous = Principal{Role: RoleAnonymous}

// IsAnonymous сообщает, что пользователь не представился.
func (p Principal) IsAnonymous() bool {
	return p.UserID == uuid.Nil
}

// Источник данных о пользователях.
// В реале это обёртка над БД, в тестах мок.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// ResolvePrincipal:
//   - пустой идентификатор даёт анонимного пользователя;
//   - некорректный идентификатор отклоняется;
//   - пользователь достаётся из хранилища.
func ResolvePrincipal(ctx context.Context, store UserStore, rawUserID string) (Principal, error) {
	rawUserID = strings.TrimSpace(rawUserID)
	if rawUserID == "" {
		return Anonymous, nil
	}

	id, err := uuid.Parse(rawUserID)
	if err != nil || id == uuid.Nil {
		return Principal{}, ErrInvalidUserID
	}

	u, err := store.FindByID(ctx, id)
	if err != nil {
		return Principal{}, err
	}
	if u == nil {
		return Principal{}, ErrUserNotFound
	}

	role := u.Role
	if role != RoleAdmin {
		role = RoleUser
	}
	return Principal{UserID: u.ID, Role: role}, nil
}

// RequireRole возвращает ErrForbidden, если у принципала нет нужной роли.
// Администратору разрешено всё.
func RequireRole(p Principal, role Role) error {
	if p.Role == RoleAdmin || p.Role == role {
		return nil
	}
	return ErrForbidden
}

type principalKey struct{}

// WithPrincipal кладёт принципала в контекст запроса.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext достаёт принципала; без него запрос считается анонимным.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Anonymous
}
