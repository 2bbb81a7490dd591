package auth

import (
	"shebeka_backend/internal/models"
	"shebeka_backend/pkg/apperrors"
)

// Identity - вызывающий пользователь после аутентификации
type Identity struct {
	UserID string
	Role   models.UserRole
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.UserRoleAdmin
}

// Authorize проверяет, что роль вызывающего входит в набор
func Authorize(id Identity, roles ...models.UserRole) error {
	for _, role := range roles {
		if id.Role == role {
			return nil
		}
	}
	return apperrors.ErrInsufficientPermissions
}

// AuthorizeOwner - владелец ресурса или администратор
func AuthorizeOwner(id Identity, ownerID string) error {
	if id.UserID == ownerID || id.IsAdmin() {
		return nil
	}
	return apperrors.ErrNotResourceOwner
}

// AuthorizeSelf - только сам владелец, без обхода для администратора
func AuthorizeSelf(id Identity, ownerID string) error {
	if id.UserID == ownerID {
		return nil
	}
	return apperrors.ErrNotResourceOwner
}
