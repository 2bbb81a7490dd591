package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому в context хранится *gorm.DB открытой транзакции
const DBContextKey = contextKey("db")

// Ключи gin.Context, которые заполняет AuthMiddleware
const (
	UserIDKey   = "userID"
	RoleKey     = "role"
	IdentityKey = "identity"
	UserKey     = "user"
)
