package contextkeys

// Key - тип ключей context.Context, строковые значения совпадают с ключами gin.Context
type Key string

const (
	// DBContextKey - *gorm.DB текущего запроса (или открытая транзакция)
	DBContextKey Key = "db"
	RequestIDKey Key = "request_id"
	UserIDKey    Key = "user_id"
)

func (k Key) String() string {
	return string(k)
}
