package email

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// IsConfigured - без логина и пароля письма не отправляются
func (c *SMTPConfig) IsConfigured() bool {
	return c.Username != "" && c.Password != ""
}

// From возвращает адрес отправителя: FromEmail или логин SMTP
func (c *SMTPConfig) From() string {
	if c.FromEmail != "" {
		return c.FromEmail
	}
	return c.Username
}
