// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds the postgres connection string. Sessions carry the API's
// application_name and the storefront market's timezone.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s application_name=ecommerce-api TimeZone=Asia/Ho_Chi_Minh",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
