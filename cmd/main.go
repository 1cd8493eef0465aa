// cmd/main.go
package main

import (
	"go-blog-api/app"
	_ "go-blog-api/docs"
)

// @title           Go-Blog API
// @version         1.0
// @description     Blogging backend with email-verified accounts, JWT sessions and owner-scoped blogs and posts.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
