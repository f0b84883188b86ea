package main

import (
	"fmt"
	"os"

	"github.com/ananses3m/shop-api/cmd/shop-api/cli"
)

// Set via -ldflags at build time
var (
	version = "dev"
	commit  = "none"
)

// @title        Ananses3m Shop API
// @version      1.0
// @description  Users, catalogue, orders and payment relays for the Ananses3m Wear store.
// @host         localhost:5000
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	if err := cli.Execute(version, commit); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
