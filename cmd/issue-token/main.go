// issue-token emite un JWT para pruebas locales. La autenticación de usuarios vive fuera de esta API.
//
// Uso: go run ./cmd/issue-token -user <uuid> -branch <uuid> -role vendedor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/pkg/config"
	"github.com/jhoicas/suplementos-api/pkg/jwt"
)

func main() {
	userID := flag.String("user", uuid.NewString(), "ID del usuario")
	branchID := flag.String("branch", "", "sucursal base (obligatoria para vendedor)")
	role := flag.String("role", entity.RoleVendedor, "administrador | vendedor")
	flag.Parse()

	if *role != entity.RoleAdmin && *role != entity.RoleVendedor {
		fmt.Fprintf(os.Stderr, "rol %q inválido\n", *role)
		os.Exit(2)
	}
	if *role == entity.RoleVendedor && *branchID == "" {
		fmt.Fprintln(os.Stderr, "un vendedor necesita -branch")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *branchID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
