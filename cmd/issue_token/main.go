// issue_token emite un JWT para el personal de la consola (admin, bodeguero o vendedor).
//
// Uso: go run ./cmd/issue_token -user <id> -role bodeguero [-minutes 480]
// Lee JWT_SECRET, JWT_ISSUER y JWT_EXPIRATION_MINUTES igual que la API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/jwt"
)

func main() {
	var userID, role string
	var minutes int
	flag.StringVar(&userID, "user", "", "id del usuario (vacío = uuid nuevo)")
	flag.StringVar(&role, "role", jwt.RoleBodeguero, "rol: admin | bodeguero | vendedor")
	flag.IntVar(&minutes, "minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	switch role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido: %q\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está definido")
		os.Exit(1)
	}
	if userID == "" {
		userID = uuid.New().String()
	}
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}

	token, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
