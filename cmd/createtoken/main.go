// Command createtoken issues an access token for a dialer or CRM that pushes
// call logs, or for an operator account during setup.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/config"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "subject user id (required)")
	role := flag.String("role", string(user.RoleIntegration), "role: owner, manager, team_leader, employee, integration")
	employeeID := flag.String("employee", "", "employee id linked to the user")
	admin := flag.Bool("admin", false, "grant admin privileges")
	ttl := flag.Duration("ttl", 365*24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	claims := jwt.AccessClaims{
		UserID:  *userID,
		Role:    user.Role(*role),
		IsAdmin: *admin,
	}
	if *employeeID != "" {
		claims.EmployeeID = employeeID
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessTokenWithTTL(claims, *ttl)
	if err != nil {
		log.Fatal("Failed to generate token: ", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
