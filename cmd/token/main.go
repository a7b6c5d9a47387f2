// Command token prints a bearer token for the API when JWT_SECRET is set.
package main

import (
	"Recipe-Generator/internal/utils"
	"Recipe-Generator/pkg/jwt"
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	subject := flag.String("subject", "kitchen", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	utils.LoadConfig()
	token, err := jwt.NewJWTService(utils.GetConfig("JWT_SECRET")).GenerateToken(*subject, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot issue token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
