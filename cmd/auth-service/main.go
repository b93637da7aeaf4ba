// File: cmd/auth-service/main.go
package main

import (
	"fmt"
	"os"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "auth-service:", err)
		os.Exit(1)
	}
}
