package main

import (
	"fmt"
	"os"

	"github.com/coursekit/coursekit-backend/internal/app"
	"github.com/coursekit/coursekit-backend/internal/platform/envutil"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()

	addr := ":" + envutil.GetEnv("PORT", "8080", a.Log)
	if err := a.Run(addr); err != nil {
		a.Log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
