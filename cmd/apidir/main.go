package main

import (
	"log"

	"github.com/sohamroyc/Api-directory/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ apidir failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ apidir stopped with error: %v", err)
	}
}
