package main

import (
	"log"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatal(err)
	}

	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
