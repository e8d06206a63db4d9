// Package main is the entry point for the keychord API server
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/keychord/keychord/pkg/api"
	"github.com/keychord/keychord/pkg/piano"
	"github.com/keychord/keychord/pkg/synth"
)

func main() {
	_ = godotenv.Load()

	port := flag.Int("port", defaultPort(), "Server port")
	flag.Parse()

	fmt.Printf("Starting keychord API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port, piano.New(synth.Silent{})); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func defaultPort() int {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			return p
		}
	}
	return 8080
}
