package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Omarlsant/job-scraper/internal/browser"
)

func main() {
	path := flag.String("file", "configs/cookies-infojobs.json", "cookie export to load")
	flag.Parse()

	fmt.Println("🍪 Testing cookie loading...")

	cookies, err := browser.LoadCookies(*path)
	if err != nil {
		log.Fatalf("Failed to load cookies: %v", err)
	}

	fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

	for _, c := range cookies {
		domain := ""
		if c.Domain != nil {
			domain = *c.Domain
		}
		fmt.Printf("   %s (%s)\n", c.Name, domain)
	}
}
