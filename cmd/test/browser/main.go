// Command browser checks the configured selectors against the live page
// without touching the database.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Omarlsant/job-scraper/internal/browser"
	"github.com/Omarlsant/job-scraper/internal/config"
)

func main() {
	path := flag.String("config", "", "path to the YAML config")
	shot := flag.String("screenshot", "infojobs-test.png", "where to save the page capture")
	flag.Parse()

	cfg, err := config.LoadDryRun(*path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Println("🌐 Testing browser session...")
	session, err := browser.Launch(browser.Options{
		Headless:    cfg.Browser.Headless,
		Locale:      cfg.Browser.Locale,
		CookiesFile: cfg.Browser.CookiesFile,
	})
	if err != nil {
		log.Fatalf("Failed to launch browser: %v", err)
	}
	defer session.Close()
	fmt.Println("✅ Browser started")

	fmt.Printf("🔍 Navigating to %s...\n", cfg.TargetURL)
	if err := session.Goto(cfg.TargetURL); err != nil {
		log.Fatalf("Failed to navigate: %v", err)
	}

	if err := session.Click(cfg.Selectors.ConsentButton, cfg.WaitTimeout); err != nil {
		fmt.Printf("⚠️ Consent button: %v\n", err)
	} else {
		fmt.Println("🍪 Consent accepted")
	}

	container, err := session.WaitFor(cfg.Selectors.Container, cfg.WaitTimeout)
	if err != nil {
		log.Fatalf("Container %s: %v", cfg.Selectors.Container, err)
	}
	items, err := container.All(cfg.Selectors.Item)
	if err != nil {
		log.Fatalf("Items %s: %v", cfg.Selectors.Item, err)
	}
	fmt.Printf("✅ Found %d cards\n", len(items))

	if err := session.Screenshot(*shot); err != nil {
		log.Printf("Failed to take screenshot: %v", err)
	} else {
		fmt.Printf("📸 Screenshot saved: %s\n", *shot)
	}
	fmt.Println("✨ Test complete!")
}
