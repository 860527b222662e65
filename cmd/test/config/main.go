package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Omarlsant/job-scraper/internal/config"
)

func main() {
	path := flag.String("config", "", "path to the YAML config")
	flag.Parse()

	fmt.Println("🔧 Testing config loading...")
	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Driver: %s (%s, database %q)\n", cfg.Database.Driver, cfg.Database.Addr(), cfg.Database.Name)
	fmt.Printf("   Table: %s\n", cfg.Storage.Table)
	fmt.Printf("   Target: %s (max %d jobs)\n", cfg.TargetURL, cfg.MaxJobs)
	fmt.Printf("   Delay: %s - %s\n", cfg.Delay.Min, cfg.Delay.Max)
	fmt.Printf("   Headless: %t\n", cfg.Browser.Headless)
	fmt.Printf("   Container: %s\n", cfg.Selectors.Container)
	fmt.Printf("   Item: %s\n", cfg.Selectors.Item)
}
