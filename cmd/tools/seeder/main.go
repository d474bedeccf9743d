package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/fas-supply/backend-wholesale/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, dbURL, "wholesale-seeder")
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	if err := db.Migrate(dbURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seedProducts(ctx, pool)
	seedVendors(ctx, pool)

	log.Println("Seeding completed successfully!")
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool) {
	products := []struct {
		ID          string
		Name        string
		SKU         string
		Category    string
		BasePrice   string
		Standard    string
		Preferred   string
		Platinum    string
		CustomTiers string
		InStock     bool
	}{
		{"prod-espresso-1kg", "Espresso Roast Beans 1kg", "FAS-COF-001", "coffee", "24.00", "19.20", "16.80", "14.40", "[]", true},
		{"prod-filter-1kg", "Filter Roast Beans 1kg", "FAS-COF-002", "coffee", "22.00", "17.60", "15.40", "13.20", "[]", true},
		{"prod-decaf-500g", "Decaf Blend 500g", "FAS-COF-003", "coffee", "14.50", "11.60", "10.15", "8.70", "[]", true},
		{"prod-oat-milk-case", "Oat Milk Case (12x1L)", "FAS-DRY-010", "pantry", "30.00", "24.00", "21.00", "18.00", `[{"label":"cafe-partner","price":"16.50"}]`, true},
		{"prod-syrup-vanilla", "Vanilla Syrup 750ml", "FAS-DRY-011", "pantry", "9.80", "", "", "", "[]", true},
		{"prod-cups-12oz", "Takeaway Cups 12oz (x1000)", "FAS-PKG-020", "packaging", "58.00", "46.40", "40.60", "34.80", "[]", false},
	}

	log.Println("Seeding Products...")
	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, sku, category, base_price,
			                      wholesale_standard, wholesale_preferred, wholesale_platinum,
			                      custom_tier_prices, wholesale_available, active, in_stock)
			VALUES ($1, $2, $3, $4, $5,
			        nullif($6, '')::numeric, nullif($7, '')::numeric, nullif($8, '')::numeric,
			        $9::jsonb, true, true, $10)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				base_price = EXCLUDED.base_price,
				wholesale_standard = EXCLUDED.wholesale_standard,
				wholesale_preferred = EXCLUDED.wholesale_preferred,
				wholesale_platinum = EXCLUDED.wholesale_platinum,
				custom_tier_prices = EXCLUDED.custom_tier_prices,
				in_stock = EXCLUDED.in_stock;
		`, p.ID, p.Name, p.SKU, p.Category, p.BasePrice,
			p.Standard, p.Preferred, p.Platinum, p.CustomTiers, p.InStock)
		if err != nil {
			log.Printf("Failed to seed product %s: %v", p.ID, err)
		}
	}
}

func seedVendors(ctx context.Context, pool *pgxpool.Pool) {
	vendors := []struct {
		ID            string
		CompanyName   string
		Tier          string
		CustomPct     string
		PortalEnabled bool
		PortalEmail   string
		ContactEmail  string
		PortalUsers   string
	}{
		{"vendor-brew-lane", "Brew Lane Cafes", "standard", "", true, "orders@brewlane.example", "accounts@brewlane.example", `[{"email":"manager@brewlane.example","name":"Jess Malone"}]`},
		{"vendor-daily-grind", "Daily Grind Co", "preferred", "", true, "purchasing@dailygrind.example", "", "[]"},
		{"vendor-roast-house", "Roast House Group", "platinum", "", true, "", "supply@roasthouse.example", "[]"},
		{"vendor-corner-kiosk", "Corner Kiosk", "custom", "35", true, "kiosk@corner.example", "", "[]"},
		{"vendor-dormant", "Dormant Trading", "standard", "", false, "old@dormant.example", "", "[]"},
	}

	log.Println("Seeding Vendors...")
	for _, v := range vendors {
		_, err := pool.Exec(ctx, `
			INSERT INTO vendors (id, company_name, pricing_tier, custom_discount_percentage,
			                     portal_enabled, portal_email, contact_email, portal_users)
			VALUES ($1, $2, $3, nullif($4, '')::numeric, $5, nullif($6, ''), nullif($7, ''), $8::jsonb)
			ON CONFLICT (id) DO UPDATE SET
				company_name = EXCLUDED.company_name,
				pricing_tier = EXCLUDED.pricing_tier,
				custom_discount_percentage = EXCLUDED.custom_discount_percentage,
				portal_enabled = EXCLUDED.portal_enabled,
				portal_email = EXCLUDED.portal_email,
				contact_email = EXCLUDED.contact_email,
				portal_users = EXCLUDED.portal_users;
		`, v.ID, v.CompanyName, v.Tier, v.CustomPct, v.PortalEnabled, v.PortalEmail, v.ContactEmail, v.PortalUsers)
		if err != nil {
			log.Printf("Failed to seed vendor %s: %v", v.ID, err)
		}
	}
}
