// Commande seed : crée le compte admin et un catalogue de départ.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"fleur_back_end/internal/auth"
	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/config"
	"fleur_back_end/internal/content"
	"fleur_back_end/internal/database"
	"fleur_back_end/internal/pricing"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func flower(name, category, price, sale string, colors []string, featured bool) catalog.ProductInput {
	in := catalog.ProductInput{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Colors:   catalog.NormalizeColors(colors),
		Featured: featured,
	}
	if sale != "" {
		d := decimal.RequireFromString(sale)
		in.SalePrice = &d
	}
	return in
}

var starterCatalog = []catalog.ProductInput{
	flower("Bouquet de roses rouges", "roses", "15000", "12500", []string{"rouge"}, true),
	flower("Roses blanches", "roses", "14000", "", []string{"blanc"}, false),
	flower("Tulipes de printemps", "tulipes", "8000", "", []string{"rose", "jaune", "blanc"}, true),
	flower("Pivoines roses", "pivoines", "18000", "16000", []string{"rose"}, true),
	flower("Lys blancs", "lys", "11000", "", []string{"blanc"}, false),
	flower("Orchidée en pot", "plantes", "22000", "", []string{"violet", "blanc"}, true),
	flower("Bouquet champêtre", "bouquets", "9500", "", []string{"jaune", "bleu", "blanc"}, false),
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("❌ Erreur connexion base de données : ", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Erreur migration : ", err)
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
		log.Println("⚠️ SEED_ADMIN_PASSWORD absent, mot de passe par défaut utilisé")
	}
	if err := seed(ctx, db, cfg.MailFrom, password); err != nil {
		log.Fatal("❌ ", err)
	}

	products, err := catalog.NewRepository(db).All(ctx)
	if err != nil {
		log.Fatal("❌ ", err)
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Fleur", "Catégorie", "Prix", "Prix effectif", "Accueil")
	for _, p := range products {
		featured := ""
		if p.Featured {
			featured = "oui"
		}
		table.Append([]string{p.Name, p.Category, p.Price.StringFixed(2), pricing.EffectivePrice(p).StringFixed(2), featured})
	}
	table.Render()
}

// seed crée le compte admin, le catalogue de départ et la page d'accueil ; relancer ne duplique rien.
func seed(ctx context.Context, db *gorm.DB, adminEmail, password string) error {
	_, created, err := auth.NewService(db).EnsureStaff(ctx, "admin", adminEmail, password)
	if err != nil {
		return fmt.Errorf("création admin: %w", err)
	}
	if created {
		log.Println("👤 Compte admin créé")
	} else {
		log.Println("👤 Compte admin déjà présent")
	}

	added, updated, err := catalog.NewRepository(db).BulkUpsert(ctx, starterCatalog)
	if err != nil {
		return fmt.Errorf("catalogue: %w", err)
	}
	log.Printf("🌸 Catalogue : %d créées, %d mises à jour", added, updated)

	if _, err := content.NewRepository(db).Get(ctx); err != nil {
		return fmt.Errorf("page d'accueil: %w", err)
	}
	return nil
}
