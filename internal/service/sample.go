package service

import (
	"context"
	"time"

	"trolley/navigator/internal/domain"
	"trolley/navigator/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SeedSampleData wipes the catalog and loads the demo store. Section
// coordinates are the centers of the matching SVG regions; priorities
// encode the operator's preferred traversal order (fresh produce first,
// frozen foods last, so nothing melts in the trolley).
func SeedSampleData(ctx context.Context, repo repository.CatalogRepository) (string, error) {
	if err := repo.Reset(ctx); err != nil {
		return "", err
	}

	store := domain.Store{
		ID:        uuid.NewString(),
		Name:      "SuperMart Central",
		Address:   "123 Main Street, Downtown",
		LayoutSVG: sampleLayoutSVG,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.SaveStore(ctx, store); err != nil {
		return "", err
	}

	type sectionSeed struct {
		name     string
		color    string
		svgID    string
		x, y     float64
		priority int
		landmark string
	}

	sectionSeeds := []sectionSeed{
		{"Fresh Produce", "#28a745", "produce-section", 225, 560, 1, "next to the flower stand"},
		{"Fresh Bakery", "#fd7e14", "bakery-section", 450, 690, 2, "follow the smell of fresh bread"},
		{"Deli & Meats", "#dc3545", "deli-section", 975, 560, 3, "the counter with the glass display"},
		{"Beverages", "#17a2b8", "beverages-section", 375, 440, 4, ""},
		{"Snacks & Chips", "#fd7e14", "snacks-section", 555, 440, 5, ""},
		{"Cereal & Breakfast", "#ffc107", "cereal-section", 735, 440, 6, ""},
		{"Canned Goods", "#6c757d", "canned-section", 375, 290, 7, ""},
		{"Pasta & International", "#e83e8c", "pasta-section", 555, 290, 8, ""},
		{"Baking & Spices", "#20c997", "baking-section", 735, 290, 9, ""},
		{"Health & Beauty", "#6f42c1", "health-section", 375, 140, 10, ""},
		{"Household & Cleaning", "#dc3545", "household-section", 555, 140, 11, ""},
		{"Pet Supplies", "#795548", "pet-section", 735, 140, 12, ""},
		{"Dairy", "#6f42c1", "dairy-section", 1050, 375, 13, "along the back right wall"},
		{"Frozen Foods", "#007bff", "frozen-section", 150, 375, 14, "along the back left wall"},
	}

	sections := make([]domain.Section, 0, len(sectionSeeds))
	for _, seed := range sectionSeeds {
		section := domain.Section{
			ID:           uuid.NewString(),
			StoreID:      store.ID,
			Name:         seed.name,
			Color:        seed.color,
			SVGElementID: seed.svgID,
			Position:     domain.Coordinate{X: seed.x, Y: seed.y},
			Priority:     seed.priority,
			Landmark:     seed.landmark,
		}
		if err := repo.SaveSection(ctx, section); err != nil {
			return "", err
		}
		sections = append(sections, section)
	}

	type categorySeed struct {
		name       string
		sectionIdx int
	}

	categorySeeds := []categorySeed{
		{"Fresh Fruits", 0},
		{"Vegetables", 0},
		{"Fresh Bread", 1},
		{"Deli Meats", 2},
		{"Soft Drinks", 3},
		{"Juices", 3},
		{"Chips & Crackers", 4},
		{"Nuts & Candy", 4},
		{"Breakfast Cereals", 5},
		{"Canned Soup", 6},
		{"Pasta", 7},
		{"Baking Essentials", 8},
		{"Personal Care", 9},
		{"Cleaning Supplies", 10},
		{"Pet Food", 11},
		{"Milk & Cheese", 12},
		{"Ice Cream", 13},
	}

	categories := make([]domain.Category, 0, len(categorySeeds))
	for _, seed := range categorySeeds {
		section := sections[seed.sectionIdx]
		category := domain.Category{
			ID:        uuid.NewString(),
			StoreID:   store.ID,
			SectionID: section.ID,
			Name:      seed.name,
			Color:     section.Color,
		}
		if err := repo.SaveCategory(ctx, category); err != nil {
			return "", err
		}
		categories = append(categories, category)
	}

	type productSeed struct {
		name        string
		price       float64
		categoryIdx int
		description string
	}

	productSeeds := []productSeed{
		// Fresh Produce
		{"Fresh Apples", 2.99, 0, "Crispy red apples"},
		{"Bananas", 1.49, 0, "Fresh yellow bananas"},
		{"Carrots", 1.89, 1, "Fresh organic carrots"},
		{"Spinach", 2.49, 1, "Fresh baby spinach"},

		// Fresh Bakery
		{"Sourdough Bread", 3.99, 2, "Fresh baked sourdough"},
		{"Blueberry Muffins", 4.99, 2, "Pack of 6 muffins"},

		// Deli & Meats
		{"Sliced Turkey", 7.99, 3, "Fresh sliced turkey breast"},
		{"Ham", 6.99, 3, "Honey glazed ham"},

		// Beverages
		{"Coca Cola", 1.99, 4, "Classic cola drink"},
		{"Bottled Water", 0.99, 4, "Pure spring water"},
		{"Orange Juice", 3.49, 5, "Fresh squeezed orange juice"},
		{"Apple Juice", 2.99, 5, "100% apple juice"},

		// Snacks
		{"Potato Chips", 2.49, 6, "Crispy salted chips"},
		{"Chocolate Cookies", 3.99, 6, "Double chocolate chip cookies"},
		{"Mixed Nuts", 5.99, 7, "Roasted mixed nuts"},
		{"Gummy Bears", 1.79, 7, "Fruity gummy candy"},

		// Cereal & Breakfast
		{"Corn Flakes", 4.29, 8, "Classic breakfast cereal"},
		{"Granola", 5.49, 8, "Honey oat granola"},

		// Canned Goods
		{"Chicken Soup", 1.89, 9, "Chicken noodle soup"},
		{"Tomato Sauce", 1.29, 9, "Organic tomato sauce"},

		// Pasta & International
		{"Spaghetti", 1.99, 10, "Italian spaghetti pasta"},
		{"Ramen Noodles", 0.89, 10, "Instant ramen"},

		// Baking & Spices
		{"All-Purpose Flour", 2.49, 11, "5lb bag of flour"},
		{"Vanilla Extract", 4.99, 11, "Pure vanilla extract"},

		// Health & Beauty
		{"Shampoo", 6.99, 12, "Moisturizing shampoo"},
		{"Toothpaste", 3.49, 12, "Whitening toothpaste"},

		// Household & Cleaning
		{"Dish Soap", 4.49, 13, "Lemon scented dish soap"},
		{"Paper Towels", 6.99, 13, "Absorbent paper towels"},

		// Pet Supplies
		{"Dog Food", 12.99, 14, "Premium dry dog food"},
		{"Cat Treats", 3.99, 14, "Salmon flavored treats"},

		// Dairy
		{"Whole Milk", 3.49, 15, "1 gallon whole milk"},
		{"Cheddar Cheese", 4.99, 15, "Sharp cheddar cheese"},

		// Frozen Foods
		{"Ice Cream", 5.99, 16, "Vanilla ice cream"},
		{"Frozen Pizza", 4.49, 16, "Pepperoni pizza"},
	}

	for _, seed := range productSeeds {
		category := categories[seed.categoryIdx]
		product := domain.Product{
			ID:          uuid.NewString(),
			CategoryID:  category.ID,
			SectionID:   category.SectionID,
			Name:        seed.name,
			Price:       seed.price,
			Description: seed.description,
		}
		if err := repo.SaveProduct(ctx, product); err != nil {
			return "", err
		}
	}

	log.Infof("Seeded sample store %s: %d sections, %d categories, %d products",
		store.ID, len(sections), len(categories), len(productSeeds))
	return store.ID, nil
}

const sampleLayoutSVG = `<svg viewBox="0 0 1200 800" xmlns="http://www.w3.org/2000/svg">
    <rect width="1200" height="800" fill="#f8f9fa" stroke="#dee2e6" stroke-width="2"/>

    <rect x="550" y="750" width="100" height="50" fill="#6c757d"/>
    <text x="600" y="775" text-anchor="middle" fill="white" font-size="14" font-weight="bold">ENTRANCE</text>

    <rect id="produce-section" x="100" y="500" width="250" height="120" fill="#28a745" opacity="0.7" stroke="#20c997" stroke-width="3" rx="5"/>
    <text x="225" y="570" text-anchor="middle" fill="white" font-size="14" font-weight="bold">FRESH PRODUCE</text>

    <rect id="bakery-section" x="350" y="650" width="200" height="80" fill="#fd7e14" opacity="0.7" stroke="#e55a00" stroke-width="3" rx="5"/>
    <text x="450" y="695" text-anchor="middle" fill="white" font-size="12" font-weight="bold">FRESH BAKERY</text>

    <rect id="deli-section" x="850" y="500" width="250" height="120" fill="#dc3545" opacity="0.7" stroke="#c02938" stroke-width="3" rx="5"/>
    <text x="975" y="560" text-anchor="middle" fill="white" font-size="14" font-weight="bold">DELI &amp; MEATS</text>

    <rect id="beverages-section" x="300" y="400" width="150" height="80" fill="#17a2b8" opacity="0.7" stroke="#117a8b" stroke-width="3" rx="5"/>
    <text x="375" y="450" text-anchor="middle" fill="white" font-size="11">BEVERAGES</text>

    <rect id="snacks-section" x="480" y="400" width="150" height="80" fill="#fd7e14" opacity="0.7" stroke="#e55a00" stroke-width="3" rx="5"/>
    <text x="555" y="450" text-anchor="middle" fill="white" font-size="11">SNACKS</text>

    <rect id="cereal-section" x="660" y="400" width="150" height="80" fill="#ffc107" opacity="0.7" stroke="#d39e00" stroke-width="3" rx="5"/>
    <text x="735" y="450" text-anchor="middle" fill="white" font-size="11">CEREAL</text>

    <rect id="canned-section" x="300" y="250" width="150" height="80" fill="#6c757d" opacity="0.7" stroke="#5a6268" stroke-width="3" rx="5"/>
    <text x="375" y="300" text-anchor="middle" fill="white" font-size="11">CANNED GOODS</text>

    <rect id="pasta-section" x="480" y="250" width="150" height="80" fill="#e83e8c" opacity="0.7" stroke="#d91a72" stroke-width="3" rx="5"/>
    <text x="555" y="300" text-anchor="middle" fill="white" font-size="11">PASTA</text>

    <rect id="baking-section" x="660" y="250" width="150" height="80" fill="#20c997" opacity="0.7" stroke="#17a085" stroke-width="3" rx="5"/>
    <text x="735" y="300" text-anchor="middle" fill="white" font-size="11">BAKING</text>

    <rect id="health-section" x="300" y="100" width="150" height="80" fill="#6f42c1" opacity="0.7" stroke="#5a2d8c" stroke-width="3" rx="5"/>
    <text x="375" y="150" text-anchor="middle" fill="white" font-size="11">HEALTH &amp; BEAUTY</text>

    <rect id="household-section" x="480" y="100" width="150" height="80" fill="#dc3545" opacity="0.7" stroke="#c02938" stroke-width="3" rx="5"/>
    <text x="555" y="150" text-anchor="middle" fill="white" font-size="11">HOUSEHOLD</text>

    <rect id="pet-section" x="660" y="100" width="150" height="80" fill="#795548" opacity="0.7" stroke="#5d4037" stroke-width="3" rx="5"/>
    <text x="735" y="150" text-anchor="middle" fill="white" font-size="11">PET SUPPLIES</text>

    <rect id="dairy-section" x="950" y="300" width="200" height="150" fill="#6f42c1" opacity="0.7" stroke="#5a2d8c" stroke-width="3" rx="5"/>
    <text x="1050" y="375" text-anchor="middle" fill="white" font-size="12" font-weight="bold">DAIRY</text>

    <rect id="frozen-section" x="50" y="300" width="200" height="150" fill="#007bff" opacity="0.7" stroke="#0056b3" stroke-width="3" rx="5"/>
    <text x="150" y="375" text-anchor="middle" fill="white" font-size="12" font-weight="bold">FROZEN FOODS</text>

    <text x="600" y="30" text-anchor="middle" fill="#343a40" font-size="18" font-weight="bold">SuperMart Central</text>
</svg>`
