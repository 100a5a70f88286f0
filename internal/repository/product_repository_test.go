package repository

import (
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/model"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// every pooled connection to :memory: would get its own database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database object: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.PriceHistory{},
		&model.Inventory{},
		&model.ProductOption{},
		&model.ProductChangeLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createProduct(t *testing.T, db *gorm.DB, code, name string, createdAt time.Time) *model.Product {
	t.Helper()

	product := &model.Product{
		ProductCode: code,
		ProductName: name,
		Status:      model.StatusActive,
		CreatedDate: createdAt,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product %s: %v", code, err)
	}
	return product
}

func addPrice(t *testing.T, db *gorm.DB, productID uint, price float64, start time.Time, end *time.Time) {
	t.Helper()

	row := &model.PriceHistory{
		ProductID: productID,
		Price:     price,
		StartDate: start,
		EndDate:   end,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test price: %v", err)
	}
}

func TestProductRepository_Search_NameAndCodeFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	now := time.Now()

	base := now.Add(-time.Hour)
	createProduct(t, db, "P001", "Gaming Laptop", base)
	createProduct(t, db, "P002", "Office Laptop", base.Add(time.Minute))
	createProduct(t, db, "X003", "Desk Lamp", base.Add(2*time.Minute))

	t.Run("no filters return everything", func(t *testing.T) {
		rows, total, err := repo.Search(SearchParams{}, 0, 10, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
		if len(rows) != 3 {
			t.Errorf("expected 3 rows, got %d", len(rows))
		}
	})

	t.Run("name filter is a case-insensitive substring match", func(t *testing.T) {
		rows, total, err := repo.Search(SearchParams{ProductName: "laptop"}, 0, 10, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 2 {
			t.Errorf("expected total 2, got %d", total)
		}
		for _, row := range rows {
			if row.ProductName != "Gaming Laptop" && row.ProductName != "Office Laptop" {
				t.Errorf("unexpected row %q", row.ProductName)
			}
		}
	})

	t.Run("code filter is a case-insensitive substring match", func(t *testing.T) {
		_, total, err := repo.Search(SearchParams{ProductCode: "p00"}, 0, 10, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 2 {
			t.Errorf("expected total 2, got %d", total)
		}
	})

	t.Run("filters compose with AND", func(t *testing.T) {
		_, total, err := repo.Search(SearchParams{ProductName: "laptop", ProductCode: "P002"}, 0, 10, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 1 {
			t.Errorf("expected total 1, got %d", total)
		}
	})
}

func TestProductRepository_Search_PriceRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	now := time.Now()
	base := now.Add(-24 * time.Hour)

	cheap := createProduct(t, db, "P001", "Cheap", base)
	pricey := createProduct(t, db, "P002", "Pricey", base.Add(time.Minute))
	expired := createProduct(t, db, "P003", "Expired", base.Add(2*time.Minute))
	createProduct(t, db, "P004", "Unpriced", base.Add(3*time.Minute))

	addPrice(t, db, cheap.ProductID, 10, base, nil)
	addPrice(t, db, pricey.ProductID, 500, base, nil)
	past := now.Add(-time.Hour)
	addPrice(t, db, expired.ProductID, 50, base, &past)

	f := func(v float64) *float64 { return &v }

	t.Run("no bounds impose no price constraint", func(t *testing.T) {
		_, total, err := repo.Search(SearchParams{}, 0, 10, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 4 {
			t.Errorf("expected total 4, got %d", total)
		}
	})

	t.Run("products without a current price are excluded by any bound", func(t *testing.T) {
		rows, total, err := repo.Search(SearchParams{MinPrice: f(0)}, 0, 10, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 2 {
			t.Fatalf("expected total 2, got %d", total)
		}
		for _, row := range rows {
			if row.ProductCode == "P003" || row.ProductCode == "P004" {
				t.Errorf("product %s should be excluded", row.ProductCode)
			}
		}
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		_, total, err := repo.Search(SearchParams{MinPrice: f(10), MaxPrice: f(10)}, 0, 10, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 1 {
			t.Errorf("expected total 1, got %d", total)
		}
	})

	t.Run("multiple valid price rows never duplicate a product", func(t *testing.T) {
		// second simultaneously valid row for the same product
		addPrice(t, db, cheap.ProductID, 12, base.Add(time.Minute), nil)

		rows, total, err := repo.Search(SearchParams{MinPrice: f(5), MaxPrice: f(20)}, 0, 10, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 1 {
			t.Errorf("expected total 1, got %d", total)
		}
		if len(rows) != 1 {
			t.Errorf("expected 1 row, got %d", len(rows))
		}
	})
}

func TestProductRepository_Search_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	now := time.Now()
	base := now.Add(-time.Hour)

	codes := []string{"P001", "P002", "P003", "P004", "P005"}
	for i, code := range codes {
		createProduct(t, db, code, "Product "+code, base.Add(time.Duration(i)*time.Minute))
	}

	t.Run("total count is invariant under page changes", func(t *testing.T) {
		_, total0, err := repo.Search(SearchParams{}, 0, 2, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		_, total2, err := repo.Search(SearchParams{}, 2, 2, now)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total0 != 5 || total2 != 5 {
			t.Errorf("expected totals 5/5, got %d/%d", total0, total2)
		}
	})

	t.Run("concatenated pages rebuild the full set exactly once", func(t *testing.T) {
		seen := map[uint]int{}
		var order []string
		for page := 0; page < 3; page++ {
			rows, _, err := repo.Search(SearchParams{}, page, 2, now)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(rows) > 2 {
				t.Errorf("page %d: expected at most 2 rows, got %d", page, len(rows))
			}
			for _, row := range rows {
				seen[row.ProductID]++
				order = append(order, row.ProductCode)
			}
		}
		if len(seen) != 5 {
			t.Errorf("expected 5 distinct products, got %d", len(seen))
		}
		for id, count := range seen {
			if count != 1 {
				t.Errorf("product %d appeared %d times", id, count)
			}
		}
		// newest creation first
		want := []string{"P005", "P004", "P003", "P002", "P001"}
		for i, code := range want {
			if order[i] != code {
				t.Fatalf("expected order %v, got %v", want, order)
			}
		}
	})
}

func TestProductRepository_Search_CategoryJoin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	now := time.Now()

	category := &model.Category{CategoryName: "Electronics", Depth: 1, SortOrder: 1}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	categorized := createProduct(t, db, "P001", "Categorized", now.Add(-time.Hour))
	categorized.CategoryID = &category.CategoryID
	if err := db.Save(categorized).Error; err != nil {
		t.Fatalf("failed to assign category: %v", err)
	}
	createProduct(t, db, "P002", "Uncategorized", now.Add(-time.Minute))

	rows, _, err := repo.Search(SearchParams{}, 0, 10, now)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// newest first: P002 has no category
	if rows[0].CategoryID != nil || rows[0].CategoryName != nil {
		t.Errorf("expected nil category for %s", rows[0].ProductCode)
	}
	if rows[1].CategoryName == nil || *rows[1].CategoryName != "Electronics" {
		t.Errorf("expected Electronics category for %s", rows[1].ProductCode)
	}
}

func TestProductRepository_CurrentPrice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	now := time.Now()
	base := now.Add(-24 * time.Hour)

	product := createProduct(t, db, "P001", "Widget", base)

	t.Run("no price rows is a valid absence", func(t *testing.T) {
		price, err := repo.CurrentPrice(product.ProductID, now)
		if err != nil {
			t.Fatalf("CurrentPrice() error = %v", err)
		}
		if price != nil {
			t.Errorf("expected nil price, got %v", price.Price)
		}
	})

	t.Run("expired rows do not qualify", func(t *testing.T) {
		past := now.Add(-time.Hour)
		addPrice(t, db, product.ProductID, 10, base, &past)

		price, err := repo.CurrentPrice(product.ProductID, now)
		if err != nil {
			t.Fatalf("CurrentPrice() error = %v", err)
		}
		if price != nil {
			t.Errorf("expected nil price, got %v", price.Price)
		}
	})

	t.Run("most recently started of several valid rows wins", func(t *testing.T) {
		addPrice(t, db, product.ProductID, 20, base.Add(time.Hour), nil)
		addPrice(t, db, product.ProductID, 30, base.Add(2*time.Hour), nil)

		price, err := repo.CurrentPrice(product.ProductID, now)
		if err != nil {
			t.Fatalf("CurrentPrice() error = %v", err)
		}
		if price == nil {
			t.Fatal("expected a current price")
		}
		if price.Price != 30 {
			t.Errorf("expected price 30, got %v", price.Price)
		}
	})
}

func TestProductRepository_CreateDuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	first := &model.Product{ProductCode: "P001", ProductName: "Widget", Status: model.StatusActive}
	if err := repo.Create(first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second := &model.Product{ProductCode: "P001", ProductName: "Other", Status: model.StatusActive}
	err := repo.Create(second)
	if !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestProductRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	product := createProduct(t, db, "P001", "Widget", time.Now())

	t.Run("existing product", func(t *testing.T) {
		found, err := repo.FindByID(product.ProductID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.ProductCode != "P001" {
			t.Errorf("expected code P001, got %s", found.ProductCode)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(9999)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("soft-deleted product is invisible except unscoped", func(t *testing.T) {
		if err := repo.Delete(product); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		if _, err := repo.FindByID(product.ProductID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		found, err := repo.FindByIDUnscoped(product.ProductID)
		if err != nil {
			t.Fatalf("FindByIDUnscoped() error = %v", err)
		}
		if found.ProductCode != "P001" {
			t.Errorf("expected code P001, got %s", found.ProductCode)
		}
	})
}
