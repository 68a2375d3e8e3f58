// CLI integration tests for stockroom.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain builds the stockroom binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "stockroom-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "stockroom")
	SetStockroomBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/stockroom")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{
			Err:    err,
			Output: string(output),
		})
		os.Exit(1)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)

	os.Exit(code)
}

// Test1_Initialize verifies init creates the config file and database.
func Test1_Initialize(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunStockroom("init")

	if result.Stdout == "" {
		t.Error("expected init output message")
	}
	if _, err := os.Stat(env.DataDir); os.IsNotExist(err) {
		t.Error("data directory not created")
	}
	dbFile := filepath.Join(env.DataDir, "stockroom.db")
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		t.Error("stockroom.db not created")
	}
}

// Test2_ProductAddAndList verifies product creation and paged listing.
func Test2_ProductAddAndList(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunStockroom("init")

	result := env.MustRunStockroom("product", "add",
		"--name", "Cola 500ml", "--category", "drinks", "--price", "1.50", "--stock", "24")
	id1 := strings.TrimSpace(result.Stdout)
	if !isUUID(id1) {
		t.Errorf("expected UUID product ID, got %q", id1)
	}

	result = env.MustRunStockroom("product", "add",
		"--name", "Bread", "--category", "bakery", "--price", "0.80", "--stock", "10")
	id2 := strings.TrimSpace(result.Stdout)
	if id1 == id2 {
		t.Error("product IDs should be unique")
	}

	result = env.MustRunStockroom("product", "list", "--json")
	products := ParseJSON[[]Product](t, result.Stdout)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	result = env.MustRunStockroom("product", "list", "--category", "drinks", "--json")
	products = ParseJSON[[]Product](t, result.Stdout)
	if len(products) != 1 || products[0].Name != "Cola 500ml" {
		t.Errorf("category filter mismatch: %+v", products)
	}
}

// Test3_ProductPaging verifies page boundaries through the CLI.
func Test3_ProductPaging(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunStockroom("init")

	names := []string{"apple", "banana", "cherry", "date", "elderberry"}
	for _, name := range names {
		env.MustRunStockroom("product", "add", "--name", name, "--price", "1")
	}

	result := env.MustRunStockroom("product", "list", "--page", "1", "--page-size", "2", "--json")
	page1 := ParseJSON[[]Product](t, result.Stdout)
	if len(page1) != 2 {
		t.Fatalf("page 1: expected 2 products, got %d", len(page1))
	}

	result = env.MustRunStockroom("product", "list", "--page", "3", "--page-size", "2", "--json")
	page3 := ParseJSON[[]Product](t, result.Stdout)
	if len(page3) != 1 {
		t.Fatalf("page 3: expected 1 product, got %d", len(page3))
	}

	// A page past the end is empty, not an error.
	result = env.MustRunStockroom("product", "list", "--page", "4", "--page-size", "2", "--json")
	page4 := ParseJSON[[]Product](t, result.Stdout)
	if len(page4) != 0 {
		t.Errorf("page 4: expected no products, got %d", len(page4))
	}
}

// Test4_ProductDelete verifies deletion removes the product from listings.
func Test4_ProductDelete(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunStockroom("init")

	result := env.MustRunStockroom("product", "add", "--name", "Soap", "--price", "2")
	id := strings.TrimSpace(result.Stdout)

	env.MustRunStockroom("product", "delete", id)

	result = env.MustRunStockroom("product", "list", "--json")
	products := ParseJSON[[]Product](t, result.Stdout)
	if len(products) != 0 {
		t.Errorf("expected no products after delete, got %d", len(products))
	}
}

// Test5_DebitLifecycle verifies debit add, payment, and status transitions.
func Test5_DebitLifecycle(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunStockroom("init")

	result := env.MustRunStockroom("debit", "add", "--name", "Sami", "--amount", "100")
	id := strings.TrimSpace(result.Stdout)
	if !isUUID(id) {
		t.Fatalf("expected UUID debit ID, got %q", id)
	}

	env.MustRunStockroom("debit", "pay", id, "40")

	result = env.MustRunStockroom("debit", "list", "--status", "partial", "--json")
	debits := ParseJSON[[]Debit](t, result.Stdout)
	if len(debits) != 1 {
		t.Fatalf("expected 1 partial debit, got %d", len(debits))
	}
	if debits[0].AmountPaid != 40 {
		t.Errorf("expected 40 paid, got %v", debits[0].AmountPaid)
	}

	env.MustRunStockroom("debit", "pay", id, "60")

	result = env.MustRunStockroom("debit", "list", "--status", "paid", "--json")
	debits = ParseJSON[[]Debit](t, result.Stdout)
	if len(debits) != 1 || debits[0].Status != "paid" {
		t.Errorf("expected the debit fully paid, got %+v", debits)
	}
}

// Test6_Stats verifies the stats command reports counters.
func Test6_Stats(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunStockroom("init")
	env.MustRunStockroom("product", "add", "--name", "Milk", "--price", "1.20")
	env.MustRunStockroom("product", "list")

	result := env.MustRunStockroom("stats", "--json")
	stats := ParseJSON[StatsOut](t, result.Stdout)
	if stats.Pool.Size == 0 {
		t.Error("expected a non-zero pool size")
	}
}

// Test7_UnknownCommand verifies a usage error exits non-zero.
func Test7_UnknownCommand(t *testing.T) {
	env := NewTestEnv(t)

	result := env.RunStockroom("no-such-command")
	if result.ExitCode == 0 {
		t.Error("expected non-zero exit code for unknown command")
	}
}

// Test8_DataSurvivesRestart verifies persisted rows outlive the process.
func Test8_DataSurvivesRestart(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunStockroom("init")
	env.MustRunStockroom("product", "add", "--name", "Rice 5kg", "--price", "6.50", "--stock", "8")

	// Each CLI invocation is a fresh process: a second listing reads what
	// the first wrote.
	result := env.MustRunStockroom("product", "list", "--json")
	products := ParseJSON[[]Product](t, result.Stdout)
	if len(products) != 1 || products[0].Name != "Rice 5kg" {
		t.Errorf("expected persisted product, got %+v", products)
	}
}
