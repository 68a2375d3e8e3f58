// Product commands: paged listing, add, and delete.
package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukaforge/stockroom/internal/sqlite"
	"github.com/dukaforge/stockroom/pkg/types"
)

var (
	productPage     int
	productPageSize int
	productCategory string
	productSearch   string

	productAddName     string
	productAddCategory string
	productAddPrice    float64
	productAddCost     float64
	productAddStock    int
	productAddBarcode  string
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage products",
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products page by page",
	Long: `List fetches one page of products, ordered by name.

Example:
  stockroom product list
  stockroom product list --page 2 --page-size 20
  stockroom product list --category drinks --search cola
  stockroom product list --json`,
	Args: cobra.NoArgs,
	RunE: runProductList,
}

var productAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product",
	Args:  cobra.NoArgs,
	RunE:  runProductAdd,
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductDelete,
}

func init() {
	productListCmd.Flags().IntVar(&productPage, "page", 1, "page number (1-based)")
	productListCmd.Flags().IntVar(&productPageSize, "page-size", 20, "items per page")
	productListCmd.Flags().StringVar(&productCategory, "category", "", "filter by category")
	productListCmd.Flags().StringVar(&productSearch, "search", "", "match name or barcode substring")

	productAddCmd.Flags().StringVar(&productAddName, "name", "", "product name (required)")
	productAddCmd.Flags().StringVar(&productAddCategory, "category", "", "product category")
	productAddCmd.Flags().Float64Var(&productAddPrice, "price", 0, "selling price")
	productAddCmd.Flags().Float64Var(&productAddCost, "cost", 0, "buying price")
	productAddCmd.Flags().IntVar(&productAddStock, "stock", 0, "initial stock")
	productAddCmd.Flags().StringVar(&productAddBarcode, "barcode", "", "barcode")
	productAddCmd.MarkFlagRequired("name")

	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productAddCmd)
	productCmd.AddCommand(productDeleteCmd)
}

func runProductList(cmd *cobra.Command, args []string) error {
	s, err := attachStore()
	if err != nil {
		return err
	}
	defer s.Detach()

	filter := sqlite.ProductFilter{Category: productCategory, Search: productSearch}
	result, products, err := s.ListProductsPage(context.Background(), filter, productPage, productPageSize)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	if flagJSON {
		return printJSON(products)
	}
	printProductTable(products)
	printPageFooter(result)
	return nil
}

func runProductAdd(cmd *cobra.Command, args []string) error {
	s, err := attachStore()
	if err != nil {
		return err
	}
	defer s.Detach()

	id, err := s.SaveProduct(context.Background(), &types.Product{
		Name:         productAddName,
		Category:     productAddCategory,
		SellingPrice: productAddPrice,
		BuyingPrice:  productAddCost,
		Stock:        productAddStock,
		Barcode:      productAddBarcode,
	})
	if err != nil {
		return fmt.Errorf("add product: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runProductDelete(cmd *cobra.Command, args []string) error {
	s, err := attachStore()
	if err != nil {
		return err
	}
	defer s.Detach()

	if err := s.DeleteProduct(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
	return nil
}

// printProductTable prints products in a human-readable table format.
func printProductTable(products []*types.Product) {
	if len(products) == 0 {
		fmt.Println("No products found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\n",
			p.ProductID, p.Name, p.Category, p.SellingPrice, p.Stock)
	}
	w.Flush()
	fmt.Print(sb.String())
}
