package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/eashop/internal/catalog"
	"github.com/matthieukhl/eashop/internal/models"
)

var showDescription bool

var catalogCmd = &cobra.Command{
	Use:   "catalog [search term]",
	Short: "List or search the product catalog",
	Long: `List the Expert Advisors the shop sells. With a search term only
products whose name, description or category contain it (ignoring case)
are shown, exactly as the Mini App search bar filters them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: listCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().BoolVar(&showDescription, "description", false, "Show product descriptions")
}

func listCatalog(cmd *cobra.Command, args []string) error {
	term := ""
	if len(args) == 1 {
		term = args[0]
	}

	products := catalog.Default().Search(term)
	if len(products) == 0 {
		fmt.Printf("📭 No products match %q\n", term)
		return nil
	}

	fmt.Printf("📦 %d product%s:\n", len(products), pluralize(len(products)))
	fmt.Println(strings.Repeat("─", 60))
	for _, p := range products {
		printProduct(p)
	}
	return nil
}

func printProduct(p models.Product) {
	fmt.Printf("   #%d %-20s $%8s  [%s]\n", p.ID, p.Name, p.Price.StringFixed(2), p.Category)
	if showDescription {
		fmt.Printf("      %s\n", p.Description)
	}
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
