package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andresuchdata/salescast/internal/domain"
)

// BuildPrompt embeds the user question together with both collections so the
// model can answer from the current catalog and sales history.
func BuildPrompt(message string, products []domain.ProductRecord, sales []domain.SalesRecord) (string, error) {
	if products == nil {
		products = []domain.ProductRecord{}
	}
	if sales == nil {
		sales = []domain.SalesRecord{}
	}

	productJSON, err := json.Marshal(products)
	if err != nil {
		return "", fmt.Errorf("failed to encode products: %w", err)
	}
	salesJSON, err := json.Marshal(sales)
	if err != nil {
		return "", fmt.Errorf("failed to encode sales: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n\n", message)
	fmt.Fprintf(&b, "Product catalog:\n%s\n\n", productJSON)
	fmt.Fprintf(&b, "Sales transactions:\n%s\n\n", salesJSON)
	b.WriteString("Please analyze and answer.")
	return b.String(), nil
}
