package kb

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SourcePosts   = "posts"
	SourceShopify = "shopify"
)

// Document is one record rendered as text for retrieval
type Document struct {
	ID     string
	Source string
	Text   string
}

// PointID derives a stable vector id so a reindex overwrites instead of duplicating
func PointID(source, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+":"+key)).String()
}

// ProductAttributes are the fields decoded from a product SKU
type ProductAttributes struct {
	Color       string
	Size        string
	Length      string
	Compression string
}

// SKUDecoder resolves the attributes of a SKU; ok is false when it does not parse
type SKUDecoder func(sku string) (attrs ProductAttributes, ok bool)

// PostDocuments renders each post as a sentence. Empty fields are left out.
func PostDocuments(rows []map[string]interface{}) []Document {
	docs := make([]Document, 0, len(rows))
	seen := make(map[string]int)

	for i, row := range rows {
		var parts []string
		add := func(label, field string) {
			if v := text(row[field]); v != "" {
				parts = append(parts, label+" "+v)
			}
		}

		add("Post no dia", "timestamp")
		add("tipo", "media_type")
		if v := text(row["caption"]); v != "" {
			parts = append(parts, "legenda: "+v)
		}
		add("alcance", "reach")
		add("curtidas", "likes")
		add("comentários", "comments")
		add("salvamentos", "saved")
		add("compartilhamentos", "shares")
		if v := text(row["permalink"]); v != "" {
			parts = append(parts, "link: "+v)
		}
		if len(parts) == 0 {
			continue
		}

		key := text(row["permalink"])
		if key == "" {
			key = fmt.Sprintf("row-%d", i)
		}
		docs = append(docs, Document{
			ID:     PointID(SourcePosts, occurrence(seen, key)),
			Source: SourcePosts,
			Text:   strings.Join(parts, ", ") + ".",
		})
	}
	return docs
}

// ShopifyDocuments renders each sale line, with the SKU attributes when decode succeeds
func ShopifyDocuments(rows []map[string]interface{}, decode SKUDecoder) []Document {
	docs := make([]Document, 0, len(rows))
	seen := make(map[string]int)

	for _, row := range rows {
		sku := text(row["sku"])
		var attrs ProductAttributes
		if decode != nil && sku != "" {
			attrs, _ = decode(sku)
		}

		parts := []string{
			"Venda na data " + orDefault(text(row["date"]), "indefinida"),
			"SKU " + orDefault(sku, "indefinido"),
			"cor " + orDefault(attrs.Color, "indefinida"),
			"tamanho " + orDefault(attrs.Size, "indefinido"),
			"comprimento " + orDefault(attrs.Length, "indefinido"),
			"compressao " + orDefault(attrs.Compression, "indefinida"),
			"preço " + orDefault(text(row["price"]), "0") + " reais",
			"pedido número " + orDefault(text(row["order_number"]), "N/A"),
		}

		key := text(row["order_number"]) + "/" + sku
		docs = append(docs, Document{
			ID:     PointID(SourceShopify, occurrence(seen, key)),
			Source: SourceShopify,
			Text:   strings.Join(parts, ", ") + ".",
		})
	}
	return docs
}

// occurrence keeps repeated keys apart: the n-th duplicate gets a #n suffix
func occurrence(seen map[string]int, key string) string {
	n := seen[key]
	seen[key] = n + 1
	if n == 0 {
		return key
	}
	return fmt.Sprintf("%s#%d", key, n)
}

func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", t), "0"), ".")
	default:
		return fmt.Sprintf("%v", t)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
