package catalog

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the catalog lifecycle state of a published product.
type ProductStatus string

const (
	ProductStatusApproved ProductStatus = "APPROVED"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

// Product is a live catalog entry created on draft approval. DraftID keeps
// the back-reference to the originating submission for audit.
type Product struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	DraftID     uuid.UUID
	CategoryID  uuid.UUID
	Code        string
	Name        string
	Description string
	Price       int64
	Status      ProductStatus
	CreatedAt   time.Time
}

type Variant struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	SKU       string
	Color     string
	Size      string
	Price     int64
	Stock     int
	CreatedAt time.Time
}

type Image struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	URL       string
	Position  int
	IsPrimary bool
	CreatedAt time.Time
}

// codeCharset excludes ambiguous characters (0/O, 1/I/L).
const codeCharset = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const codeLength = 8

// NewProductCode generates a candidate product code. Uniqueness is enforced
// by the database; callers retry on collision.
func NewProductCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return "P-" + string(out)
}

// BuildSKU derives the variant SKU as {productCode}-{color}-{size}.
func BuildSKU(productCode, color, size string) string {
	return fmt.Sprintf("%s-%s-%s", productCode, skuPart(color), skuPart(size))
}

func skuPart(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "")
}
