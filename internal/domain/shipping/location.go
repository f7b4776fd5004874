package shipping

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LocalizedName is a display title of a location in one language
type LocalizedName struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// LocalizedNames serializes as a JSONB column
type LocalizedNames []LocalizedName

// Value implements driver.Valuer
func (n LocalizedNames) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	b, err := json.Marshal(n)
	return string(b), err
}

// Scan implements sql.Scanner
func (n *LocalizedNames) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	default:
		return errors.New("shipping: unsupported column type for JSON scan")
	}
}

// Location is a destination the store ships to, with its flat shipping
// price. Unknown locations fail order creation with ErrLocationNotAvailable.
type Location struct {
	shared.BaseEntity
	Code  string          `gorm:"size:30;not null;uniqueIndex"`
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Names LocalizedNames  `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// Title returns the display name for a language, falling back to the code
func (l *Location) Title(language string) string {
	for _, n := range l.Names {
		if n.Language == language {
			return n.Text
		}
	}
	return l.Code
}

// Repository resolves shipping destinations
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Location, error)
	ListByLanguage(ctx context.Context, language string) ([]Location, error)
}
