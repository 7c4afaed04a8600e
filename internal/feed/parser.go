package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/bilgisen/feedview/internal/models"
	"github.com/go-playground/validator/v10"
)

// Parser decodes and validates the backend's item list
type Parser struct {
	validate *validator.Validate
}

func NewParser() *Parser {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Tag names in errors follow the json field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := models.ParsePublished(fl.Field().String(), nil)
		return err == nil
	})
	return &Parser{validate: v}
}

// Parse decodes body as a JSON array of items. Any malformed element fails the whole list.
func (p *Parser) Parse(body []byte) ([]models.FeedItem, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array of items")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse feed response: %w", err)
	}

	items := make([]models.FeedItem, 0, len(raw))
	for i, elem := range raw {
		var item models.FeedItem
		if err := json.Unmarshal(elem, &item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		item = p.NormalizeFeedItem(item)
		if err := p.ValidateFeedItem(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// NormalizeFeedItem trims the identifying fields; display text is kept verbatim
func (p *Parser) NormalizeFeedItem(item models.FeedItem) models.FeedItem {
	item.Link = strings.TrimSpace(item.Link)
	item.Source = strings.TrimSpace(item.Source)
	return item
}

// ValidateFeedItem checks if the feed item has the required fields
func (p *Parser) ValidateFeedItem(item models.FeedItem) error {
	err := p.validate.Struct(item)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
}
