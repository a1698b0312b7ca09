package feeds

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/techdigest-vietnam/techdigest/internal/fetch"
)

// DefaultModelLimit is the number of OpenRouter models shown by default.
const DefaultModelLimit = 5

// descriptionLimit is where ShortDescription cuts.
const descriptionLimit = 100

var perMillion = decimal.NewFromInt(1_000_000)

// Pricing holds per-token and per-request prices in USD.
type Pricing struct {
	Prompt     decimal.Decimal `json:"prompt"`
	Completion decimal.Decimal `json:"completion"`
	Request    decimal.Decimal `json:"request"`
}

// Model is one OpenRouter model.
type Model struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	ContextLength int64   `json:"context_length,omitempty"`
	Pricing       Pricing `json:"pricing"`
	URL           string  `json:"url"`
}

// DisplayName falls back to a placeholder for models without a name or ID.
func (m Model) DisplayName() string {
	if m.Name == "" {
		return "Unnamed model"
	}
	return m.Name
}

// PriceLabel summarizes pricing: per-request when set, else per million
// prompt and completion tokens, else "Free".
func (m Model) PriceLabel() string {
	p := m.Pricing
	switch {
	case p.Request.IsPositive():
		return "$" + p.Request.String() + "/req"
	case !p.Prompt.IsZero() || !p.Completion.IsZero():
		return fmt.Sprintf("$%s/M input, $%s/M output",
			p.Prompt.Mul(perMillion).StringFixed(2),
			p.Completion.Mul(perMillion).StringFixed(2))
	}
	return "Free"
}

// ShortDescription is the description cut at 100 characters.
func (m Model) ShortDescription() string {
	return truncate(m.Description, descriptionLimit)
}

// OpenRouterModelsURL returns the models endpoint.
func (c *Client) OpenRouterModelsURL() string {
	return c.bases.OpenRouter + "/api/v1/models"
}

// OpenRouterModels fetches the model catalogue and returns the first limit
// entries (5 when limit is not positive).
func (c *Client) OpenRouterModels(ctx context.Context, limit int) ([]Model, error) {
	body, err := c.http.Get(ctx, fetch.OpenRouterAPI, c.OpenRouterModelsURL())
	if err != nil {
		return nil, err
	}
	models, err := ParseOpenRouterModels(body, c.bases.OpenRouter)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultModelLimit
	}
	if len(models) > limit {
		models = models[:limit]
	}
	return models, nil
}

// ParseOpenRouterModels reads {"data": [...]}. Prices that are missing or not
// numeric count as zero.
func ParseOpenRouterModels(data []byte, webBase string) ([]Model, error) {
	if !gjson.ValidBytes(data) {
		return nil, parseErr("openrouter models", fmt.Errorf("invalid json"))
	}
	raw := gjson.GetBytes(data, "data")
	if !raw.IsArray() {
		return []Model{}, nil
	}

	entries := raw.Array()
	models := make([]Model, 0, len(entries))
	for _, m := range entries {
		id := m.Get("id").String()
		model := Model{
			ID:            id,
			Name:          firstString(m.Get("name"), m.Get("id")),
			Description:   m.Get("description").String(),
			ContextLength: m.Get("context_length").Int(),
			Pricing: Pricing{
				Prompt:     price(m.Get("pricing.prompt")),
				Completion: price(m.Get("pricing.completion")),
				Request:    price(m.Get("pricing.request")),
			},
			URL: webBase + "/models/" + url.PathEscape(id),
		}
		models = append(models, model)
	}
	return models, nil
}

func price(v gjson.Result) decimal.Decimal {
	if !v.Exists() || v.Type == gjson.Null {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
