package feeds

import "encoding/json"

// QuickGroup is one topic of a quick view report.
type QuickGroup struct {
	Title        string `json:"title"`
	ShortSummary string `json:"short_summary"`
}

// QuickView is the JSON body of a quick-view report.
type QuickView struct {
	Groups []QuickGroup `json:"groups"`
}

// ParseQuickView decodes a quick view report body.
func ParseQuickView(content string) (*QuickView, error) {
	var q QuickView
	if err := json.Unmarshal([]byte(content), &q); err != nil {
		return nil, parseErr("quick view", err)
	}
	return &q, nil
}
