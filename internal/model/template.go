package model

// ServiceTemplate is a preset used to pre-fill new orders.
// Templates are static and never persisted with the dataset.
type ServiceTemplate struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"basePrice"`
	Icon      string  `json:"icon"`
	ColorHex  string  `json:"colorHex"`
}

// DefaultTemplates returns the built-in template catalog.
func DefaultTemplates() []ServiceTemplate {
	return []ServiceTemplate{
		{ID: "consultation", Name: "Consultation", BasePrice: 50, Icon: "bubble.left.and.bubble.right", ColorHex: "#3b82f6"},
		{ID: "standard", Name: "Standard Service", BasePrice: 80, Icon: "wrench.and.screwdriver", ColorHex: "#10b981"},
		{ID: "premium", Name: "Premium Service", BasePrice: 150, Icon: "star", ColorHex: "#f59e0b"},
		{ID: "repair", Name: "Repair", BasePrice: 120, Icon: "hammer", ColorHex: "#ef4444"},
		{ID: "follow-up", Name: "Follow-up", BasePrice: 30, Icon: "arrow.uturn.forward", ColorHex: "#9333ea"},
	}
}

// FindTemplate looks up a built-in template by ID or case-insensitive name.
func FindTemplate(idOrName string) (ServiceTemplate, bool) {
	for _, t := range DefaultTemplates() {
		if t.ID == idOrName || equalFold(t.Name, idOrName) {
			return t, true
		}
	}
	return ServiceTemplate{}, false
}
