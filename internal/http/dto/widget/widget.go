// Package widget contiene los DTOs de los endpoints públicos del widget.
package widget

// ConfigResponse es la configuración que el script embebido consume.
type ConfigResponse struct {
	SiteID      string         `json:"siteId,omitempty"`
	CompanyName string         `json:"companyName,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
}

// TelemetryRequest es un evento de uso reportado por el widget.
type TelemetryRequest struct {
	SiteID string `json:"siteId,omitempty"`
	Event  string `json:"event"`
}

// TelemetryResponse: la ingesta es fail-open, siempre responde aceptado.
type TelemetryResponse struct {
	Accepted bool `json:"accepted"`
}
