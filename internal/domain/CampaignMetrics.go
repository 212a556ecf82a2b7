package domain

// Chaves canônicas de conversão. Os adaptadores de plataforma mapeiam a
// taxonomia de cada fornecedor para estas chaves; tipos de ação não mapeados
// são descartados na normalização.
const (
	ActionClickToCall   = "click_to_call"
	ActionEmailContacts = "email_contacts"
	ActionBookingStep1  = "booking_step_1"
	ActionBookingStep2  = "booking_step_2"
	ActionBookingStep3  = "booking_step_3"
	ActionReservations  = "reservations"
)

// CanonicalActionTypes lista as chaves de conversão presentes em todo registro
// normalizado, sempre com valor zero quando o fornecedor não reporta a ação
var CanonicalActionTypes = []string{
	ActionClickToCall,
	ActionEmailContacts,
	ActionBookingStep1,
	ActionBookingStep2,
	ActionBookingStep3,
	ActionReservations,
}

// ConversionMetric representa a quantidade e o valor monetário de um tipo de conversão
type ConversionMetric struct {
	Count float64 `json:"count"`
	Value float64 `json:"value"`
}

// CampaignMetrics é o registro normalizado de performance de uma campanha em
// um intervalo de datas. Imutável após a criação: uma nova busca produz um
// novo registro, nunca altera o anterior.
type CampaignMetrics struct {
	CampaignID   string                      `json:"campaign_id"`
	CampaignName string                      `json:"campaign_name"`
	Platform     Platform                    `json:"platform"`
	Spend        float64                     `json:"spend"`
	Impressions  int                         `json:"impressions"`
	Clicks       int                         `json:"clicks"`
	CTR          float64                     `json:"ctr"`
	CPC          float64                     `json:"cpc"`
	Conversions  map[string]ConversionMetric `json:"conversions"`
	DateStart    string                      `json:"date_start"`
	DateStop     string                      `json:"date_stop"`
}

// EmptyConversions cria o mapa de conversões com todas as chaves canônicas zeradas
func EmptyConversions() map[string]ConversionMetric {
	conversions := make(map[string]ConversionMetric, len(CanonicalActionTypes))
	for _, actionType := range CanonicalActionTypes {
		conversions[actionType] = ConversionMetric{}
	}
	return conversions
}
