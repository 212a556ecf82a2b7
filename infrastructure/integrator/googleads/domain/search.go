package googledomain

// Estruturas da resposta do endpoint searchStream da API do Google Ads.
// Diferente do Meta, as métricas chegam tipadas; apenas os campos de 64 bits
// (micros, contagens) vêm como string no JSON.

type Campaign struct {
	ResourceName string `json:"resourceName"`
	ID           string `json:"id"`
	Name         string `json:"name"`
}

type Metrics struct {
	CostMicros       string  `json:"costMicros"`
	Impressions      string  `json:"impressions"`
	Clicks           string  `json:"clicks"`
	CTR              float64 `json:"ctr"`
	AverageCPC       float64 `json:"averageCpc"`
	Conversions      float64 `json:"conversions"`
	ConversionsValue float64 `json:"conversionsValue"`
}

type Segments struct {
	ConversionActionCategory string `json:"conversionActionCategory"`
	ConversionActionName     string `json:"conversionActionName"`
}

type Result struct {
	Campaign Campaign `json:"campaign"`
	Metrics  Metrics  `json:"metrics"`
	Segments Segments `json:"segments"`
}

type SearchResponse struct {
	Results       []Result `json:"results"`
	FieldMask     string   `json:"fieldMask"`
	RequestID     string   `json:"requestId"`
	NextPageToken string   `json:"nextPageToken"`
}

// ErrorResponse representa a estrutura de erro da API do Google Ads
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

type ErrorDetails struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// IsRateLimited verifica se o erro é de cota ou limite de requisições
func (e *ErrorResponse) IsRateLimited() bool {
	return e.Error.Status == "RESOURCE_EXHAUSTED"
}
