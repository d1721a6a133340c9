package domain

// StockStatus represents the lifecycle state of a listed company.
// The transition is one-way: active companies can go bankrupt, bankrupt
// companies are never revived and are kept as tombstones.
type StockStatus string

const (
	StockStatusActive   StockStatus = "active"
	StockStatusBankrupt StockStatus = "bankrupt"
)

// CapTier buckets companies by market capitalization. The tier is assigned
// at creation and drives the base volatility range.
type CapTier string

const (
	CapTierMega  CapTier = "MEGA_CAP"
	CapTierLarge CapTier = "LARGE_CAP"
	CapTierMid   CapTier = "MID_CAP"
	CapTierSmall CapTier = "SMALL_CAP"
)

// WinnerStatus marks companies whose tracked performance exceeds the market
// average over the tracking window ("escape velocity").
type WinnerStatus string

const (
	WinnerStatusNormal WinnerStatus = "NORMAL"
	WinnerStatusWinner WinnerStatus = "WINNER"
)

// Stock is the internal projection of a company. It exposes the full
// simulation state including metabolic health and the price history buffer.
// Field names are camelCase on the wire for frontend compatibility.
type Stock struct {
	ID                string       `json:"id"`
	Ticker            string       `json:"ticker"`
	Name              string       `json:"name"`
	Sector            string       `json:"sector"`
	SubIndustry       string       `json:"subIndustry"`
	Price             float64      `json:"price"`
	SharesOutstanding float64      `json:"sharesOutstanding"`
	CurrentMarketCap  float64      `json:"currentMarketCap"`
	Volatility        float64      `json:"volatility"`
	ValueScore        float64      `json:"valueScore"`
	MetabolicHealth   float64      `json:"metabolicHealth"`
	History           []float64    `json:"history"`
	Status            StockStatus  `json:"status"`
	MarketCapTier     CapTier      `json:"marketCapTier"`
	WinnerStatus      WinnerStatus `json:"winnerStatus"`
	BaseVolatility    float64      `json:"baseVolatility"`
}

// ExternalStock is the public projection of a company. Internal mechanics
// (metabolic health, status, history, value score) are hidden; observers must
// infer company health from price movements and market cap changes.
type ExternalStock struct {
	ID                string  `json:"id"`
	Ticker            string  `json:"ticker"`
	Name              string  `json:"name"`
	Sector            string  `json:"sector"`
	SubIndustry       string  `json:"subIndustry"`
	Price             float64 `json:"price"`
	MarketStatus      string  `json:"marketStatus"`
	SharesOutstanding float64 `json:"sharesOutstanding"`
	CurrentMarketCap  float64 `json:"currentMarketCap"`
	Volatility        float64 `json:"volatility"`
}

// StockHistory is the response shape for per-ticker price history queries.
type StockHistory struct {
	Ticker       string    `json:"ticker"`
	History      []float64 `json:"history"`
	Ticks        int       `json:"ticks"`
	MarketStatus string    `json:"marketStatus"`
}
