// Package signals turns raw market titles and metadata into the structured,
// topic-specific projections the matching pipelines score against. Every
// extractor is a pure function: same (title, closeTime, metadata) in, same
// signals out. Extraction is total — anything unparsable lands as UNKNOWN or
// nil, never as an error.
package signals

import "time"

// Comparator is the normalized direction of a threshold market.
// GT/LT phrasings collapse to GE/LE for matching purposes.
type Comparator string

const (
	CompGE      Comparator = "GE"
	CompLE      Comparator = "LE"
	CompBetween Comparator = "BETWEEN"
	CompEQ      Comparator = "EQ"
	CompUnknown Comparator = "UNKNOWN"
)

// DateType says how the settle date was anchored.
type DateType string

const (
	DateDayExact  DateType = "DAY_EXACT"
	DateMonthEnd  DateType = "MONTH_END"
	DateQuarter   DateType = "QUARTER"
	DateCloseTime DateType = "CLOSE_TIME"
	DateUnknown   DateType = "UNKNOWN"
)

// DateSource records which input won when settle dates disagree.
type DateSource string

const (
	DateFromAPI      DateSource = "API_CLOSE"
	DateFromTitle    DateSource = "TITLE_PARSE"
	DateFromFallback DateSource = "FALLBACK_CLOSE"
	DateMissing      DateSource = "MISSING"
)

// Common carries the fields every topic's signals share.
type Common struct {
	Entity   string   `json:"entity,omitempty"`
	Entities []string `json:"entities,omitempty"`
	Tokens   []string `json:"tokens"`
}

// CryptoKind is the market subtype for crypto threshold families.
type CryptoKind string

const (
	CryptoDailyThreshold  CryptoKind = "DAILY_THRESHOLD"
	CryptoDailyRange      CryptoKind = "DAILY_RANGE"
	CryptoYearlyThreshold CryptoKind = "YEARLY_THRESHOLD"
	CryptoIntradayUpDown  CryptoKind = "INTRADAY_UPDOWN"
	CryptoUnknown         CryptoKind = "UNKNOWN"
)

// Crypto is the signal set for CRYPTO_DAILY and CRYPTO_INTRADAY markets.
type Crypto struct {
	Common
	Kind       CryptoKind `json:"kind"`
	Comparator Comparator `json:"comparator"`
	Thresholds []float64  `json:"thresholds,omitempty"`
	RangeLow   *float64   `json:"range_low,omitempty"`
	RangeHigh  *float64   `json:"range_high,omitempty"`
	SettleDate *time.Time `json:"settle_date,omitempty"`
	DateType   DateType   `json:"date_type"`
	DateSource DateSource `json:"date_source"`
	PeriodKey  string     `json:"period_key,omitempty"`
}

// CentralBank enumerates the banks the rates extractor recognizes.
type CentralBank string

const (
	BankFed     CentralBank = "FED"
	BankECB     CentralBank = "ECB"
	BankBOE     CentralBank = "BOE"
	BankBOJ     CentralBank = "BOJ"
	BankUnknown CentralBank = "UNKNOWN"
)

// RateAction is what the market says the bank will do.
type RateAction string

const (
	ActionCut     RateAction = "CUT"
	ActionHike    RateAction = "HIKE"
	ActionHold    RateAction = "HOLD"
	ActionPause   RateAction = "PAUSE"
	ActionUnknown RateAction = "UNKNOWN"
)

// Rates is the signal set for central-bank decision markets.
type Rates struct {
	Common
	Bank         CentralBank `json:"bank"`
	Action       RateAction  `json:"action"`
	BasisPoints  *int        `json:"basis_points,omitempty"`
	MeetingMonth string      `json:"meeting_month,omitempty"` // YYYY-MM
	DateType     DateType    `json:"date_type"`
}

// ElectionOffice is the contested office family.
type ElectionOffice string

const (
	OfficePresident    ElectionOffice = "PRESIDENT"
	OfficeSenate       ElectionOffice = "SENATE"
	OfficeHouse        ElectionOffice = "HOUSE"
	OfficeGovernor     ElectionOffice = "GOVERNOR"
	OfficePartyControl ElectionOffice = "PARTY_CONTROL"
	OfficeUnknown      ElectionOffice = "UNKNOWN"
)

// ElectionIntent is what the market actually asks about the race.
type ElectionIntent string

const (
	IntentWinner       ElectionIntent = "WINNER"
	IntentMargin       ElectionIntent = "MARGIN"
	IntentTurnout      ElectionIntent = "TURNOUT"
	IntentPartyControl ElectionIntent = "PARTY_CONTROL"
	IntentUnknown      ElectionIntent = "UNKNOWN"
)

// Elections is the signal set for election markets.
type Elections struct {
	Common
	Country    string         `json:"country,omitempty"` // ISO-ish: US, UK, FR
	Office     ElectionOffice `json:"office"`
	Year       int            `json:"year,omitempty"`
	State      string         `json:"state,omitempty"` // US state code when present
	Candidates []string       `json:"candidates,omitempty"`
	Intent     ElectionIntent `json:"intent"`
}

// SportsMarketType is the bet family of a sports market.
type SportsMarketType string

const (
	SportsMoneyline SportsMarketType = "MONEYLINE"
	SportsSpread    SportsMarketType = "SPREAD"
	SportsTotal     SportsMarketType = "TOTAL"
	SportsProp      SportsMarketType = "PROP"
	SportsUnknown   SportsMarketType = "UNKNOWN"
)

// GamePeriod scopes a sports market to all or part of the game.
type GamePeriod string

const (
	PeriodFullGame GamePeriod = "FULL_GAME"
	PeriodH1       GamePeriod = "H1"
	PeriodH2       GamePeriod = "H2"
	PeriodOT       GamePeriod = "OT"
	PeriodUnknown  GamePeriod = "UNKNOWN"
)

// Sports is the signal set for game markets. TeamA sorts before TeamB so
// "Lakers vs Celtics" and "Celtics at Lakers" produce the same pair.
type Sports struct {
	Common
	League      string           `json:"league,omitempty"`
	TeamA       string           `json:"team_a,omitempty"`
	TeamB       string           `json:"team_b,omitempty"`
	StartBucket *time.Time       `json:"start_bucket,omitempty"` // floored to 30m
	MarketType  SportsMarketType `json:"market_type"`
	Line        *float64         `json:"line,omitempty"`
	Period      GamePeriod       `json:"period"`
	MVE         bool             `json:"mve,omitempty"` // mutually-exclusive event family
}

// Commodities is the signal set for commodity price markets.
type Commodities struct {
	Common
	Underlying    string     `json:"underlying,omitempty"` // OIL_WTI, GOLD, ...
	ContractCode  string     `json:"contract_code,omitempty"`
	ContractMonth string     `json:"contract_month,omitempty"` // YYYY-MM
	Comparator    Comparator `json:"comparator"`
	Thresholds    []float64  `json:"thresholds,omitempty"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	DateType      DateType   `json:"date_type"`
}

// Macro is the signal set for economic-indicator markets. Entities is
// multi-valued: {CPI, US} for a US inflation print.
type Macro struct {
	Common
	PeriodKey  string     `json:"period_key,omitempty"` // YYYY-MM, YYYY-Qn, YYYY
	Comparator Comparator `json:"comparator"`
	Thresholds []float64  `json:"thresholds,omitempty"`
	DateType   DateType   `json:"date_type"`
}

// Direction is the predicted move for finance markets.
type Direction string

const (
	DirUp      Direction = "UP"
	DirDown    Direction = "DOWN"
	DirUnknown Direction = "UNKNOWN"
)

// Finance is the signal set for index/equity-level markets.
type Finance struct {
	Common
	Instrument string     `json:"instrument,omitempty"` // SP500, NASDAQ, ...
	Direction  Direction  `json:"direction"`
	Target     *float64   `json:"target,omitempty"`
	PeriodKey  string     `json:"period_key,omitempty"`
	DateType   DateType   `json:"date_type"`
	Comparator Comparator `json:"comparator"`
}

// Universal is the fallback signal set for topics without a dedicated
// extractor (geopolitics, entertainment, climate, universal).
type Universal struct {
	Common
	PeriodKey string     `json:"period_key,omitempty"`
	EventDate *time.Time `json:"event_date,omitempty"`
	DateType  DateType   `json:"date_type"`
}
