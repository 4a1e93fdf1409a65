package signals

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// cryptoEntities is the canonical set the crypto extractor restricts entity
// matching to, so "gold" in a title never turns a commodities market into a
// crypto one.
var cryptoEntities = map[string]bool{
	"BITCOIN": true, "ETHEREUM": true, "SOLANA": true, "XRP": true,
	"DOGECOIN": true, "CARDANO": true, "AVALANCHE": true, "POLKADOT": true,
	"CHAINLINK": true, "LITECOIN": true, "BNB": true, "SHIBA_INU": true,
	"POLYGON": true, "TRON": true, "TONCOIN": true, "NEAR": true,
	"COSMOS": true, "UNISWAP": true, "STELLAR": true, "ETHEREUM_CLASSIC": true,
	"BITCOIN_CASH": true, "APTOS": true, "ARBITRUM": true, "OPTIMISM": true,
	"SUI": true, "PEPE": true, "DOGWIFHAT": true, "BONK": true,
	"FILECOIN": true, "INTERNET_COMPUTER": true, "ALGORAND": true,
	"VECHAIN": true, "HEDERA": true, "AAVE": true, "MAKER": true,
	"INJECTIVE": true, "SEI": true, "CELESTIA": true, "RENDER": true,
}

var (
	intradayPattern = regexp.MustCompile(`(?i)\b(up\s+or\s+down|next\s+hour|this\s+hour|\d{1,2}(am|pm)\s+(et|edt|est)|hourly)\b`)
	yearlyPattern   = regexp.MustCompile(`(?i)\b(in|by\s+end\s+of|before)\s+(\d{4})\b|\bthis\s+year\b`)
)

// ExtractCrypto builds the crypto signal set. The venue's API close date
// wins over a title parse when both exist and agree on the month; a title
// parse that contradicts the close date by more than the month is kept (the
// API close on threshold families is often the trade-close, not the settle).
func ExtractCrypto(title string, closeTime *time.Time) Crypto {
	out := Crypto{
		Kind:       CryptoUnknown,
		Comparator: ParseComparator(title),
		DateType:   DateUnknown,
		DateSource: DateMissing,
	}
	out.Tokens = Tokenize(title)
	out.Entities = FindEntitiesIn(title, cryptoEntities)
	out.Entity = firstOr(out.Entities)
	out.Thresholds = Thresholds(ParseNumbers(title))

	if low, high, ok := ParseRange(title); ok {
		out.RangeLow, out.RangeHigh = &low, &high
	}

	titleDate := ParseDate(title, nil)
	switch {
	case titleDate.Type == DateDayExact || titleDate.Type == DateMonthEnd:
		out.SettleDate = titleDate.Date
		out.DateType = titleDate.Type
		out.PeriodKey = titleDate.PeriodKey
		out.DateSource = DateFromTitle
		if closeTime != nil && titleDate.Date != nil &&
			DayKeyOf(*titleDate.Date) == DayKeyOf(*closeTime) {
			d := closeTime.UTC().Truncate(24 * time.Hour)
			out.SettleDate = &d
			out.DateSource = DateFromAPI
		}
	case closeTime != nil:
		d := closeTime.UTC().Truncate(24 * time.Hour)
		out.SettleDate = &d
		out.DateType = DateCloseTime
		out.PeriodKey = MonthKeyOf(d)
		out.DateSource = DateFromFallback
	}

	switch {
	case intradayPattern.MatchString(title):
		out.Kind = CryptoIntradayUpDown
	case out.RangeLow != nil:
		out.Kind = CryptoDailyRange
	case yearlyPattern.MatchString(title) && out.DateType != DateDayExact:
		out.Kind = CryptoYearlyThreshold
	case out.Comparator == CompGE || out.Comparator == CompLE:
		out.Kind = CryptoDailyThreshold
	}
	return out
}

var (
	cutPattern  = regexp.MustCompile(`(?i)\b(cut|cuts|lower|lowers|reduce|reduces|ease|decrease)\b`)
	hikePattern = regexp.MustCompile(`(?i)\b(hike|hikes|raise|raises|increase|increases|tighten)\b`)
	holdPattern = regexp.MustCompile(`(?i)\b(hold|holds|no\s+change|unchanged|maintain|maintains|steady)\b`)
)

// ExtractRates builds the central-bank decision signal set.
func ExtractRates(title string, closeTime *time.Time) Rates {
	out := Rates{Bank: BankUnknown, Action: ActionUnknown, DateType: DateUnknown}
	out.Tokens = Tokenize(title)
	out.Entities = FindEntities(title)

	for _, e := range out.Entities {
		switch e {
		case "FED":
			out.Bank = BankFed
		case "ECB":
			out.Bank = BankECB
		case "BOE":
			out.Bank = BankBOE
		case "BOJ":
			out.Bank = BankBOJ
		}
		if out.Bank != BankUnknown {
			break
		}
	}
	out.Entity = string(out.Bank)
	if out.Bank == BankUnknown {
		out.Entity = ""
	}

	switch {
	case cutPattern.MatchString(title):
		out.Action = ActionCut
	case hikePattern.MatchString(title):
		out.Action = ActionHike
	case holdPattern.MatchString(title):
		out.Action = ActionHold
	case regexp.MustCompile(`(?i)\bpause\b`).MatchString(title):
		out.Action = ActionPause
	}

	out.BasisPoints = ParseBasisPoints(title)

	d := ParseDate(title, closeTime)
	out.DateType = d.Type
	if d.Date != nil {
		out.MeetingMonth = MonthKeyOf(*d.Date)
	}
	return out
}

var (
	officePatterns = []struct {
		re     *regexp.Regexp
		office ElectionOffice
	}{
		{regexp.MustCompile(`(?i)\b(president|presidential|presidency|white\s+house)\b`), OfficePresident},
		{regexp.MustCompile(`(?i)\bsenate|senator\b`), OfficeSenate},
		{regexp.MustCompile(`(?i)\bhouse\s+(of\s+representatives|seat|race|control)|congressional\s+district\b`), OfficeHouse},
		{regexp.MustCompile(`(?i)\bgovernor|gubernatorial\b`), OfficeGovernor},
		{regexp.MustCompile(`(?i)\b(control\s+(of\s+)?(the\s+)?(house|senate|congress)|party\s+control|majority)\b`), OfficePartyControl},
	}
	marginPattern  = regexp.MustCompile(`(?i)\b(margin|by\s+\d+(\.\d+)?\s*(points?|%))\b`)
	turnoutPattern = regexp.MustCompile(`(?i)\bturnout\b`)
	yearPattern    = regexp.MustCompile(`\b(20\d{2})\b`)
	statePattern   = regexp.MustCompile(`(?i)\b(alabama|alaska|arizona|arkansas|california|colorado|connecticut|delaware|florida|georgia|hawaii|idaho|illinois|indiana|iowa|kansas|kentucky|louisiana|maine|maryland|massachusetts|michigan|minnesota|mississippi|missouri|montana|nebraska|nevada|new\s+hampshire|new\s+jersey|new\s+mexico|new\s+york|north\s+carolina|north\s+dakota|ohio|oklahoma|oregon|pennsylvania|rhode\s+island|south\s+carolina|south\s+dakota|tennessee|texas|utah|vermont|virginia|washington|west\s+virginia|wisconsin|wyoming)\b`)
)

var stateCodes = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY",
}

// countryEntities are the ISO-ish codes the alias table maps countries to.
var countryEntities = map[string]bool{
	"US": true, "UK": true, "FR": true, "DE": true, "IT": true, "ES": true,
	"CA": true, "MX": true, "BR": true, "AR": true, "JP": true, "CN": true,
	"IN": true, "KR": true, "RU": true, "UA": true, "IL": true, "IR": true,
	"TW": true, "AU": true, "PL": true, "NL": true,
}

// politicianSet gates the candidate extraction to people; party entities
// count as candidates for party-control markets.
var politicianSet = func() map[string]bool {
	set := map[string]bool{"REPUBLICAN": true, "DEMOCRAT": true}
	for _, canon := range entityAliases {
		if strings.Contains(canon, "_") && !countryEntities[canon] {
			set[canon] = true
		}
	}
	// Hand-prune non-people multi-word canonicals that slip the heuristic.
	for _, k := range []string{
		"SHIBA_INU", "ETHEREUM_CLASSIC", "BITCOIN_CASH", "INTERNET_COMPUTER",
		"OIL_WTI", "OIL_BRENT", "JOBLESS_CLAIMS", "RETAIL_SALES",
		"CONSUMER_CONFIDENCE", "HOUSING_STARTS", "DEBT_CEILING", "GOVT_SHUTDOWN",
		"SUPER_BOWL", "WORLD_SERIES", "NBA_FINALS", "STANLEY_CUP", "WORLD_CUP",
		"CHAMPIONS_LEAGUE", "GOLDEN_GLOBES", "TIME_POTY", "NOBEL_PEACE",
		"EL_NINO", "LA_NINA", "TIKTOK_BAN",
	} {
		delete(set, k)
	}
	for _, k := range teamCanonicals() {
		delete(set, k)
	}
	return set
}()

// ExtractElections builds the election signal set.
func ExtractElections(title string, closeTime *time.Time) Elections {
	out := Elections{Office: OfficeUnknown, Intent: IntentUnknown}
	out.Tokens = Tokenize(title)
	out.Entities = FindEntities(title)

	countries := FindEntitiesIn(title, countryEntities)
	if len(countries) > 0 {
		out.Country = countries[0]
	}

	for _, op := range officePatterns {
		if op.re.MatchString(title) {
			out.Office = op.office
			break
		}
	}
	if out.Country == "" && (out.Office == OfficeSenate || out.Office == OfficeHouse || out.Office == OfficeGovernor) {
		out.Country = "US"
	}

	if m := statePattern.FindString(title); m != "" {
		out.State = stateCodes[strings.Join(strings.Fields(strings.ToLower(m)), " ")]
	}

	if m := yearPattern.FindStringSubmatch(title); m != nil {
		out.Year, _ = strconv.Atoi(m[1])
	} else if closeTime != nil {
		out.Year = closeTime.UTC().Year()
	}

	out.Candidates = FindEntitiesIn(title, politicianSet)
	out.Entity = firstOr(out.Candidates)

	switch {
	case turnoutPattern.MatchString(title):
		out.Intent = IntentTurnout
	case marginPattern.MatchString(title):
		out.Intent = IntentMargin
	case out.Office == OfficePartyControl:
		out.Intent = IntentPartyControl
	case regexp.MustCompile(`(?i)\b(win|wins|winner|elected|become)\b`).MatchString(title):
		out.Intent = IntentWinner
	}
	return out
}

var leaguePatterns = []struct {
	re     *regexp.Regexp
	league string
}{
	{regexp.MustCompile(`(?i)\bnba\b`), "NBA"},
	{regexp.MustCompile(`(?i)\bnfl\b`), "NFL"},
	{regexp.MustCompile(`(?i)\bmlb\b`), "MLB"},
	{regexp.MustCompile(`(?i)\bnhl\b`), "NHL"},
	{regexp.MustCompile(`(?i)\bmls\b`), "MLS"},
	{regexp.MustCompile(`(?i)\b(epl|premier\s+league)\b`), "EPL"},
	{regexp.MustCompile(`(?i)\bufc\b`), "UFC"},
	{regexp.MustCompile(`(?i)\b(cs2|counter-strike|csgo)\b`), "CS2"},
	{regexp.MustCompile(`(?i)\bncaa\b`), "NCAA"},
}

var teamLeagues = map[string]string{}

func registerTeams(league string, canonicals ...string) {
	for _, c := range canonicals {
		teamLeagues[c] = league
	}
}

func init() {
	registerTeams("NBA",
		"LOS_ANGELES_LAKERS", "BOSTON_CELTICS", "GOLDEN_STATE_WARRIORS",
		"MILWAUKEE_BUCKS", "DENVER_NUGGETS", "PHOENIX_SUNS", "MIAMI_HEAT",
		"NEW_YORK_KNICKS", "BROOKLYN_NETS", "PHILADELPHIA_76ERS",
		"DALLAS_MAVERICKS", "LA_CLIPPERS", "OKLAHOMA_CITY_THUNDER",
		"MINNESOTA_TIMBERWOLVES", "CLEVELAND_CAVALIERS", "CHICAGO_BULLS",
		"HOUSTON_ROCKETS", "SAN_ANTONIO_SPURS", "SACRAMENTO_KINGS",
		"MEMPHIS_GRIZZLIES", "NEW_ORLEANS_PELICANS", "ATLANTA_HAWKS",
		"TORONTO_RAPTORS", "UTAH_JAZZ", "ORLANDO_MAGIC", "INDIANA_PACERS",
		"DETROIT_PISTONS", "CHARLOTTE_HORNETS", "WASHINGTON_WIZARDS",
		"PORTLAND_TRAIL_BLAZERS")
	registerTeams("NFL",
		"KANSAS_CITY_CHIEFS", "PHILADELPHIA_EAGLES", "BUFFALO_BILLS",
		"BALTIMORE_RAVENS", "SAN_FRANCISCO_49ERS", "DALLAS_COWBOYS",
		"DETROIT_LIONS", "GREEN_BAY_PACKERS", "CINCINNATI_BENGALS",
		"MIAMI_DOLPHINS", "NEW_YORK_JETS", "NEW_YORK_GIANTS",
		"NEW_ENGLAND_PATRIOTS", "PITTSBURGH_STEELERS", "HOUSTON_TEXANS",
		"DENVER_BRONCOS", "LOS_ANGELES_CHARGERS", "LOS_ANGELES_RAMS",
		"SEATTLE_SEAHAWKS", "TAMPA_BAY_BUCCANEERS", "MINNESOTA_VIKINGS",
		"ATLANTA_FALCONS", "WASHINGTON_COMMANDERS", "CHICAGO_BEARS",
		"NEW_ORLEANS_SAINTS", "INDIANAPOLIS_COLTS", "JACKSONVILLE_JAGUARS",
		"TENNESSEE_TITANS", "ARIZONA_CARDINALS", "LAS_VEGAS_RAIDERS",
		"CAROLINA_PANTHERS", "CLEVELAND_BROWNS")
	registerTeams("MLB",
		"NEW_YORK_YANKEES", "LOS_ANGELES_DODGERS", "BOSTON_RED_SOX",
		"NEW_YORK_METS", "CHICAGO_CUBS", "ATLANTA_BRAVES", "HOUSTON_ASTROS",
		"PHILADELPHIA_PHILLIES", "SAN_DIEGO_PADRES", "BALTIMORE_ORIOLES",
		"CLEVELAND_GUARDIANS", "SEATTLE_MARINERS", "TEXAS_RANGERS",
		"ARIZONA_DIAMONDBACKS", "MILWAUKEE_BREWERS", "MINNESOTA_TWINS",
		"KANSAS_CITY_ROYALS", "DETROIT_TIGERS", "TAMPA_BAY_RAYS",
		"TORONTO_BLUE_JAYS")
	registerTeams("NHL",
		"NEW_YORK_RANGERS", "BOSTON_BRUINS", "TORONTO_MAPLE_LEAFS",
		"EDMONTON_OILERS", "COLORADO_AVALANCHE", "FLORIDA_PANTHERS",
		"VEGAS_GOLDEN_KNIGHTS", "TAMPA_BAY_LIGHTNING", "VANCOUVER_CANUCKS",
		"CHICAGO_BLACKHAWKS", "PITTSBURGH_PENGUINS", "WASHINGTON_CAPITALS",
		"DETROIT_RED_WINGS", "DALLAS_STARS")
	registerTeams("EPL",
		"ARSENAL", "MANCHESTER_CITY", "MANCHESTER_UNITED", "LIVERPOOL",
		"CHELSEA", "TOTTENHAM", "NEWCASTLE", "ASTON_VILLA", "WEST_HAM",
		"EVERTON", "BRIGHTON", "WOLVERHAMPTON", "CRYSTAL_PALACE", "FULHAM",
		"BRENTFORD", "NOTTINGHAM_FOREST", "BOURNEMOUTH", "LEICESTER")
}

func teamCanonicals() []string {
	out := make([]string, 0, len(teamLeagues))
	for c := range teamLeagues {
		out = append(out, c)
	}
	return out
}

var teamSet = func() map[string]bool {
	set := map[string]bool{}
	for c := range teamLeagues {
		set[c] = true
	}
	return set
}()

var (
	spreadLine      = regexp.MustCompile(`([+-]\d+(?:\.\d+)?)`)
	totalPattern    = regexp.MustCompile(`(?i)\b(total|over\/under|o\/u|combined)\b`)
	totalLine       = regexp.MustCompile(`(?i)\b(?:over|under|total[s]?(?:\s+of)?)\s+(\d+(?:\.\d+)?)\b`)
	moneylineHint   = regexp.MustCompile(`(?i)\b(moneyline|winner|to\s+win|win\s+vs|beat[s]?)\b`)
	halfPattern     = regexp.MustCompile(`(?i)\b(1st\s+half|first\s+half|h1)\b`)
	secondHalfPat   = regexp.MustCompile(`(?i)\b(2nd\s+half|second\s+half|h2)\b`)
	overtimePattern = regexp.MustCompile(`(?i)\b(overtime|ot)\b`)
	mvePattern      = regexp.MustCompile(`(?i)^kxmv`)
)

// ExtractSports builds the game-market signal set. TeamA/TeamB are sorted so
// home/away ordering differences across venues disappear.
func ExtractSports(title string, closeTime *time.Time, meta map[string]string) Sports {
	out := Sports{MarketType: SportsUnknown, Period: PeriodFullGame}
	out.Tokens = Tokenize(title)

	teams := FindEntitiesIn(title, teamSet)
	out.Entities = teams
	if len(teams) >= 2 {
		out.TeamA, out.TeamB = teams[0], teams[1]
		out.Entity = out.TeamA
	} else if len(teams) == 1 {
		out.TeamA = teams[0]
		out.Entity = out.TeamA
	}

	for _, lp := range leaguePatterns {
		if lp.re.MatchString(title) {
			out.League = lp.league
			break
		}
	}
	if out.League == "" && out.TeamA != "" {
		out.League = teamLeagues[out.TeamA]
	}

	if closeTime != nil {
		b := FloorToBucket(*closeTime)
		out.StartBucket = &b
	}
	if raw := meta["start_time"]; raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			b := FloorToBucket(t)
			out.StartBucket = &b
		}
	}

	switch {
	case totalPattern.MatchString(title):
		out.MarketType = SportsTotal
		if m := totalLine.FindStringSubmatch(title); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				out.Line = &v
			}
		}
	case spreadLine.MatchString(title):
		if m := spreadLine.FindStringSubmatch(title); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				out.MarketType = SportsSpread
				out.Line = &v
			}
		}
	case moneylineHint.MatchString(title) || len(teams) >= 2:
		out.MarketType = SportsMoneyline
	default:
		out.MarketType = SportsProp
	}

	switch {
	case halfPattern.MatchString(title):
		out.Period = PeriodH1
	case secondHalfPat.MatchString(title):
		out.Period = PeriodH2
	case overtimePattern.MatchString(title):
		out.Period = PeriodOT
	}

	ticker := meta["ticker"]
	if ticker == "" {
		ticker = meta["series_ticker"]
	}
	if mvePattern.MatchString(strings.ToUpper(ticker)) || meta["mutually_exclusive"] == "true" {
		out.MVE = true
	}
	return out
}

// commodityEntities restricts the commodities extractor's entity scan.
var commodityEntities = map[string]bool{
	"OIL_WTI": true, "OIL_BRENT": true, "NATGAS": true, "GOLD": true,
	"SILVER": true, "COPPER": true, "PLATINUM": true, "PALLADIUM": true,
	"CORN": true, "WHEAT": true, "SOYBEANS": true, "COFFEE": true,
	"COCOA": true, "SUGAR": true, "LUMBER": true, "COTTON": true,
	"GASOLINE": true, "URANIUM": true, "LITHIUM": true,
}

// contractCodes maps canonical underlyings to their futures letter codes.
var contractCodes = map[string]string{
	"OIL_WTI": "CL", "OIL_BRENT": "BZ", "NATGAS": "NG", "GOLD": "GC",
	"SILVER": "SI", "COPPER": "HG", "PLATINUM": "PL", "PALLADIUM": "PA",
	"CORN": "ZC", "WHEAT": "ZW", "SOYBEANS": "ZS", "GASOLINE": "RB",
}

// ExtractCommodities builds the commodity signal set.
func ExtractCommodities(title string, closeTime *time.Time) Commodities {
	out := Commodities{Comparator: ParseComparator(title), DateType: DateUnknown}
	out.Tokens = Tokenize(title)
	out.Entities = FindEntitiesIn(title, commodityEntities)
	out.Underlying = firstOr(out.Entities)
	out.Entity = out.Underlying
	out.ContractCode = contractCodes[out.Underlying]
	out.Thresholds = Thresholds(ParseNumbers(title))

	d := ParseDate(title, closeTime)
	out.DateType = d.Type
	out.TargetDate = d.Date
	if d.Date != nil {
		out.ContractMonth = MonthKeyOf(*d.Date)
	}
	return out
}

// macroEntities restricts the macro extractor to indicator + country hits.
var macroEntities = func() map[string]bool {
	set := map[string]bool{
		"CPI": true, "PCE": true, "PPI": true, "GDP": true, "NFP": true,
		"UNEMPLOYMENT": true, "JOBLESS_CLAIMS": true, "RETAIL_SALES": true,
		"ISM": true, "PMI": true, "CONSUMER_CONFIDENCE": true,
		"HOUSING_STARTS": true, "RECESSION": true, "DEBT_CEILING": true,
		"GOVT_SHUTDOWN": true,
	}
	for c := range countryEntities {
		set[c] = true
	}
	return set
}()

// ExtractMacro builds the indicator signal set. Entities stays multi-valued:
// a US CPI print carries both CPI and US.
func ExtractMacro(title string, closeTime *time.Time) Macro {
	out := Macro{Comparator: ParseComparator(title), DateType: DateUnknown}
	out.Tokens = Tokenize(title)
	out.Entities = FindEntitiesIn(title, macroEntities)
	// Indicator first when present: sorted order would put country codes ahead.
	for _, e := range out.Entities {
		if !countryEntities[e] {
			out.Entity = e
			break
		}
	}
	if out.Entity == "" {
		out.Entity = firstOr(out.Entities)
	}

	for _, n := range ParseNumbers(title) {
		out.Thresholds = append(out.Thresholds, n.Value)
	}

	d := ParseDate(title, closeTime)
	out.DateType = d.Type
	out.PeriodKey = d.PeriodKey
	return out
}

// financeEntities restricts the finance extractor to instruments.
var financeEntities = map[string]bool{
	"SP500": true, "NASDAQ": true, "DOW": true, "RUSSELL2000": true,
	"VIX": true, "NIKKEI": true, "FTSE": true, "DAX": true, "UST10Y": true,
	"DXY": true, "TESLA": true, "NVIDIA": true, "APPLE": true,
	"MICROSOFT": true, "AMAZON": true, "META": true, "ALPHABET": true,
	"MICROSTRATEGY": true, "COINBASE": true, "OPENAI": true,
}

var (
	upPattern   = regexp.MustCompile(`(?i)\b(up|higher|gain[s]?|rall(y|ies)|rise[s]?|close[s]?\s+green|all-time\s+high|record\s+high)\b`)
	downPattern = regexp.MustCompile(`(?i)\b(down|lower|fall[s]?|drop[s]?|decline[s]?|close[s]?\s+red|crash)\b`)
)

// ExtractFinance builds the index/equity signal set.
func ExtractFinance(title string, closeTime *time.Time) Finance {
	out := Finance{
		Direction:  DirUnknown,
		Comparator: ParseComparator(title),
		DateType:   DateUnknown,
	}
	out.Tokens = Tokenize(title)
	out.Entities = FindEntitiesIn(title, financeEntities)
	out.Instrument = firstOr(out.Entities)
	out.Entity = out.Instrument

	if ts := Thresholds(ParseNumbers(title)); len(ts) > 0 {
		out.Target = &ts[0]
	}

	switch out.Comparator {
	case CompGE:
		out.Direction = DirUp
	case CompLE:
		out.Direction = DirDown
	default:
		up := upPattern.MatchString(title)
		down := downPattern.MatchString(title)
		switch {
		case up && !down:
			out.Direction = DirUp
		case down && !up:
			out.Direction = DirDown
		}
	}

	d := ParseDate(title, closeTime)
	out.DateType = d.Type
	out.PeriodKey = d.PeriodKey
	return out
}

// ExtractUniversal is the fallback extractor for topics without dedicated
// structure: entity set, tokens, and a date anchor are all it offers.
func ExtractUniversal(title string, closeTime *time.Time) Universal {
	out := Universal{DateType: DateUnknown}
	out.Tokens = Tokenize(title)
	out.Entities = FindEntities(title)
	out.Entity = firstOr(out.Entities)

	d := ParseDate(title, closeTime)
	out.DateType = d.Type
	out.EventDate = d.Date
	out.PeriodKey = d.PeriodKey
	return out
}
