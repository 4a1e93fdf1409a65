package signals

import "strings"

// NormalizeEntity maps an alias to its canonical entity name. Lookup is
// case-insensitive and whitespace-normalized; unknown inputs fall through
// uppercased with spaces collapsed to underscores, so the function is
// idempotent over its own output.
func NormalizeEntity(alias string) string {
	key := strings.Join(strings.Fields(strings.ToLower(alias)), " ")
	if key == "" {
		return ""
	}
	if canonical, ok := entityAliases[key]; ok {
		return canonical
	}
	return strings.ToUpper(strings.ReplaceAll(key, " ", "_"))
}

// LookupEntity is NormalizeEntity without the uppercase fallthrough: it
// reports whether the alias is actually in the table.
func LookupEntity(alias string) (string, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(alias)), " ")
	canonical, ok := entityAliases[key]
	return canonical, ok
}

// entityAliases is the static alias table. Keys are lowercase,
// single-spaced. The bare word "election" is intentionally absent: it
// produced false entity hits on unrelated titles and the classifier's title
// rules already route election phrasing.
var entityAliases = map[string]string{
	// Cryptocurrencies
	"btc": "BITCOIN", "bitcoin": "BITCOIN", "xbt": "BITCOIN",
	"eth": "ETHEREUM", "ethereum": "ETHEREUM", "ether": "ETHEREUM",
	"sol": "SOLANA", "solana": "SOLANA",
	"xrp": "XRP", "ripple": "XRP",
	"doge": "DOGECOIN", "dogecoin": "DOGECOIN",
	"ada": "CARDANO", "cardano": "CARDANO",
	"avax": "AVALANCHE", "avalanche": "AVALANCHE",
	"dot": "POLKADOT", "polkadot": "POLKADOT",
	"link": "CHAINLINK", "chainlink": "CHAINLINK",
	"ltc": "LITECOIN", "litecoin": "LITECOIN",
	"bnb": "BNB", "binance coin": "BNB",
	"shib": "SHIBA_INU", "shiba": "SHIBA_INU", "shiba inu": "SHIBA_INU",
	"matic": "POLYGON", "polygon": "POLYGON", "pol": "POLYGON",
	"trx": "TRON", "tron": "TRON",
	"ton": "TONCOIN", "toncoin": "TONCOIN",
	"near": "NEAR", "near protocol": "NEAR",
	"atom": "COSMOS", "cosmos": "COSMOS",
	"uni": "UNISWAP", "uniswap": "UNISWAP",
	"xlm": "STELLAR", "stellar": "STELLAR",
	"etc": "ETHEREUM_CLASSIC", "ethereum classic": "ETHEREUM_CLASSIC",
	"bch": "BITCOIN_CASH", "bitcoin cash": "BITCOIN_CASH",
	"apt": "APTOS", "aptos": "APTOS",
	"arb": "ARBITRUM", "arbitrum": "ARBITRUM",
	"op": "OPTIMISM", "optimism": "OPTIMISM",
	"sui": "SUI",
	"pepe": "PEPE",
	"wif": "DOGWIFHAT", "dogwifhat": "DOGWIFHAT",
	"bonk": "BONK",
	"fil": "FILECOIN", "filecoin": "FILECOIN",
	"icp": "INTERNET_COMPUTER", "internet computer": "INTERNET_COMPUTER",
	"algo": "ALGORAND", "algorand": "ALGORAND",
	"vet": "VECHAIN", "vechain": "VECHAIN",
	"hbar": "HEDERA", "hedera": "HEDERA",
	"aave": "AAVE",
	"mkr": "MAKER", "maker": "MAKER",
	"inj": "INJECTIVE", "injective": "INJECTIVE",
	"sei": "SEI",
	"tia": "CELESTIA", "celestia": "CELESTIA",
	"rndr": "RENDER", "render": "RENDER",

	// US politicians
	"trump": "DONALD_TRUMP", "donald trump": "DONALD_TRUMP", "donald j trump": "DONALD_TRUMP",
	"biden": "JOE_BIDEN", "joe biden": "JOE_BIDEN", "joseph biden": "JOE_BIDEN",
	"harris": "KAMALA_HARRIS", "kamala": "KAMALA_HARRIS", "kamala harris": "KAMALA_HARRIS",
	"vance": "JD_VANCE", "jd vance": "JD_VANCE", "j.d. vance": "JD_VANCE",
	"desantis": "RON_DESANTIS", "ron desantis": "RON_DESANTIS",
	"newsom": "GAVIN_NEWSOM", "gavin newsom": "GAVIN_NEWSOM",
	"obama": "BARACK_OBAMA", "barack obama": "BARACK_OBAMA",
	"michelle obama": "MICHELLE_OBAMA",
	"clinton": "HILLARY_CLINTON", "hillary clinton": "HILLARY_CLINTON", "hillary": "HILLARY_CLINTON",
	"sanders": "BERNIE_SANDERS", "bernie sanders": "BERNIE_SANDERS", "bernie": "BERNIE_SANDERS",
	"haley": "NIKKI_HALEY", "nikki haley": "NIKKI_HALEY",
	"ramaswamy": "VIVEK_RAMASWAMY", "vivek ramaswamy": "VIVEK_RAMASWAMY", "vivek": "VIVEK_RAMASWAMY",
	"rfk": "RFK_JR", "rfk jr": "RFK_JR", "robert f kennedy jr": "RFK_JR", "kennedy jr": "RFK_JR",
	"buttigieg": "PETE_BUTTIGIEG", "pete buttigieg": "PETE_BUTTIGIEG",
	"whitmer": "GRETCHEN_WHITMER", "gretchen whitmer": "GRETCHEN_WHITMER",
	"shapiro": "JOSH_SHAPIRO", "josh shapiro": "JOSH_SHAPIRO",
	"walz": "TIM_WALZ", "tim walz": "TIM_WALZ",
	"aoc": "AOC", "ocasio-cortez": "AOC", "alexandria ocasio-cortez": "AOC",
	"pence": "MIKE_PENCE", "mike pence": "MIKE_PENCE",
	"mcconnell": "MITCH_MCCONNELL", "mitch mcconnell": "MITCH_MCCONNELL",
	"schumer": "CHUCK_SCHUMER", "chuck schumer": "CHUCK_SCHUMER",
	"pelosi": "NANCY_PELOSI", "nancy pelosi": "NANCY_PELOSI",
	"johnson": "MIKE_JOHNSON", "mike johnson": "MIKE_JOHNSON",
	"cruz": "TED_CRUZ", "ted cruz": "TED_CRUZ",
	"rubio": "MARCO_RUBIO", "marco rubio": "MARCO_RUBIO",
	"fetterman": "JOHN_FETTERMAN", "john fetterman": "JOHN_FETTERMAN",
	"powell": "JEROME_POWELL", "jerome powell": "JEROME_POWELL", "jay powell": "JEROME_POWELL",
	"yellen": "JANET_YELLEN", "janet yellen": "JANET_YELLEN",
	"musk": "ELON_MUSK", "elon musk": "ELON_MUSK", "elon": "ELON_MUSK",

	// Non-US political figures
	"starmer": "KEIR_STARMER", "keir starmer": "KEIR_STARMER",
	"sunak": "RISHI_SUNAK", "rishi sunak": "RISHI_SUNAK",
	"farage": "NIGEL_FARAGE", "nigel farage": "NIGEL_FARAGE",
	"macron": "EMMANUEL_MACRON", "emmanuel macron": "EMMANUEL_MACRON",
	"le pen": "MARINE_LE_PEN", "marine le pen": "MARINE_LE_PEN", "lepen": "MARINE_LE_PEN",
	"scholz": "OLAF_SCHOLZ", "olaf scholz": "OLAF_SCHOLZ",
	"merz": "FRIEDRICH_MERZ", "friedrich merz": "FRIEDRICH_MERZ",
	"meloni": "GIORGIA_MELONI", "giorgia meloni": "GIORGIA_MELONI",
	"putin": "VLADIMIR_PUTIN", "vladimir putin": "VLADIMIR_PUTIN",
	"zelensky": "VOLODYMYR_ZELENSKY", "zelenskyy": "VOLODYMYR_ZELENSKY", "volodymyr zelensky": "VOLODYMYR_ZELENSKY",
	"xi": "XI_JINPING", "xi jinping": "XI_JINPING",
	"netanyahu": "BENJAMIN_NETANYAHU", "benjamin netanyahu": "BENJAMIN_NETANYAHU", "bibi": "BENJAMIN_NETANYAHU",
	"modi": "NARENDRA_MODI", "narendra modi": "NARENDRA_MODI",
	"trudeau": "JUSTIN_TRUDEAU", "justin trudeau": "JUSTIN_TRUDEAU",
	"carney": "MARK_CARNEY", "mark carney": "MARK_CARNEY",
	"milei": "JAVIER_MILEI", "javier milei": "JAVIER_MILEI",
	"lula": "LULA", "lula da silva": "LULA",
	"sheinbaum": "CLAUDIA_SHEINBAUM", "claudia sheinbaum": "CLAUDIA_SHEINBAUM",
	"lagarde": "CHRISTINE_LAGARDE", "christine lagarde": "CHRISTINE_LAGARDE",
	"bailey": "ANDREW_BAILEY", "andrew bailey": "ANDREW_BAILEY",
	"ueda": "KAZUO_UEDA", "kazuo ueda": "KAZUO_UEDA",

	// US parties and bodies
	"gop": "REPUBLICAN", "republicans": "REPUBLICAN", "republican": "REPUBLICAN", "republican party": "REPUBLICAN",
	"democrats": "DEMOCRAT", "democrat": "DEMOCRAT", "democratic party": "DEMOCRAT", "dems": "DEMOCRAT",

	// NBA teams
	"lakers": "LOS_ANGELES_LAKERS", "la lakers": "LOS_ANGELES_LAKERS", "los angeles lakers": "LOS_ANGELES_LAKERS",
	"celtics": "BOSTON_CELTICS", "boston celtics": "BOSTON_CELTICS",
	"warriors": "GOLDEN_STATE_WARRIORS", "golden state": "GOLDEN_STATE_WARRIORS", "golden state warriors": "GOLDEN_STATE_WARRIORS",
	"bucks": "MILWAUKEE_BUCKS", "milwaukee bucks": "MILWAUKEE_BUCKS",
	"nuggets": "DENVER_NUGGETS", "denver nuggets": "DENVER_NUGGETS",
	"suns": "PHOENIX_SUNS", "phoenix suns": "PHOENIX_SUNS",
	"heat": "MIAMI_HEAT", "miami heat": "MIAMI_HEAT",
	"knicks": "NEW_YORK_KNICKS", "new york knicks": "NEW_YORK_KNICKS", "ny knicks": "NEW_YORK_KNICKS",
	"nets": "BROOKLYN_NETS", "brooklyn nets": "BROOKLYN_NETS",
	"sixers": "PHILADELPHIA_76ERS", "76ers": "PHILADELPHIA_76ERS", "philadelphia 76ers": "PHILADELPHIA_76ERS",
	"mavericks": "DALLAS_MAVERICKS", "mavs": "DALLAS_MAVERICKS", "dallas mavericks": "DALLAS_MAVERICKS",
	"clippers": "LA_CLIPPERS", "la clippers": "LA_CLIPPERS", "los angeles clippers": "LA_CLIPPERS",
	"thunder": "OKLAHOMA_CITY_THUNDER", "okc": "OKLAHOMA_CITY_THUNDER", "oklahoma city thunder": "OKLAHOMA_CITY_THUNDER",
	"timberwolves": "MINNESOTA_TIMBERWOLVES", "wolves": "MINNESOTA_TIMBERWOLVES", "minnesota timberwolves": "MINNESOTA_TIMBERWOLVES",
	"cavaliers": "CLEVELAND_CAVALIERS", "cavs": "CLEVELAND_CAVALIERS", "cleveland cavaliers": "CLEVELAND_CAVALIERS",
	"bulls": "CHICAGO_BULLS", "chicago bulls": "CHICAGO_BULLS",
	"rockets": "HOUSTON_ROCKETS", "houston rockets": "HOUSTON_ROCKETS",
	"spurs": "SAN_ANTONIO_SPURS", "san antonio spurs": "SAN_ANTONIO_SPURS",
	"kings": "SACRAMENTO_KINGS", "sacramento kings": "SACRAMENTO_KINGS",
	"grizzlies": "MEMPHIS_GRIZZLIES", "memphis grizzlies": "MEMPHIS_GRIZZLIES",
	"pelicans": "NEW_ORLEANS_PELICANS", "new orleans pelicans": "NEW_ORLEANS_PELICANS",
	"hawks": "ATLANTA_HAWKS", "atlanta hawks": "ATLANTA_HAWKS",
	"raptors": "TORONTO_RAPTORS", "toronto raptors": "TORONTO_RAPTORS",
	"jazz": "UTAH_JAZZ", "utah jazz": "UTAH_JAZZ",
	"magic": "ORLANDO_MAGIC", "orlando magic": "ORLANDO_MAGIC",
	"pacers": "INDIANA_PACERS", "indiana pacers": "INDIANA_PACERS",
	"pistons": "DETROIT_PISTONS", "detroit pistons": "DETROIT_PISTONS",
	"hornets": "CHARLOTTE_HORNETS", "charlotte hornets": "CHARLOTTE_HORNETS",
	"wizards": "WASHINGTON_WIZARDS", "washington wizards": "WASHINGTON_WIZARDS",
	"trail blazers": "PORTLAND_TRAIL_BLAZERS", "blazers": "PORTLAND_TRAIL_BLAZERS", "portland trail blazers": "PORTLAND_TRAIL_BLAZERS",

	// NFL teams
	"chiefs": "KANSAS_CITY_CHIEFS", "kansas city chiefs": "KANSAS_CITY_CHIEFS",
	"eagles": "PHILADELPHIA_EAGLES", "philadelphia eagles": "PHILADELPHIA_EAGLES",
	"bills": "BUFFALO_BILLS", "buffalo bills": "BUFFALO_BILLS",
	"ravens": "BALTIMORE_RAVENS", "baltimore ravens": "BALTIMORE_RAVENS",
	"49ers": "SAN_FRANCISCO_49ERS", "niners": "SAN_FRANCISCO_49ERS", "san francisco 49ers": "SAN_FRANCISCO_49ERS",
	"cowboys": "DALLAS_COWBOYS", "dallas cowboys": "DALLAS_COWBOYS",
	"lions": "DETROIT_LIONS", "detroit lions": "DETROIT_LIONS",
	"packers": "GREEN_BAY_PACKERS", "green bay packers": "GREEN_BAY_PACKERS", "green bay": "GREEN_BAY_PACKERS",
	"bengals": "CINCINNATI_BENGALS", "cincinnati bengals": "CINCINNATI_BENGALS",
	"dolphins": "MIAMI_DOLPHINS", "miami dolphins": "MIAMI_DOLPHINS",
	"jets": "NEW_YORK_JETS", "new york jets": "NEW_YORK_JETS", "ny jets": "NEW_YORK_JETS",
	"giants": "NEW_YORK_GIANTS", "new york giants": "NEW_YORK_GIANTS", "ny giants": "NEW_YORK_GIANTS",
	"patriots": "NEW_ENGLAND_PATRIOTS", "new england patriots": "NEW_ENGLAND_PATRIOTS", "pats": "NEW_ENGLAND_PATRIOTS",
	"steelers": "PITTSBURGH_STEELERS", "pittsburgh steelers": "PITTSBURGH_STEELERS",
	"texans": "HOUSTON_TEXANS", "houston texans": "HOUSTON_TEXANS",
	"broncos": "DENVER_BRONCOS", "denver broncos": "DENVER_BRONCOS",
	"chargers": "LOS_ANGELES_CHARGERS", "la chargers": "LOS_ANGELES_CHARGERS", "los angeles chargers": "LOS_ANGELES_CHARGERS",
	"rams": "LOS_ANGELES_RAMS", "la rams": "LOS_ANGELES_RAMS", "los angeles rams": "LOS_ANGELES_RAMS",
	"seahawks": "SEATTLE_SEAHAWKS", "seattle seahawks": "SEATTLE_SEAHAWKS",
	"buccaneers": "TAMPA_BAY_BUCCANEERS", "bucs": "TAMPA_BAY_BUCCANEERS", "tampa bay buccaneers": "TAMPA_BAY_BUCCANEERS",
	"vikings": "MINNESOTA_VIKINGS", "minnesota vikings": "MINNESOTA_VIKINGS",
	"falcons": "ATLANTA_FALCONS", "atlanta falcons": "ATLANTA_FALCONS",
	"commanders": "WASHINGTON_COMMANDERS", "washington commanders": "WASHINGTON_COMMANDERS",
	"bears": "CHICAGO_BEARS", "chicago bears": "CHICAGO_BEARS",
	"saints": "NEW_ORLEANS_SAINTS", "new orleans saints": "NEW_ORLEANS_SAINTS",
	"colts": "INDIANAPOLIS_COLTS", "indianapolis colts": "INDIANAPOLIS_COLTS",
	"jaguars": "JACKSONVILLE_JAGUARS", "jacksonville jaguars": "JACKSONVILLE_JAGUARS", "jags": "JACKSONVILLE_JAGUARS",
	"titans": "TENNESSEE_TITANS", "tennessee titans": "TENNESSEE_TITANS",
	"cardinals": "ARIZONA_CARDINALS", "arizona cardinals": "ARIZONA_CARDINALS",
	"raiders": "LAS_VEGAS_RAIDERS", "las vegas raiders": "LAS_VEGAS_RAIDERS",
	"panthers": "CAROLINA_PANTHERS", "carolina panthers": "CAROLINA_PANTHERS",
	"browns": "CLEVELAND_BROWNS", "cleveland browns": "CLEVELAND_BROWNS",

	// MLB teams
	"yankees": "NEW_YORK_YANKEES", "new york yankees": "NEW_YORK_YANKEES", "ny yankees": "NEW_YORK_YANKEES",
	"dodgers": "LOS_ANGELES_DODGERS", "la dodgers": "LOS_ANGELES_DODGERS", "los angeles dodgers": "LOS_ANGELES_DODGERS",
	"red sox": "BOSTON_RED_SOX", "boston red sox": "BOSTON_RED_SOX",
	"mets": "NEW_YORK_METS", "new york mets": "NEW_YORK_METS", "ny mets": "NEW_YORK_METS",
	"cubs": "CHICAGO_CUBS", "chicago cubs": "CHICAGO_CUBS",
	"braves": "ATLANTA_BRAVES", "atlanta braves": "ATLANTA_BRAVES",
	"astros": "HOUSTON_ASTROS", "houston astros": "HOUSTON_ASTROS",
	"phillies": "PHILADELPHIA_PHILLIES", "philadelphia phillies": "PHILADELPHIA_PHILLIES",
	"padres": "SAN_DIEGO_PADRES", "san diego padres": "SAN_DIEGO_PADRES",
	"orioles": "BALTIMORE_ORIOLES", "baltimore orioles": "BALTIMORE_ORIOLES",
	"guardians": "CLEVELAND_GUARDIANS", "cleveland guardians": "CLEVELAND_GUARDIANS",
	"mariners": "SEATTLE_MARINERS", "seattle mariners": "SEATTLE_MARINERS",
	"rangers": "TEXAS_RANGERS", "texas rangers": "TEXAS_RANGERS",
	"diamondbacks": "ARIZONA_DIAMONDBACKS", "dbacks": "ARIZONA_DIAMONDBACKS", "arizona diamondbacks": "ARIZONA_DIAMONDBACKS",
	"brewers": "MILWAUKEE_BREWERS", "milwaukee brewers": "MILWAUKEE_BREWERS",
	"twins": "MINNESOTA_TWINS", "minnesota twins": "MINNESOTA_TWINS",
	"royals": "KANSAS_CITY_ROYALS", "kansas city royals": "KANSAS_CITY_ROYALS",
	"tigers": "DETROIT_TIGERS", "detroit tigers": "DETROIT_TIGERS",
	"rays": "TAMPA_BAY_RAYS", "tampa bay rays": "TAMPA_BAY_RAYS",
	"blue jays": "TORONTO_BLUE_JAYS", "toronto blue jays": "TORONTO_BLUE_JAYS",

	// NHL teams
	"rangers nhl": "NEW_YORK_RANGERS", "new york rangers": "NEW_YORK_RANGERS",
	"bruins": "BOSTON_BRUINS", "boston bruins": "BOSTON_BRUINS",
	"maple leafs": "TORONTO_MAPLE_LEAFS", "toronto maple leafs": "TORONTO_MAPLE_LEAFS", "leafs": "TORONTO_MAPLE_LEAFS",
	"oilers": "EDMONTON_OILERS", "edmonton oilers": "EDMONTON_OILERS",
	"avalanche nhl": "COLORADO_AVALANCHE", "colorado avalanche": "COLORADO_AVALANCHE",
	"panthers nhl": "FLORIDA_PANTHERS", "florida panthers": "FLORIDA_PANTHERS",
	"golden knights": "VEGAS_GOLDEN_KNIGHTS", "vegas golden knights": "VEGAS_GOLDEN_KNIGHTS",
	"lightning": "TAMPA_BAY_LIGHTNING", "tampa bay lightning": "TAMPA_BAY_LIGHTNING",
	"canucks": "VANCOUVER_CANUCKS", "vancouver canucks": "VANCOUVER_CANUCKS",
	"blackhawks": "CHICAGO_BLACKHAWKS", "chicago blackhawks": "CHICAGO_BLACKHAWKS",
	"penguins": "PITTSBURGH_PENGUINS", "pittsburgh penguins": "PITTSBURGH_PENGUINS",
	"capitals": "WASHINGTON_CAPITALS", "washington capitals": "WASHINGTON_CAPITALS", "caps": "WASHINGTON_CAPITALS",
	"red wings": "DETROIT_RED_WINGS", "detroit red wings": "DETROIT_RED_WINGS",
	"stars": "DALLAS_STARS", "dallas stars": "DALLAS_STARS",

	// EPL clubs
	"arsenal": "ARSENAL", "man city": "MANCHESTER_CITY", "manchester city": "MANCHESTER_CITY",
	"man united": "MANCHESTER_UNITED", "man utd": "MANCHESTER_UNITED", "manchester united": "MANCHESTER_UNITED",
	"liverpool": "LIVERPOOL", "chelsea": "CHELSEA",
	"tottenham": "TOTTENHAM", "spurs epl": "TOTTENHAM",
	"newcastle": "NEWCASTLE", "aston villa": "ASTON_VILLA", "villa": "ASTON_VILLA",
	"west ham": "WEST_HAM", "everton": "EVERTON", "brighton": "BRIGHTON",
	"wolves epl": "WOLVERHAMPTON", "wolverhampton": "WOLVERHAMPTON",
	"crystal palace": "CRYSTAL_PALACE", "fulham": "FULHAM", "brentford": "BRENTFORD",
	"nottingham forest": "NOTTINGHAM_FOREST", "forest": "NOTTINGHAM_FOREST",
	"bournemouth": "BOURNEMOUTH", "leicester": "LEICESTER",

	// Commodities
	"wti": "OIL_WTI", "wti crude": "OIL_WTI", "crude oil": "OIL_WTI", "crude": "OIL_WTI", "oil": "OIL_WTI", "cl": "OIL_WTI",
	"brent": "OIL_BRENT", "brent crude": "OIL_BRENT",
	"natural gas": "NATGAS", "natgas": "NATGAS", "nat gas": "NATGAS", "henry hub": "NATGAS", "ng": "NATGAS",
	"gold": "GOLD", "gc": "GOLD", "xau": "GOLD",
	"silver": "SILVER", "si": "SILVER", "xag": "SILVER",
	"copper": "COPPER", "hg": "COPPER",
	"platinum": "PLATINUM", "palladium": "PALLADIUM",
	"corn": "CORN", "zc": "CORN",
	"wheat": "WHEAT", "zw": "WHEAT",
	"soybeans": "SOYBEANS", "soybean": "SOYBEANS", "zs": "SOYBEANS",
	"coffee": "COFFEE", "cocoa": "COCOA", "sugar": "SUGAR",
	"lumber": "LUMBER", "cotton": "COTTON",
	"gasoline": "GASOLINE", "rbob": "GASOLINE",
	"uranium": "URANIUM", "lithium": "LITHIUM",

	// Economic indicators
	"cpi": "CPI", "consumer price index": "CPI", "inflation": "CPI", "core cpi": "CPI",
	"pce": "PCE", "core pce": "PCE",
	"ppi": "PPI", "producer price index": "PPI",
	"gdp": "GDP", "gross domestic product": "GDP",
	"nfp": "NFP", "nonfarm payrolls": "NFP", "non-farm payrolls": "NFP", "payrolls": "NFP", "jobs report": "NFP",
	"unemployment": "UNEMPLOYMENT", "unemployment rate": "UNEMPLOYMENT", "jobless rate": "UNEMPLOYMENT",
	"jobless claims": "JOBLESS_CLAIMS", "initial claims": "JOBLESS_CLAIMS",
	"retail sales": "RETAIL_SALES",
	"ism": "ISM", "ism manufacturing": "ISM", "pmi": "PMI",
	"consumer confidence": "CONSUMER_CONFIDENCE",
	"housing starts": "HOUSING_STARTS",
	"recession": "RECESSION",
	"debt ceiling": "DEBT_CEILING",
	"government shutdown": "GOVT_SHUTDOWN", "shutdown": "GOVT_SHUTDOWN",

	// Central banks
	"fed": "FED", "federal reserve": "FED", "fomc": "FED", "the fed": "FED",
	"ecb": "ECB", "european central bank": "ECB",
	"boe": "BOE", "bank of england": "BOE",
	"boj": "BOJ", "bank of japan": "BOJ",

	// Indices and finance instruments
	"s&p": "SP500", "s&p 500": "SP500", "sp500": "SP500", "spx": "SP500", "s and p 500": "SP500",
	"nasdaq": "NASDAQ", "nasdaq 100": "NASDAQ", "ndx": "NASDAQ",
	"dow": "DOW", "dow jones": "DOW", "djia": "DOW",
	"russell": "RUSSELL2000", "russell 2000": "RUSSELL2000",
	"vix": "VIX",
	"nikkei": "NIKKEI", "nikkei 225": "NIKKEI",
	"ftse": "FTSE", "ftse 100": "FTSE",
	"dax": "DAX",
	"10-year": "UST10Y", "10 year treasury": "UST10Y", "10y yield": "UST10Y", "10-year yield": "UST10Y",
	"dollar index": "DXY", "dxy": "DXY",
	"tesla": "TESLA", "tsla": "TESLA",
	"nvidia": "NVIDIA", "nvda": "NVIDIA",
	"apple": "APPLE", "aapl": "APPLE",
	"microsoft": "MICROSOFT", "msft": "MICROSOFT",
	"amazon": "AMAZON", "amzn": "AMAZON",
	"meta": "META", "facebook": "META",
	"google": "ALPHABET", "alphabet": "ALPHABET", "googl": "ALPHABET",
	"openai": "OPENAI", "microstrategy": "MICROSTRATEGY", "mstr": "MICROSTRATEGY",
	"coinbase": "COINBASE", "coin": "COINBASE",

	// Countries
	"us": "US", "usa": "US", "united states": "US", "u.s.": "US", "america": "US",
	"uk": "UK", "united kingdom": "UK", "britain": "UK", "great britain": "UK",
	"france": "FR", "germany": "DE", "italy": "IT", "spain": "ES",
	"canada": "CA", "mexico": "MX", "brazil": "BR", "argentina": "AR",
	"japan": "JP", "china": "CN", "india": "IN", "south korea": "KR",
	"russia": "RU", "ukraine": "UA", "israel": "IL", "iran": "IR",
	"taiwan": "TW", "australia": "AU", "poland": "PL", "netherlands": "NL",

	// Recurring events
	"super bowl": "SUPER_BOWL", "superbowl": "SUPER_BOWL",
	"world series": "WORLD_SERIES",
	"nba finals": "NBA_FINALS", "stanley cup": "STANLEY_CUP",
	"world cup": "WORLD_CUP", "champions league": "CHAMPIONS_LEAGUE", "ucl": "CHAMPIONS_LEAGUE",
	"olympics": "OLYMPICS",
	"oscars": "OSCARS", "academy awards": "OSCARS", "academy award": "OSCARS",
	"grammys": "GRAMMYS", "grammy": "GRAMMYS",
	"emmys": "EMMYS", "emmy": "EMMYS",
	"golden globes": "GOLDEN_GLOBES",
	"eurovision": "EUROVISION",
	"time person of the year": "TIME_POTY",
	"nobel": "NOBEL", "nobel prize": "NOBEL", "nobel peace prize": "NOBEL_PEACE",
	"hurricane": "HURRICANE", "el nino": "EL_NINO", "la nina": "LA_NINA",
	"ceasefire": "CEASEFIRE", "nato": "NATO", "brics": "BRICS", "opec": "OPEC",
	"tiktok": "TIKTOK", "tiktok ban": "TIKTOK_BAN",
	"government of israel": "IL", "strait of hormuz": "HORMUZ",
}
