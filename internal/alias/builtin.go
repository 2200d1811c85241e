package alias

// builtinCommodities maps informal or localized commodity words to the
// provider spellings to try, in order. A local word often has several
// provider spellings ("soja" -> the oilseed and the generic name).
//
//nolint:gochecknoglobals // Static lookup table
var builtinCommodities = map[string][]string{
	// Soy
	"soja":           {"oilseed, soybean", "soybeans", "soybean"},
	"soy":            {"oilseed, soybean", "soybeans", "soybean"},
	"soya":           {"oilseed, soybean", "soybeans", "soybean"},
	"soybean":        {"oilseed, soybean", "soybeans", "soybean"},
	"soybeans":       {"oilseed, soybean", "soybeans", "soybean"},
	"soja em grao":   {"oilseed, soybean", "soybeans"},
	"farelo de soja": {"meal, soybean"},
	"harina de soja": {"meal, soybean"},
	"soybean meal":   {"meal, soybean"},
	"oleo de soja":   {"oil, soybean"},
	"aceite de soja": {"oil, soybean"},
	"soybean oil":    {"oil, soybean"},

	// Grains
	"milho":   {"corn"},
	"maiz":    {"corn"},
	"maize":   {"corn"},
	"trigo":   {"wheat"},
	"arroz":   {"rice, milled", "rice"},
	"rice":    {"rice, milled", "rice"},
	"cevada":  {"barley"},
	"cebada":  {"barley"},
	"sorgo":   {"sorghum"},
	"aveia":   {"oats"},
	"avena":   {"oats"},
	"centeio": {"rye"},
	"centeno": {"rye"},

	// Softs and others
	"acucar":          {"sugar, centrifugal", "sugar"},
	"azucar":          {"sugar, centrifugal", "sugar"},
	"sugar":           {"sugar, centrifugal", "sugar"},
	"cafe":            {"coffee, green", "coffee"},
	"coffee":          {"coffee, green", "coffee"},
	"algodao":         {"cotton"},
	"algodon":         {"cotton"},
	"cacau":           {"cocoa"},
	"girassol":        {"oilseed, sunflowerseed", "sunflowerseed"},
	"girasol":         {"oilseed, sunflowerseed", "sunflowerseed"},
	"canola":          {"oilseed, rapeseed", "rapeseed"},
	"colza":           {"oilseed, rapeseed", "rapeseed"},
	"amendoim":        {"oilseed, peanut", "peanut"},
	"mani":            {"oilseed, peanut", "peanut"},
	"oleo de palma":   {"oil, palm"},
	"aceite de palma": {"oil, palm"},
	"palm oil":        {"oil, palm"},

	// Livestock
	"carne bovina": {"meat, beef and veal"},
	"boi":          {"meat, beef and veal"},
	"beef":         {"meat, beef and veal"},
	"carne suina":  {"meat, swine"},
	"porco":        {"meat, swine"},
	"pork":         {"meat, swine"},
	"frango":       {"meat, chicken"},
	"pollo":        {"meat, chicken"},
	"chicken":      {"meat, chicken"},
}

// builtinCountries maps informal or localized country names to the
// provider's English name.
//
//nolint:gochecknoglobals // Static lookup table
var builtinCountries = map[string]string{
	"mundo":           "world",
	"global":          "world",
	"mundial":         "world",
	"brasil":          "brazil",
	"estados unidos":  "united states",
	"eua":             "united states",
	"eeuu":            "united states",
	"usa":             "united states",
	"us":              "united states",
	"china":           "china",
	"india":           "india",
	"argentina":       "argentina",
	"paraguai":        "paraguay",
	"uruguai":         "uruguay",
	"bolivia":         "bolivia",
	"mexico":          "mexico",
	"canada":          "canada",
	"russia":          "russia",
	"rusia":           "russia",
	"ucrania":         "ukraine",
	"alemanha":        "germany",
	"alemania":        "germany",
	"franca":          "france",
	"francia":         "france",
	"espanha":         "spain",
	"espana":          "spain",
	"italia":          "italy",
	"reino unido":     "united kingdom",
	"uk":              "united kingdom",
	"japao":           "japan",
	"japon":           "japan",
	"coreia do sul":   "korea, south",
	"corea del sur":   "korea, south",
	"south korea":     "korea, south",
	"indonesia":       "indonesia",
	"tailandia":       "thailand",
	"vietna":          "vietnam",
	"egito":           "egypt",
	"egipto":          "egypt",
	"africa do sul":   "south africa",
	"sudafrica":       "south africa",
	"australia":       "australia",
	"uniao europeia":  "european union",
	"union europea":   "european union",
	"ue":              "european union",
	"eu":              "european union",
	"turquia":         "turkey",
	"ira":             "iran",
	"iran":            "iran",
	"arabia saudita":  "saudi arabia",
	"paquistao":       "pakistan",
	"bangladesh":      "bangladesh",
	"nigeria":         "nigeria",
	"costa do marfim": "cote d'ivoire",
}

// builtinMetrics maps informal balance-sheet words to provider attribute
// labels.
//
//nolint:gochecknoglobals // Static lookup table
var builtinMetrics = map[string]string{
	"producao":          "Production",
	"produccion":        "Production",
	"production":        "Production",
	"prod":              "Production",
	"consumo":           "Domestic Consumption",
	"consumo domestico": "Domestic Consumption",
	"consumption":       "Domestic Consumption",
	"importacao":        "MY Imports",
	"importacoes":       "MY Imports",
	"importaciones":     "MY Imports",
	"imports":           "MY Imports",
	"exportacao":        "MY Exports",
	"exportacoes":       "MY Exports",
	"exportaciones":     "MY Exports",
	"exports":           "MY Exports",
	"estoque inicial":   "Beginning Stocks",
	"stock inicial":     "Beginning Stocks",
	"beginning stocks":  "Beginning Stocks",
	"estoque final":     "Ending Stocks",
	"estoques finais":   "Ending Stocks",
	"stock final":       "Ending Stocks",
	"estoques":          "Ending Stocks",
	"stocks":            "Ending Stocks",
	"ending stocks":     "Ending Stocks",
	"oferta total":      "Total Supply",
	"suprimento total":  "Total Supply",
	"total supply":      "Total Supply",
	"area colhida":      "Area Harvested",
	"area":              "Area Harvested",
	"produtividade":     "Yield",
	"rendimento":        "Yield",
	"esmagamento":       "Crush",
}

// builtinTags recognizes queries that have a dedicated scoring strategy.
//
//nolint:gochecknoglobals // Static lookup table
var builtinTags = map[string]Tag{
	"soy":              TagSoy,
	"soja":             TagSoy,
	"soya":             TagSoy,
	"soybean":          TagSoy,
	"soybeans":         TagSoy,
	"soja em grao":     TagSoy,
	"oilseed, soybean": TagSoy,
}
