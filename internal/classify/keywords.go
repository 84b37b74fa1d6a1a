package classify

import "github.com/agrostack/agridocs/internal/core/domain"

// termTable is the per-category vocabulary used by the keyword strategy and
// as training seed for the bayes strategy. Keywords score a full point per
// distinct hit; synonyms score half. Table sizes feed the confidence
// denominator, so keep lists tight rather than exhaustive.
type termTable struct {
	Keywords []string
	Synonyms []string
}

var englishTerms = map[domain.Category]termTable{
	domain.CategoryPlanting: {
		Keywords: []string{
			"crop", "maize", "millet", "sorghum", "rice", "cassava",
			"yield", "harvest", "sowing", "irrigation", "orchard", "hectare",
		},
		Synonyms: []string{"corn", "paddy", "cultivation", "agronomy", "planting"},
	},
	domain.CategoryLivestock: {
		Keywords: []string{
			"livestock", "cattle", "poultry", "dairy", "goat", "sheep",
			"swine", "fodder", "pasture", "veterinary", "herd", "vaccination",
		},
		Synonyms: []string{"cow", "chicken", "piggery", "grazing", "animal husbandry"},
	},
	domain.CategoryInputsSoil: {
		Keywords: []string{
			"fertilizer", "soil", "compost", "nitrogen", "phosphorus", "potassium",
			"pesticide", "herbicide", "manure", "loam", "acidity", "mulch",
		},
		Synonyms: []string{"npk", "agrochemical", "urea", "topsoil", "soil amendment"},
	},
	domain.CategoryAgriFinance: {
		Keywords: []string{
			"loan", "credit", "insurance", "subsidy", "invoice", "mortgage",
			"grant", "payment", "budget", "premium", "repayment", "collateral",
		},
		Synonyms: []string{"microfinance", "financing", "payout", "installment", "lender"},
	},
	domain.CategorySupplyChainStorage: {
		Keywords: []string{
			"warehouse", "storage", "logistics", "silo", "cold chain", "packaging",
			"distribution", "inventory", "shipment", "export", "traceability", "freight",
		},
		Synonyms: []string{"haulage", "granary", "supply chain", "shelf life", "consignment"},
	},
	domain.CategoryClimateRemoteSensing: {
		Keywords: []string{
			"rainfall", "drought", "climate", "satellite", "weather", "temperature",
			"forecast", "ndvi", "humidity", "flood", "monsoon", "remote sensing",
		},
		Synonyms: []string{"precipitation", "imagery", "frost", "heatwave", "el nino"},
	},
	domain.CategoryAgriIoT: {
		Keywords: []string{
			"sensor", "telemetry", "drone", "gps", "automation", "gateway",
			"firmware", "actuator", "mqtt", "lora", "smart farm", "soil probe",
		},
		Synonyms: []string{"uav", "iot", "microcontroller", "rtk", "edge device"},
	},
}

// Vocabulary returns every English keyword and synonym across all
// categories. Other packages use it as the "important terms" lexicon.
func Vocabulary() []string {
	var terms []string
	for _, category := range domain.Categories {
		table := englishTerms[category]
		terms = append(terms, table.Keywords...)
		terms = append(terms, table.Synonyms...)
	}
	return terms
}

// chineseTerms carries the original Chinese vocabulary, merged in only when
// the extended language pack is enabled. These extend the match surface but
// do not change the confidence denominator.
var chineseTerms = map[domain.Category]termTable{
	domain.CategoryPlanting: {
		Keywords: []string{"种植", "玉米", "水稻", "产量", "收获", "灌溉"},
	},
	domain.CategoryLivestock: {
		Keywords: []string{"畜牧", "养殖", "饲料", "奶牛", "家禽", "防疫"},
	},
	domain.CategoryInputsSoil: {
		Keywords: []string{"肥料", "土壤", "农药", "氮肥", "有机肥"},
	},
	domain.CategoryAgriFinance: {
		Keywords: []string{"贷款", "保险", "补贴", "农业金融", "信贷"},
	},
	domain.CategorySupplyChainStorage: {
		Keywords: []string{"仓储", "物流", "冷链", "运输", "库存"},
	},
	domain.CategoryClimateRemoteSensing: {
		Keywords: []string{"降雨", "干旱", "气候", "卫星", "遥感", "气象"},
	},
	domain.CategoryAgriIoT: {
		Keywords: []string{"传感器", "物联网", "无人机", "智慧农业", "自动化"},
	},
}
