package localization

import "autoparts/content/internal/jsonvalue"

// Static English content shipped with the binary. Product and article
// entries are keyed by the normalized Turkish title, so renaming a product
// in the admin panel detaches it from its entry here; a stored override
// still takes precedence in that case.

func str(s string) *string { return &s }

var staticProductOverrides = map[string]ProductOverride{
	NormalizeLookupKey("Hava Fren Kompresörleri"): {
		Title:    str("Air Brake Compressors"),
		Category: str("COMPRESSORS"),
	},
	NormalizeLookupKey("Air Processing Unit", "E-APU"): {
		Title:       str("Air Processing Unit"),
		Description: str("Electronically controlled air processing unit combining air drying, pressure regulation and multi-circuit protection."),
		Category:    str("AIR DRYERS"),
	},
	NormalizeLookupKey("Tek Silindirli Kompresör", "636 cc"): {
		Title:       str("Single Cylinder Compressor"),
		Description: str("Water cooled single cylinder compressor for medium duty trucks and buses."),
		Features: []string{
			"Water cooled cylinder head",
			"Reinforced piston rings",
			"Low oil carry-over",
		},
	},
	NormalizeLookupKey("Çift Silindirli Kompresör", "720 cc"): {
		Title:       str("Twin Cylinder Compressor"),
		Description: str("Twin cylinder compressor for heavy duty commercial vehicles."),
	},
	NormalizeLookupKey("Boşaltma Valfi"): {
		Title:       str("Unloader Valve"),
		Subcategory: str("Unloader Valves"),
	},
	NormalizeLookupKey("Kurutucu Kartuşu"): {
		Title:        str("Air Dryer Cartridge"),
		Applications: []string{"Trucks", "Buses", "Trailers"},
	},
	NormalizeLookupKey("Kompresör Tamir Takımı"): {
		Title: str("Compressor Repair Kit"),
	},
}

var staticArticleOverrides = map[string]ArticleOverride{
	NormalizeLookupKey("Automechanika İstanbul Fuarındaydık"): {
		Title:   str("We Were at Automechanika Istanbul"),
		Excerpt: str("Our new compressor range met visitors at Automechanika Istanbul."),
	},
	NormalizeLookupKey("Yeni Üretim Tesisimiz Açıldı"): {
		Title:    str("Our New Production Facility Is Open"),
		Excerpt:  str("Production capacity doubled with our new facility."),
		Category: str("Company News"),
	},
	NormalizeLookupKey("IATF 16949 Belgemizi Yeniledik"): {
		Title:    str("IATF 16949 Certificate Renewed"),
		Category: str("Quality"),
	},
}

var staticPageContentOverrides = map[string]PageContentOverride{
	"home.hero": {
		Title:   str("Compressed Air Solutions for Commercial Vehicles"),
		Content: str("Air brake compressors, valves and spare parts manufactured to OEM standards."),
		Metadata: jsonvalue.Object{
			"primaryCta":   jsonvalue.Object{"label": jsonvalue.String("Explore Products")},
			"secondaryCta": jsonvalue.Object{"label": jsonvalue.String("Contact Us")},
		},
	},
	"home.stats": {
		Title: str("Our Numbers"),
		Metadata: jsonvalue.Object{
			"items": jsonvalue.Array{
				jsonvalue.Object{"label": jsonvalue.String("Years of Experience"), "value": jsonvalue.String("35+")},
				jsonvalue.Object{"label": jsonvalue.String("Export Countries"), "value": jsonvalue.String("40+")},
				jsonvalue.Object{"label": jsonvalue.String("Product Codes"), "value": jsonvalue.String("1200+")},
			},
		},
	},
	"about.story": {
		Title: str("Our Story"),
	},
	"contact.info": {
		Title: str("Contact"),
		Metadata: jsonvalue.Object{
			"hoursLabel": jsonvalue.String("Working Hours"),
		},
	},
}

// staticLabelTranslations covers category and subcategory labels that have
// no taxonomy entry.
var staticLabelTranslations = map[string]string{
	NormalizeLookupKey("KOMPRESÖRLER"):              "COMPRESSORS",
	NormalizeLookupKey("VALFLER"):                   "VALVES",
	NormalizeLookupKey("HAVA KURUTUCULAR"):          "AIR DRYERS",
	NormalizeLookupKey("YEDEK PARÇALAR"):            "SPARE PARTS",
	NormalizeLookupKey("Hava Fren Kompresörleri"):   "Air Brake Compressors",
	NormalizeLookupKey("Kompresör Tamir Takımları"): "Compressor Repair Kits",
	NormalizeLookupKey("Fren Valfleri"):             "Brake Valves",
	NormalizeLookupKey("Boşaltma Valfleri"):         "Unloader Valves",
	NormalizeLookupKey("Kurutucu Kartuşları"):       "Dryer Cartridges",
	NormalizeLookupKey("Contalar"):                  "Gaskets",
	NormalizeLookupKey("Haberler"):                  "News",
	NormalizeLookupKey("Fuarlar"):                   "Trade Fairs",
}

// StaticProductOverride looks up built-in English text for a product by its
// base-language title and subtitle.
func StaticProductOverride(title, subtitle string) (ProductOverride, bool) {
	override, ok := staticProductOverrides[NormalizeLookupKey(title, subtitle)]
	return override, ok
}

func StaticArticleOverride(title string) (ArticleOverride, bool) {
	override, ok := staticArticleOverrides[NormalizeLookupKey(title)]
	return override, ok
}

func StaticPageContentOverride(section string) (PageContentOverride, bool) {
	override, ok := staticPageContentOverrides[section]
	return override, ok
}

// TranslateLabel returns the built-in English label for a category or
// subcategory, or the label itself when none is known.
func TranslateLabel(label string) string {
	if translated, ok := staticLabelTranslations[NormalizeLookupKey(label)]; ok {
		return translated
	}
	return label
}
