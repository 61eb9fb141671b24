// Package locale resolves display labels for the machine-stable enum
// values the calculators emit. Calculators never carry translated
// strings; label lookup is a pure function of (locale, key) applied at
// the response edge.
package locale

type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// Normalize maps a requested locale onto a supported one, defaulting to
// English.
func Normalize(raw string) Locale {
	if Locale(raw) == Arabic {
		return Arabic
	}
	return English
}

// Label returns the display string for an enum key. Unknown keys fall
// back to the key itself so a missing translation shows up in the UI
// instead of hiding.
func Label(loc Locale, key string) string {
	if entry, ok := catalog[key]; ok {
		if s, ok := entry[Normalize(string(loc))]; ok && s != "" {
			return s
		}
		if s := entry[English]; s != "" {
			return s
		}
	}
	return key
}

var catalog = map[string]map[Locale]string{
	// urgency levels
	"urgency.normal":   {English: "Normal", Arabic: "طبيعي"},
	"urgency.warning":  {English: "Warning", Arabic: "تحذير"},
	"urgency.critical": {English: "Critical", Arabic: "حرج"},

	// discount viability
	"viability.ok":      {English: "No impact", Arabic: "لا تأثير"},
	"viability.caution": {English: "Caution", Arabic: "انتباه"},
	"viability.warning": {English: "Not viable", Arabic: "غير مجدٍ"},

	"warning.margin_reduced":  {English: "The discount reduces your margin. Check the break-even volume before committing.", Arabic: "الخصم يقلل هامش الربح. راجع حجم نقطة التعادل قبل الالتزام."},
	"warning.margin_negative": {English: "The discount drives your margin negative. No sales volume recovers the lost profit.", Arabic: "الخصم يجعل هامش الربح سالباً. لا يوجد حجم مبيعات يعوض الخسارة."},

	// size recommendation confidence
	"confidence.exact":       {English: "Exact match", Arabic: "تطابق تام"},
	"confidence.approximate": {English: "Closest size", Arabic: "أقرب مقاس"},

	// size categories
	"category.mens_shirts":    {English: "Men's shirts", Arabic: "قمصان رجالية"},
	"category.womens_dresses": {English: "Women's dresses", Arabic: "فساتين نسائية"},
	"category.mens_shoes":     {English: "Men's shoes", Arabic: "أحذية رجالية"},
	"category.womens_shoes":   {English: "Women's shoes", Arabic: "أحذية نسائية"},

	// shipping tiers
	"tier.extra_small": {English: "Extra small parcel", Arabic: "طرد صغير جداً"},
	"tier.small":       {English: "Small parcel", Arabic: "طرد صغير"},
	"tier.medium":      {English: "Medium parcel", Arabic: "طرد متوسط"},
	"tier.large":       {English: "Large parcel", Arabic: "طرد كبير"},
	"tier.freight":     {English: "Freight", Arabic: "شحن ثقيل"},

	// storage size tiers
	"size_tier.standard": {English: "Standard size", Arabic: "حجم قياسي"},
	"size_tier.oversize": {English: "Oversize", Arabic: "حجم كبير"},

	// tools
	"tool.vat_calculator":     {English: "VAT Calculator", Arabic: "حاسبة ضريبة القيمة المضافة"},
	"tool.import_duty":        {English: "Import Duty Estimator", Arabic: "حاسبة الرسوم الجمركية"},
	"tool.storage_fee":        {English: "Storage Fee Calculator", Arabic: "حاسبة رسوم التخزين"},
	"tool.discount_simulator": {English: "Discount Impact Simulator", Arabic: "محاكي أثر الخصم"},
	"tool.reorder_point":      {English: "Reorder Point Calculator", Arabic: "حاسبة نقطة إعادة الطلب"},
	"tool.size_converter":     {English: "Size Converter", Arabic: "محول المقاسات"},
	"tool.shipping_weight":    {English: "Shipping Weight Tiers", Arabic: "فئات وزن الشحن"},
}
