package sizing

// Size tables are static reference data, not computed. Each row is
// shared across all four system columns, so relative ordering is
// canonical by construction. Measurement ranges are in centimeters:
// chest circumference for clothing, foot length for shoes. Lower bound
// inclusive, upper bound exclusive.

var tables = map[Category]table{
	CategoryMensShirts: {
		measure: MeasureChestCM,
		rows: []Row{
			{Labels: labels("165/84", "XS", "44", "34"), MinCM: 82, MaxCM: 86},
			{Labels: labels("170/88", "S", "46", "36"), MinCM: 86, MaxCM: 90},
			{Labels: labels("175/92", "M", "48", "38"), MinCM: 90, MaxCM: 94},
			{Labels: labels("180/96", "L", "50", "40"), MinCM: 94, MaxCM: 98},
			{Labels: labels("185/100", "XL", "52", "42"), MinCM: 98, MaxCM: 102},
			{Labels: labels("190/104", "XXL", "54", "44"), MinCM: 102, MaxCM: 106},
			{Labels: labels("195/108", "3XL", "56", "46"), MinCM: 106, MaxCM: 110},
		},
	},
	CategoryWomensDresses: {
		measure: MeasureChestCM,
		rows: []Row{
			{Labels: labels("155/76", "0", "32", "4"), MinCM: 74, MaxCM: 78},
			{Labels: labels("160/80", "2", "34", "6"), MinCM: 78, MaxCM: 82},
			{Labels: labels("165/84", "4", "36", "8"), MinCM: 82, MaxCM: 86},
			{Labels: labels("170/88", "6", "38", "10"), MinCM: 86, MaxCM: 90},
			{Labels: labels("175/92", "8", "40", "12"), MinCM: 90, MaxCM: 94},
			{Labels: labels("180/96", "10", "42", "14"), MinCM: 94, MaxCM: 98},
			{Labels: labels("185/100", "12", "44", "16"), MinCM: 98, MaxCM: 102},
		},
	},
	CategoryMensShoes: {
		measure: MeasureFootLengthCM,
		rows: []Row{
			{Labels: labels("39", "6.5", "39", "6"), MinCM: 24.0, MaxCM: 24.5},
			{Labels: labels("40", "7", "40", "6.5"), MinCM: 24.5, MaxCM: 25.0},
			{Labels: labels("41", "8", "41", "7.5"), MinCM: 25.0, MaxCM: 25.5},
			{Labels: labels("42", "8.5", "42", "8"), MinCM: 25.5, MaxCM: 26.0},
			{Labels: labels("43", "9.5", "43", "9"), MinCM: 26.0, MaxCM: 26.5},
			{Labels: labels("44", "10", "44", "9.5"), MinCM: 26.5, MaxCM: 27.0},
			{Labels: labels("45", "11", "45", "10.5"), MinCM: 27.0, MaxCM: 27.5},
			{Labels: labels("46", "12", "46", "11"), MinCM: 27.5, MaxCM: 28.0},
		},
	},
	CategoryWomensShoes: {
		measure: MeasureFootLengthCM,
		rows: []Row{
			{Labels: labels("35", "5", "35", "2.5"), MinCM: 22.0, MaxCM: 22.5},
			{Labels: labels("36", "5.5", "36", "3.5"), MinCM: 22.5, MaxCM: 23.0},
			{Labels: labels("37", "6.5", "37", "4"), MinCM: 23.0, MaxCM: 23.5},
			{Labels: labels("38", "7.5", "38", "5"), MinCM: 23.5, MaxCM: 24.0},
			{Labels: labels("39", "8", "39", "6"), MinCM: 24.0, MaxCM: 24.5},
			{Labels: labels("40", "9", "40", "6.5"), MinCM: 24.5, MaxCM: 25.0},
			{Labels: labels("41", "9.5", "41", "7"), MinCM: 25.0, MaxCM: 25.5},
		},
	},
}

func labels(cn, us, eu, uk string) map[System]string {
	return map[System]string{
		SystemCN: cn,
		SystemUS: us,
		SystemEU: eu,
		SystemUK: uk,
	}
}

// gramsPerUnit pivots all weight conversions through grams.
var gramsPerUnit = map[WeightUnit]float64{
	UnitGram:     1,
	UnitKilogram: 1000,
	UnitOunce:    28.349523125,
	UnitPound:    453.59237,
}
