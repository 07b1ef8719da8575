package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// provinceCodes maps canonical Spanish province names to the short codes
// the backend's address schema expects. Keys are stored pre-normalized
// (lowercase, no diacritics) so lookups are case- and accent-insensitive.
var provinceCodes = map[string]string{
	"a coruna":               "C",
	"alava":                  "VI",
	"albacete":               "AB",
	"alicante":               "A",
	"almeria":                "AL",
	"asturias":               "O",
	"avila":                  "AV",
	"badajoz":                "BA",
	"baleares":               "PM",
	"barcelona":              "B",
	"burgos":                 "BU",
	"caceres":                "CC",
	"cadiz":                  "CA",
	"cantabria":              "S",
	"castellon":              "CS",
	"ciudad real":            "CR",
	"cordoba":                "CO",
	"cuenca":                 "CU",
	"girona":                 "GI",
	"granada":                "GR",
	"guadalajara":            "GU",
	"guipuzcoa":              "SS",
	"huelva":                 "H",
	"huesca":                 "HU",
	"jaen":                   "J",
	"la rioja":               "LO",
	"las palmas":             "GC",
	"leon":                   "LE",
	"lleida":                 "L",
	"lugo":                   "LU",
	"madrid":                 "M",
	"malaga":                 "MA",
	"murcia":                 "MU",
	"navarra":                "NA",
	"ourense":                "OR",
	"palencia":               "P",
	"pontevedra":             "PO",
	"salamanca":              "SA",
	"santa cruz de tenerife": "TF",
	"segovia":                "SG",
	"sevilla":                "SE",
	"soria":                  "SO",
	"tarragona":              "T",
	"teruel":                 "TE",
	"toledo":                 "TO",
	"valencia":               "V",
	"valladolid":             "VA",
	"vizcaya":                "BI",
	"zamora":                 "ZA",
	"zaragoza":               "Z",
}

// normalizeProvinceName lowercases the input and strips diacritics, so
// "Málaga", "MALAGA" and "malaga" all normalize to the same key.
func normalizeProvinceName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		// Normalization failure leaves the raw input, which simply
		// means no table entry will match.
		stripped = name
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// GetProvinceCode resolves a free-text province or city name to its short
// code. An unmatched name is returned unchanged rather than rejected; the
// backend decides whether it can make sense of it.
func GetProvinceCode(name string) string {
	if code, ok := provinceCodes[normalizeProvinceName(name)]; ok {
		return code
	}
	return name
}
