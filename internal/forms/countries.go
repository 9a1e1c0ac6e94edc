package forms

import (
	"strings"

	"donatelife/pkg/types"
)

const DefaultCountryCode = "+92"

var CountryCodes = []types.CountryCode{
	{ISO: "PK", Dial: "+92", Name: "Pakistan"},
	{ISO: "IN", Dial: "+91", Name: "India"},
	{ISO: "BD", Dial: "+880", Name: "Bangladesh"},
	{ISO: "AE", Dial: "+971", Name: "United Arab Emirates"},
	{ISO: "SA", Dial: "+966", Name: "Saudi Arabia"},
	{ISO: "QA", Dial: "+974", Name: "Qatar"},
	{ISO: "TR", Dial: "+90", Name: "Turkey"},
	{ISO: "EG", Dial: "+20", Name: "Egypt"},
	{ISO: "NG", Dial: "+234", Name: "Nigeria"},
	{ISO: "ZA", Dial: "+27", Name: "South Africa"},
	{ISO: "GB", Dial: "+44", Name: "United Kingdom"},
	{ISO: "DE", Dial: "+49", Name: "Germany"},
	{ISO: "FR", Dial: "+33", Name: "France"},
	{ISO: "US", Dial: "+1", Name: "United States"},
	{ISO: "BR", Dial: "+55", Name: "Brazil"},
	{ISO: "AU", Dial: "+61", Name: "Australia"},
	{ISO: "CN", Dial: "+86", Name: "China"},
	{ISO: "JP", Dial: "+81", Name: "Japan"},
}

// Flag renders a two letter ISO code as its regional indicator emoji.
func Flag(iso string) string {
	iso = strings.ToUpper(iso)
	if len(iso) != 2 {
		return ""
	}

	var b strings.Builder
	for _, r := range iso {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}
