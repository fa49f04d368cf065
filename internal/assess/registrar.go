package assess

import (
	"strings"

	"github.com/leozw/domain-intel/internal/core"
)

const CategoryOther = "Other"

type RegistrarClass struct {
	Fragment  string
	Category  string
	IsUSBased bool
}

// RegistrarTable is matched in order against the lowercased registrar name.
var RegistrarTable = []RegistrarClass{
	{Fragment: "godaddy", Category: "Major US Commercial", IsUSBased: true},
	{Fragment: "namecheap", Category: "Discount US Provider", IsUSBased: true},
	{Fragment: "network solutions", Category: "Legacy US Provider", IsUSBased: true},
	{Fragment: "verisign", Category: "Legacy US Provider", IsUSBased: true},
	{Fragment: "enom", Category: "US Wholesale/Reseller", IsUSBased: true},
	{Fragment: "tucows", Category: "US Wholesale/Reseller", IsUSBased: true},
}

func ClassifyRegistrar(rec *core.WhoisRecord) core.RegistrarProfile {
	if rec == nil {
		rec = &core.WhoisRecord{}
	}

	profile := core.RegistrarProfile{
		Name:     core.OrUnknown(rec.Registrar),
		Category: CategoryOther,
		Country:  core.Unknown,
	}

	switch {
	case rec.RegistrantCountry != "":
		profile.Country = rec.RegistrantCountry
	case rec.AdminCountry != "":
		profile.Country = rec.AdminCountry
	}

	name := strings.ToLower(rec.Registrar)
	if name == "" {
		return profile
	}
	for _, class := range RegistrarTable {
		if strings.Contains(name, class.Fragment) {
			profile.Category = class.Category
			profile.IsUSBased = class.IsUSBased
			break
		}
	}

	return profile
}
