package assess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leozw/domain-intel/internal/core"
)

func TestClassifyRegistrar(t *testing.T) {
	tests := []struct {
		name string
		rec  *core.WhoisRecord
		want core.RegistrarProfile
	}{
		{
			name: "godaddy",
			rec:  &core.WhoisRecord{Registrar: "GoDaddy.com, LLC", RegistrantCountry: "US"},
			want: core.RegistrarProfile{Name: "GoDaddy.com, LLC", Category: "Major US Commercial", IsUSBased: true, Country: "US"},
		},
		{
			name: "namecheap falls back to admin country",
			rec:  &core.WhoisRecord{Registrar: "NameCheap, Inc.", AdminCountry: "IS"},
			want: core.RegistrarProfile{Name: "NameCheap, Inc.", Category: "Discount US Provider", IsUSBased: true, Country: "IS"},
		},
		{
			name: "network solutions",
			rec:  &core.WhoisRecord{Registrar: "Network Solutions, LLC"},
			want: core.RegistrarProfile{Name: "Network Solutions, LLC", Category: "Legacy US Provider", IsUSBased: true, Country: core.Unknown},
		},
		{
			name: "tucows",
			rec:  &core.WhoisRecord{Registrar: "Tucows Domains Inc."},
			want: core.RegistrarProfile{Name: "Tucows Domains Inc.", Category: "US Wholesale/Reseller", IsUSBased: true, Country: core.Unknown},
		},
		{
			name: "unlisted",
			rec:  &core.WhoisRecord{Registrar: "Gandi SAS", RegistrantCountry: "FR"},
			want: core.RegistrarProfile{Name: "Gandi SAS", Category: CategoryOther, IsUSBased: false, Country: "FR"},
		},
		{
			name: "missing registrar",
			rec:  &core.WhoisRecord{},
			want: core.RegistrarProfile{Name: core.Unknown, Category: CategoryOther, Country: core.Unknown},
		},
		{
			name: "nil record",
			rec:  nil,
			want: core.RegistrarProfile{Name: core.Unknown, Category: CategoryOther, Country: core.Unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRegistrar(tt.rec))
		})
	}
}
