package core

// DnsRecordSet holds the six record types collected for a domain. Each field is fetched
// independently; a failed lookup leaves its empty default in place.
type DnsRecordSet struct {
	A         []string   `json:"A"`
	AAAA      []string   `json:"AAAA"`
	MX        []MXRecord `json:"MX"`
	NS        []string   `json:"NS"`
	TXT       []string   `json:"TXT"`
	SOA       *SOARecord `json:"SOA"`
	QueryTime int64      `json:"queryTime"`
}

func NewDnsRecordSet() *DnsRecordSet {
	return &DnsRecordSet{
		A:    []string{},
		AAAA: []string{},
		MX:   []MXRecord{},
		NS:   []string{},
		TXT:  []string{},
	}
}

type MXRecord struct {
	Priority int    `json:"priority"`
	Exchange string `json:"exchange"`
}

type SOARecord struct {
	PrimaryNS  string `json:"nsname"`
	Hostmaster string `json:"hostmaster"`
	Serial     uint32 `json:"serial"`
	Refresh    uint32 `json:"refresh"`
	Retry      uint32 `json:"retry"`
	Expire     uint32 `json:"expire"`
	Minimum    uint32 `json:"minttl"`
}
