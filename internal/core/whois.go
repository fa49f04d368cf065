package core

// WhoisRecord is the canonical registration record. Empty strings mean the upstream source
// did not supply the field; read them through OrUnknown.
type WhoisRecord struct {
	Domain                 string   `json:"domain"`
	Registrar              string   `json:"registrar,omitempty"`
	CreationDate           string   `json:"creationDate,omitempty"`
	ExpirationDate         string   `json:"expirationDate,omitempty"`
	UpdatedDate            string   `json:"updatedDate,omitempty"`
	Status                 []string `json:"status,omitempty"`
	RegistrantName         string   `json:"registrantName,omitempty"`
	RegistrantOrganization string   `json:"registrantOrganization,omitempty"`
	RegistrantEmail        string   `json:"registrantEmail,omitempty"`
	RegistrantCountry      string   `json:"registrantCountry,omitempty"`
	AdminEmail             string   `json:"adminEmail,omitempty"`
	AdminCountry           string   `json:"adminCountry,omitempty"`
	TechEmail              string   `json:"techEmail,omitempty"`
	NameServers            []string `json:"nameServers"`
	Emails                 []string `json:"emails"`
	RawData                string   `json:"rawData,omitempty"`
	Source                 string   `json:"source,omitempty"`
}

// AddEmails merges addresses into the record keeping the set unique and in first-seen order.
func (w *WhoisRecord) AddEmails(emails ...string) {
	seen := make(map[string]struct{}, len(w.Emails))
	for _, e := range w.Emails {
		seen[e] = struct{}{}
	}
	for _, e := range emails {
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		w.Emails = append(w.Emails, e)
	}
}
