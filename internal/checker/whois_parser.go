package checker

import (
	"fmt"
	"regexp"
	"strings"

	whoisparser "github.com/likexian/whois-parser"
	"github.com/tidwall/gjson"

	"github.com/leozw/domain-intel/internal/core"
)

var (
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	nameServerPattern = regexp.MustCompile(`(?i)name server:\s*([^\s]+)`)
)

// ExtractEmails returns every email-like substring of text, deduplicated in first-seen order.
func ExtractEmails(text string) []string {
	matches := emailPattern.FindAllString(text, -1)
	return dedupe(matches)
}

// ParseWhoisJSON maps a structured WHOIS API payload onto the canonical record. Field name
// variants are tried in order; absent fields stay unset. An error is returned only when the
// payload is not a JSON object or is an error envelope.
func ParseWhoisJSON(domain string, body []byte) (*core.WhoisRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode whois payload: invalid json")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("decode whois payload: expected object, got %s", doc.Type)
	}
	if e := doc.Get("error"); truthy(e) {
		return nil, fmt.Errorf("%w: %s", errErrorEnvelope, e.String())
	}

	rec := &core.WhoisRecord{
		Domain:                 firstString(doc, "domain", "domain_name", "name"),
		Registrar:              firstString(doc, "registrar.name", "registrar", "registrar_name"),
		CreationDate:           firstString(doc, "creation_date", "created", "created_date"),
		ExpirationDate:         firstString(doc, "expiration_date", "expires", "expiry_date"),
		UpdatedDate:            firstString(doc, "updated_date", "updated", "changed"),
		Status:                 stringList(doc, "status"),
		RegistrantName:         firstString(doc, "registrant_name", "registrant.name", "contacts.owner.0.name"),
		RegistrantOrganization: firstString(doc, "registrant_organization", "registrant.organization", "contacts.owner.0.organization"),
		RegistrantEmail:        firstString(doc, "registrant_email", "registrant.email", "contacts.owner.0.email"),
		RegistrantCountry:      firstString(doc, "registrant_country", "registrant.country", "contacts.owner.0.country"),
		AdminEmail:             firstString(doc, "admin_email", "admin.email", "contacts.admin.0.email"),
		AdminCountry:           firstString(doc, "admin_country", "admin.country", "contacts.admin.0.country"),
		TechEmail:              firstString(doc, "tech_email", "tech.email", "contacts.tech.0.email"),
		NameServers:            lowerHosts(stringList(doc, "name_servers", "nameservers", "nameserver")),
		Emails:                 ExtractEmails(string(body)),
		RawData:                string(body),
	}
	if rec.Domain == "" {
		rec.Domain = domain
	}
	return rec, nil
}

// ParseWhoisText parses free-text WHOIS protocol output. Each line populates at most one
// field (the first label that matches) and each field keeps its first non-empty value.
// Fields the label pass leaves unset are then filled from whois-parser when it understands
// the registry format. It never fails.
func ParseWhoisText(domain, raw string) *core.WhoisRecord {
	rec := &core.WhoisRecord{
		Domain:  domain,
		RawData: raw,
	}

	for _, line := range strings.Split(raw, "\n") {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "registrar:"):
			setOnce(&rec.Registrar, valueAfterColon(line))
		case strings.Contains(lower, "creation date:"), strings.Contains(lower, "created:"):
			setOnce(&rec.CreationDate, valueAfterColon(line))
		case strings.Contains(lower, "expir") && strings.Contains(line, ":"):
			setOnce(&rec.ExpirationDate, valueAfterColon(line))
		case strings.Contains(lower, "registrant country:"):
			setOnce(&rec.RegistrantCountry, valueAfterColon(line))
		}
	}

	var servers []string
	for _, m := range nameServerPattern.FindAllStringSubmatch(raw, -1) {
		servers = append(servers, m[1])
	}
	rec.NameServers = lowerHosts(servers)
	rec.Emails = ExtractEmails(raw)

	enrichFromParser(rec, raw)

	if rec.NameServers == nil {
		rec.NameServers = []string{}
	}
	if rec.Emails == nil {
		rec.Emails = []string{}
	}
	return rec
}

func enrichFromParser(rec *core.WhoisRecord, raw string) {
	info, err := whoisparser.Parse(raw)
	if err != nil {
		return
	}

	if d := info.Domain; d != nil {
		setOnce(&rec.UpdatedDate, d.UpdatedDate)
		setOnce(&rec.CreationDate, d.CreatedDate)
		setOnce(&rec.ExpirationDate, d.ExpirationDate)
		if len(rec.Status) == 0 {
			rec.Status = d.Status
		}
		if len(rec.NameServers) == 0 {
			rec.NameServers = lowerHosts(d.NameServers)
		}
	}
	if r := info.Registrar; r != nil {
		setOnce(&rec.Registrar, r.Name)
	}
	if c := info.Registrant; c != nil {
		setOnce(&rec.RegistrantName, c.Name)
		setOnce(&rec.RegistrantOrganization, c.Organization)
		setOnce(&rec.RegistrantEmail, c.Email)
		setOnce(&rec.RegistrantCountry, c.Country)
	}
	if c := info.Administrative; c != nil {
		setOnce(&rec.AdminEmail, c.Email)
		setOnce(&rec.AdminCountry, c.Country)
	}
	if c := info.Technical; c != nil {
		setOnce(&rec.TechEmail, c.Email)
	}
}

func valueAfterColon(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}

func setOnce(field *string, value string) {
	if *field == "" {
		*field = strings.TrimSpace(value)
	}
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, p := range paths {
		r := doc.Get(p)
		if r.Type != gjson.String && r.Type != gjson.Number {
			continue
		}
		if s := strings.TrimSpace(r.String()); s != "" {
			return s
		}
	}
	return ""
}

func stringList(doc gjson.Result, paths ...string) []string {
	for _, p := range paths {
		r := doc.Get(p)
		switch {
		case r.IsArray():
			var out []string
			for _, item := range r.Array() {
				if s := strings.TrimSpace(item.String()); s != "" && !item.IsObject() {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case r.Type == gjson.String:
			if out := strings.FieldsFunc(r.String(), func(c rune) bool {
				return c == ',' || c == ' ' || c == '\n' || c == '\t'
			}); len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.String:
		return r.String() != ""
	case gjson.Number:
		return r.Num != 0
	default:
		return false
	}
}

func lowerHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
		if h != "" {
			out = append(out, h)
		}
	}
	return dedupe(out)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
