package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// Capability names an API group (or an optional feature inside one) that an
// adapter may or may not serve.
type Capability string

const (
	CapAuth        Capability = "auth"
	CapCases       Capability = "cases"
	CapCaseIntakes Capability = "case-intakes"
	CapApprovals   Capability = "approvals"
	CapInvoices    Capability = "invoices"
	CapGdpr        Capability = "gdpr"
	CapUsers       Capability = "users"
	CapTariffs     Capability = "tariffs"
	CapTemplates   Capability = "templates"
	CapRetention   Capability = "retention"
	CapAnalytics   Capability = "analytics"
	CapAdminConfig Capability = "admin-config"

	CapInvoicePDF Capability = "invoice-pdf"
	CapGdprExport Capability = "gdpr-export"
	CapDocuments  Capability = "documents"
)

// AllCapabilities is every capability an adapter can advertise.
var AllCapabilities = []Capability{
	CapAuth, CapCases, CapCaseIntakes, CapApprovals, CapInvoices, CapGdpr, CapUsers,
	CapTariffs, CapTemplates, CapRetention, CapAnalytics, CapAdminConfig,
	CapInvoicePDF, CapGdprExport, CapDocuments,
}

func (c Capability) Valid() bool {
	return containsStatus(AllCapabilities, c)
}

// CapabilitySet is an immutable set of capabilities.
type CapabilitySet struct {
	m map[Capability]struct{}
}

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return CapabilitySet{m: m}
}

func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s.m[c]
	return ok
}

// List returns the members sorted by name.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s.m))
	for c := range s.m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Without returns a copy of s minus caps.
func (s CapabilitySet) Without(caps ...Capability) CapabilitySet {
	m := make(map[Capability]struct{}, len(s.m))
	for c := range s.m {
		m[c] = struct{}{}
	}
	for _, c := range caps {
		delete(m, c)
	}
	return CapabilitySet{m: m}
}

func (s CapabilitySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// ParseCapabilities reads a comma-separated list. Unknown names are a ConfigError.
func ParseCapabilities(key, csv string) ([]Capability, error) {
	var out []Capability
	for _, part := range strings.Split(csv, ",") {
		name := strings.TrimSpace(strings.ToLower(part))
		if name == "" {
			continue
		}
		c := Capability(name)
		if !c.Valid() {
			return nil, &ConfigError{Key: key, Message: "unknown capability " + name}
		}
		out = append(out, c)
	}
	return out, nil
}
