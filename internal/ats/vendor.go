// Package ats identifies applicant-tracking-system vendors and the job board
// URLs they host.
package ats

import (
	"fmt"
	"strings"
)

// Vendor constants for the ATS platforms tracked by the board registry.
const (
	VendorGreenhouse      = "greenhouse"
	VendorLever           = "lever"
	VendorAshby           = "ashby"
	VendorWorkable        = "workable"
	VendorWorkday         = "workday"
	VendorSmartRecruiters = "smartrecruiters"
	VendorRecruitee       = "recruitee"
	VendorTeamtailor      = "teamtailor"
	VendorPersonio        = "personio"
	VendorBambooHR        = "bamboohr"
	VendorBreezy          = "breezy"
	VendorJazzHR          = "jazzhr"
	VendorGem             = "gem"
	VendorUnknown         = "unknown"
)

// Vendors lists every known vendor, in registry order.
var Vendors = []string{
	VendorGreenhouse, VendorLever, VendorAshby, VendorWorkable, VendorWorkday,
	VendorSmartRecruiters, VendorRecruitee, VendorTeamtailor, VendorPersonio,
	VendorBambooHR, VendorBreezy, VendorJazzHR, VendorGem,
}

// IsKnownVendor reports whether s names a tracked vendor.
func IsKnownVendor(s string) bool {
	for _, v := range Vendors {
		if v == s {
			return true
		}
	}
	return false
}

// hostPatterns maps URL substrings to vendors. Order matters only for
// ambiguous hosts, of which there are none today.
var hostPatterns = []struct {
	pattern string
	vendor  string
}{
	{"greenhouse.io", VendorGreenhouse},
	{"lever.co", VendorLever},
	{"ashbyhq.com", VendorAshby},
	{"workable.com", VendorWorkable},
	{"myworkday", VendorWorkday},
	{"workday.com", VendorWorkday},
	{"smartrecruiters.com", VendorSmartRecruiters},
	{"recruitee.com", VendorRecruitee},
	{"teamtailor.com", VendorTeamtailor},
	{"personio.", VendorPersonio},
	{"bamboohr.com", VendorBambooHR},
	{"breezy.hr", VendorBreezy},
	{"jazzhr.com", VendorJazzHR},
	{"applytojob.com", VendorJazzHR},
	{"gem.com", VendorGem},
}

// DetectVendor attempts to detect the ATS vendor from a job board URL.
func DetectVendor(url string) string {
	urlLower := strings.ToLower(url)
	for _, hp := range hostPatterns {
		if strings.Contains(urlLower, hp.pattern) {
			return hp.vendor
		}
	}
	return VendorUnknown
}

// BoardURL builds the canonical public board URL for a vendor and board token.
// Vendors without a predictable public URL scheme return an empty string.
func BoardURL(vendor, token string) string {
	switch vendor {
	case VendorGreenhouse:
		return fmt.Sprintf("https://job-boards.greenhouse.io/%s", token)
	case VendorLever:
		return fmt.Sprintf("https://jobs.lever.co/%s", token)
	case VendorAshby:
		return fmt.Sprintf("https://jobs.ashbyhq.com/%s", token)
	case VendorWorkable:
		return fmt.Sprintf("https://apply.workable.com/%s", token)
	case VendorSmartRecruiters:
		return fmt.Sprintf("https://careers.smartrecruiters.com/%s", token)
	case VendorRecruitee:
		return fmt.Sprintf("https://%s.recruitee.com", token)
	case VendorTeamtailor:
		return fmt.Sprintf("https://%s.teamtailor.com", token)
	case VendorBambooHR:
		return fmt.Sprintf("https://%s.bamboohr.com/careers", token)
	case VendorBreezy:
		return fmt.Sprintf("https://%s.breezy.hr", token)
	default:
		return ""
	}
}

// NameFromToken title-cases a board slug into a display name. All-numeric
// tokens produce an empty string so a meaningless "103644278" never
// overwrites a real company name downstream.
func NameFromToken(token string) string {
	if token == "" {
		return ""
	}
	allDigits := true
	for _, c := range token {
		if c < '0' || c > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return ""
	}

	words := strings.FieldsFunc(token, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
