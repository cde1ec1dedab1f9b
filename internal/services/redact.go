package services

import "regexp"

// Contact-like substrings are stripped from application messages before
// storage. Heuristic UX filter, not a security boundary: it catches the
// common phone/handle shapes, nothing more.
var contactRE = regexp.MustCompile(`\d{3}-\d{4}-\d{4}|@\w+`)

const redactionMarker = "[연락처 정보 제거됨]"

func redactContactInfo(message string) string {
	return contactRE.ReplaceAllString(message, redactionMarker)
}
