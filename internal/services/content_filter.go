package services

import (
	"regexp"
	"sync"
)

var bannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch",
	"spam", "scam", "scammer", "phishing", "malware",
}

// ContentFilter screens report titles and descriptions before they are
// stored. Conservation reports are public to the community, so obvious
// abuse and spam are rejected up front as validation failures.
type ContentFilter struct {
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	mu                  sync.RWMutex
	compiled            bool
}

func NewContentFilter() *ContentFilter {
	cf := &ContentFilter{}
	cf.compilePatterns()
	return cf
}

func (cf *ContentFilter) compilePatterns() {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if cf.compiled {
		return
	}

	cf.bannedWordRegexps = make([]*regexp.Regexp, 0, len(bannedWords))
	for _, word := range bannedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			cf.bannedWordRegexps = append(cf.bannedWordRegexps, re)
		}
	}

	cf.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	// Go's RE2 engine has no backreferences, so "same character 5+ times
	// in a row" is spelled out as an alternation over the character class.
	cf.repeatedCharPattern = regexp.MustCompile(`(?i)(a{5,}|b{5,}|c{5,}|d{5,}|e{5,}|f{5,}|g{5,}|h{5,}|i{5,}|j{5,}|k{5,}|l{5,}|m{5,}|n{5,}|o{5,}|p{5,}|q{5,}|r{5,}|s{5,}|t{5,}|u{5,}|v{5,}|w{5,}|x{5,}|y{5,}|z{5,}|!{5,}|\?{5,}|\.{5,})`)
	cf.compiled = true
}

// Check returns false and a reason code when the text violates the
// content rules.
func (cf *ContentFilter) Check(text string) (bool, string) {
	cf.mu.RLock()
	defer cf.mu.RUnlock()
	if text == "" {
		return true, ""
	}
	for _, re := range cf.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if cf.urlPattern.MatchString(text) {
		return false, "url_not_allowed"
	}
	if cf.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	return true, ""
}

// RejectionMessage maps a reason code to a user-facing message.
func (cf *ContentFilter) RejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language": "The report contains inappropriate language.",
		"url_not_allowed":        "URLs and web links are not allowed in reports.",
		"spam_detected":          "The report appears to be spam.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "The report does not meet our content guidelines."
}
