// Package safety classifies shell commands as safe or destructive using
// regex pattern matching. It complements the boundary check: boundary
// decides where a command may write, safety decides how loudly the caller
// should ask before running it. Classification is deterministic and never
// LLM-based.
package safety

import (
	"regexp"
	"sync"
)

// Risk represents the destructiveness classification of a command.
type Risk int

const (
	Safe Risk = iota
	Destructive
)

func (r Risk) String() string {
	if r == Destructive {
		return "destructive"
	}
	return "safe"
}

// Result pairs the risk level with the name of the rule that matched.
// Rule is empty for Safe results and feeds the audit trail on Destructive ones.
type Result struct {
	Risk Risk
	Rule string
}

// rule pairs a destructive pattern with an optional exclusion pattern.
// A command that matches both pattern and exclude is not flagged by this rule.
type rule struct {
	name    string
	pattern *regexp.Regexp
	exclude *regexp.Regexp // nil means no exclusion
}

var (
	rules     []rule
	rulesOnce sync.Once
)

// rawRule holds the uncompiled pattern/exclusion strings.
type rawRule struct {
	name    string
	pattern string
	exclude string // empty means no exclusion
}

// destructiveRules defines patterns for destructive commands. Ordered:
// the first matching rule names the classification.
var destructiveRules = []rawRule{
	{"rm", `\brm\s`, ""},
	{"rm", `\brm$`, ""},
	{"sudo", `\bsudo\s`, ""},
	{"disk-write", `\bdd\s+if=`, ""},
	{"disk-format", `\bmkfs\b`, ""},
	{"disk-partition", `\bfdisk\b`, ""},
	// Redirections to /dev/ are destructive, but /dev/null, /dev/stdout,
	// /dev/stderr are fine.
	{"dev-redirect", `>+\s*/dev/`, `>+\s*/dev/(null|stdout|stderr)(\s|;|&|$)`},
	{"chmod-lockout", `\bchmod\s+000\b`, ""},
	{"force-kill", `\bkill\s+-9\b`, ""},
	{"force-kill", `\bkillall\s`, ""},
	{"power", `\bshutdown\b`, ""},
	{"power", `\breboot\b`, ""},
	{"service-stop", `\bsystemctl\s+(stop|disable|mask)\b`, ""},
	{"mv-system", `\bmv\s+/`, ""},
	{"chown-recursive", `\bchown\s+-R\b`, ""},
	{"truncate", `:\s*>\s*\S`, ""}, // truncate via : > file
	{"truncate", `\btruncate\b`, ""},
	{"shred", `\bshred\b`, ""},
	{"find-delete", `\bfind\b.*\s-delete\b`, ""},
	{"fork-bomb", `:\(\)\s*\{.*\};\s*:`, ""},
}

func compileRules() {
	rulesOnce.Do(func() {
		rules = make([]rule, len(destructiveRules))
		for i, r := range destructiveRules {
			rules[i].name = r.name
			rules[i].pattern = regexp.MustCompile(r.pattern)
			if r.exclude != "" {
				rules[i].exclude = regexp.MustCompile(r.exclude)
			}
		}
	})
}

// Classify examines a shell command and returns its risk classification.
func Classify(command string) Result {
	compileRules()
	for _, r := range rules {
		if r.pattern.MatchString(command) {
			if r.exclude != nil && r.exclude.MatchString(command) {
				continue
			}
			return Result{Risk: Destructive, Rule: r.name}
		}
	}
	return Result{Risk: Safe}
}
