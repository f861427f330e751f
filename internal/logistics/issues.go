// internal/logistics/issues.go
package logistics

// Resolution is the playbook entry for one delivery issue type.
type Resolution struct {
	IssueType  string `json:"issue_type"`
	Action     string `json:"action"`
	Priority   string `json:"priority"`
	Timeline   string `json:"timeline"`
	Escalation string `json:"escalation"`
}

var resolutions = map[string]Resolution{
	"delayed": {
		IssueType:  "delayed",
		Action:     "contact supplier for revised delivery estimate",
		Priority:   "medium",
		Timeline:   "24h",
		Escalation: "switch to backup supplier if delay exceeds 3 days",
	},
	"lost": {
		IssueType:  "lost",
		Action:     "file claim with carrier and reorder from supplier",
		Priority:   "high",
		Timeline:   "immediate",
		Escalation: "notify procurement manager",
	},
	"damaged": {
		IssueType:  "damaged",
		Action:     "document damage, request replacement shipment",
		Priority:   "high",
		Timeline:   "48h",
		Escalation: "review supplier packaging standards",
	},
	"wrong_item": {
		IssueType:  "wrong_item",
		Action:     "arrange return and request correct items",
		Priority:   "medium",
		Timeline:   "72h",
		Escalation: "audit supplier order accuracy",
	},
}

// Resolve returns the resolution strategy for an issue type. Unknown types
// get a generic investigation strategy rather than an error.
func Resolve(issueType string) Resolution {
	if r, ok := resolutions[issueType]; ok {
		return r
	}

	return Resolution{
		IssueType:  issueType,
		Action:     "investigate issue with supplier and carrier",
		Priority:   "medium",
		Timeline:   "48h",
		Escalation: "escalate to procurement manager if unresolved",
	}
}
