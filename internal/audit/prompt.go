package audit

import (
	"fmt"
	"strings"
)

const (
	CategoryGovernance = "PART A: GENERAL GOVERNANCE & DATA SUBJECT RIGHTS"
	CategoryCookies    = "PART B: COOKIES & TRACKING TRANSPARENCY"
)

type ChecklistItem struct {
	ID       int
	Category string
	Question string
}

// Checklist is the fixed 17-item audit questionnaire the analysis service
// evaluates the two policy documents against.
var Checklist = []ChecklistItem{
	{1, CategoryGovernance, "Does the policy clearly state the full contact details of the Data Controller (company name, address) and the Data Protection Officer (DPO), if applicable?"},
	{2, CategoryGovernance, "Does the policy specify the retention period (how long data is kept) for the main categories of personal data collected?"},
	{3, CategoryGovernance, "Does the policy list the specific user rights (Access, Rectification, Erasure, Objection, Portability)?"},
	{4, CategoryGovernance, "Is there an operational contact channel (specific email or form) and clear instructions on how to exercise these rights?"},
	{5, CategoryGovernance, "Is the right to lodge a complaint with the relevant supervisory authority mentioned?"},
	{6, CategoryGovernance, "If data leaves the EEA, does the policy identify the recipient country and the specific safeguards used (e.g., Standard Contractual Clauses/SCCs or Data Privacy Framework)?"},
	{7, CategoryCookies, "Is there a specific and accessible Cookie Policy? (Is it separate or clearly integrated within the Privacy Policy?)"},
	{8, CategoryCookies, "Does it explain in plain language what cookies are and why they are used on this website?"},
	{9, CategoryCookies, "Are cookie categories clearly defined? (e.g., Technical, Analytical, Marketing, Preferences)."},
	{10, CategoryCookies, "Are \"strictly necessary\" cookies explained, and is it justified why these do not require prior consent?"},
	{11, CategoryCookies, "Does the policy contain a table or list detailing every cookie, including: Name, Provider, Purpose, and Duration?"},
	{12, CategoryCookies, "Are there links to the privacy policies of external providers (third parties like Google, Facebook)?"},
	{13, CategoryCookies, "Does it explicitly state that non-essential cookies (analytics/marketing) are only installed after consent?"},
	{14, CategoryCookies, "Is the legal basis identified for each cookie type? (e.g., \"Legitimate Interest/Necessity\" for essential ones; \"Consent\" for the rest)."},
	{15, CategoryCookies, "Does the text explain how the user can withdraw or modify their consent at any time? (Must mention a settings panel, footer link, or similar)."},
	{16, CategoryCookies, "Does it clarify that withdrawing consent is as easy as giving it (e.g., \"you can change your mind at any time\")?"},
	{17, CategoryCookies, "Does it mention if cookies are used for user profiling or tracking?"},
}

// AuditRequest is the composed analysis payload: three fixed sections, built
// once per domain and never mutated.
type AuditRequest struct {
	Role         string
	Documents    string
	Instructions string
}

func (r AuditRequest) Prompt() string {
	return r.Role + r.Documents + r.Instructions
}

const rolePrompt = `
Role: Act as a Senior GDPR and ePrivacy Compliance Auditor.

Task: You will analyze the content of two provided legal documents in HTML format (Privacy Policy and Cookie Policy) against a specific compliance checklist and output the results in a strict JSON format.

Input Data:

`

const instructionsPromptTemplate = `

Instructions:

Read and analyze the content of the documents provided above.

Evaluate the "Audit Checklist" questions below.

CRITICAL INSTRUCTIONS FOR VERDICT & SCORING (MUST FOLLOW EXACTLY):

PART 1: COOKIE TECHNICAL VIOLATIONS (STRICT ENFORCEMENT):
1. You MUST cross-reference the "TECHNICAL COOKIE SCAN RESULTS" with the policy text.
2. For question 13 (non-essential cookies only after consent): If the Technical Scan shows cookies set BEFORE consent, the Verdict MUST be "No" regardless of policy claims.
3. If "cookies_set_before_consent" > 0, the overall "compliance_level" cannot be "Low Risk" (31-34).

PART 2: POLICY EVALUATION (NUANCED ASSESSMENT):
For all other questions (1-12, 14-17), use nuanced evaluation:
- "Yes" = Requirement is fully met with clear, comprehensive information
- "Partial" = Requirement is partially met (e.g., some rights listed but not all, retention mentioned generally but not specifically, cookie policy exists but lacks detail)
- "No" = Requirement is not met or information is absent

SCORING: Calculate the score internally:
Yes = 2 points
Partial = 1 point
No/Not Found = 0 points

Total possible: %d points.

SCORING THRESHOLDS (MANDATORY - DO NOT DEVIATE - EXAMPLES PROVIDED):
%s
VERIFY your scoring calculation matches these thresholds before outputting JSON.

AUDIT CHECKLIST (To be analyzed):

%s

OUTPUT FORMAT (STRICT JSON)
Provide the response ONLY as a valid JSON object. Do not include introductory text or markdown formatting (like ` + "```json" + `). Use exactly the following structure:

JSON

{
  "audit_meta": {
    "auditor_role": "Senior GDPR & ePrivacy Compliance Auditor",
    "documents_reviewed": [
      "Privacy Policy",
      "Cookie Policy",
      "Technical Cookie Scan"
    ]
  },
  "audit_checklist": [
    {
      "id": 1,
      "category": "%s",
      "question": "Question text...",
      "verdict": "Yes/No/Partial",
      "evidence": "Quote from text...",
      "notes": "Short explanation"
    }
  ],
  "cookies": [
    {
       "name": "_ga",
       "domain": ".example.com",
       "category": "analytics/advertising/essential/other",
       "set_before_consent": true/false,
       "is_third_party": true/false
    }
    // ... (List ALL cookies found in the inventory)
  ],

  "cookies_set_before_consent": 0, // Count
  "non_essential_before_consent": 0, // Count of analytics/marketing cookies set before consent
  "scorecard": {
    "total_score": 0,
    "max_score": %d,
    "compliance_level": "Level",
    "risk_icon": "Icon",
    "priority_actions": []
  }
}

COOKIE CLASSIFICATION RULES (CRITICAL - FOLLOW EXACTLY):
1. You MUST populate the "cookies" array by analyzing the "TECHNICAL COOKIE SCAN RESULTS" provided above.
2. Assign a category to each cookie based on its name:
   - "_ga", "_gid", "_ga_*" → "analytics"
   - "_gcl_au", "_fbp", "xbc", "_pctx" → "advertising"
   - "FCNEC", "didomi_token", "ue_consentState" → "essential"
3. COOKIE TIMING CLASSIFICATION (MOST IMPORTANT):
   - IF a cookie appears under "=== COOKIES SET BEFORE CONSENT (VIOLATIONS) ===":
     → set "set_before_consent": true
   - IF a cookie appears under "=== COOKIES SET AFTER CONSENT (COMPLIANT) ===" and is marked "NEW":
     → set "set_before_consent": false
4. "cookies_set_before_consent" MUST equal the "Total Count" shown under "=== COOKIES SET BEFORE CONSENT (VIOLATIONS) ===".
5. "non_essential_before_consent" MUST count only analytics/advertising/other cookies from the BEFORE CONSENT section (exclude essential cookies).

EXAMPLE: If the scan shows:
"=== COOKIES SET BEFORE CONSENT (VIOLATIONS) ==="
"Total Count: 42"
"- Name: _ga, Domain: .example.com"

Then in your JSON output:
{"name": "_ga", "domain": ".example.com", "category": "analytics", "set_before_consent": true, ...}
And: "cookies_set_before_consent": 42
`

// ComposeAuditRequest assembles the deterministic analysis payload. The two
// documents are embedded twice each, then the live cookie scan, then the
// checklist and the strict output schema.
func ComposeAuditRequest(privacyHTML, cookiesHTML, cookieInventory string) AuditRequest {
	documents := "\nPrivacy Policy HTML file: [" + privacyHTML + "]" +
		"\nCookie Policy HTML file: [" + cookiesHTML + "]" +
		"\nPrivacy Policy HTML file: [" + privacyHTML + "]" +
		"\nCookie Policy HTML file: [" + cookiesHTML + "]" +
		"\n\nTECHNICAL COOKIE SCAN RESULTS (Real-time data from browser):\n" + cookieInventory

	return AuditRequest{
		Role:         rolePrompt,
		Documents:    documents,
		Instructions: renderInstructions(),
	}
}

func renderInstructions() string {
	return fmt.Sprintf(instructionsPromptTemplate,
		MaxScore, renderThresholds(), renderChecklist(), CategoryGovernance, MaxScore)
}

func renderChecklist() string {
	var b strings.Builder
	b.WriteString(CategoryGovernance + "\n\n")
	for _, item := range Checklist {
		if item.Category != CategoryGovernance {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n\n", item.ID, item.Question)
	}
	b.WriteString(CategoryCookies + "\n\n")
	for _, item := range Checklist {
		if item.Category != CategoryCookies {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n\n", item.ID, item.Question)
	}
	return strings.TrimRight(b.String(), "\n")
}
