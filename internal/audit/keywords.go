package audit

// Catalog bundles the static multi-locale heuristics: path keywords that mark
// a URL as a cookie or privacy policy, and the ordered XPath locators used to
// find consent controls. Injected at construction and never mutated.
type Catalog struct {
	CookieKeywords  []string
	PrivacyKeywords []string
	ConsentLocators []string
	RejectLocators  []string
}

func DefaultCatalog() Catalog {
	return Catalog{
		CookieKeywords: []string{
			// Spanish
			"cookies", "cookie", "politica-de-cookies", "política-de-cookies",
			// English
			"cookie-policy", "cookies-policy",
			// French
			"politique-de-cookies", "cookies-et-traceurs",
			// German
			"cookie-richtlinie",
			// Italian
			"informativa-cookie",
			// Portuguese
			"politica-de-cookies", "política-de-cookies",
		},
		PrivacyKeywords: []string{
			// Spanish
			"privacidad", "politica-de-privacidad", "política-de-privacidad", "proteccion-de-datos",
			// English
			"privacy", "privacy-policy", "data-protection",
			// French
			"confidentialite", "politique-de-confidentialite", "donnees-personnelles",
			// German
			"datenschutz", "datenschutzerklarung",
			// Italian
			"informativa-privacy", "protezione-dei-dati",
			// Portuguese
			"privacidade", "politica-de-privacidade",
			// Dutch
			"privacyverklaring", "gegevensbescherming",
			// Swedish
			"integritet", "personuppgifter",
		},
		ConsentLocators: []string{
			"//button[contains(text(), 'Accept')]",
			"//button[contains(text(), 'Aceptar')]",
			"//button[contains(text(), 'Agree')]",
			"//button[contains(text(), 'Allow all')]",
			"//button[contains(text(), 'Accepter')]",
			"//button[contains(text(), 'Tout accepter')]",
			"//button[contains(text(), 'Akzeptieren')]",
			"//button[contains(text(), 'Alle akzeptieren')]",
			"//button[contains(text(), 'Accetta')]",
			"//button[contains(text(), 'Aceitar')]",
			"//a[contains(text(), 'Accept')]",
			"//div[contains(@class, 'cookie')]//button",
			"//button[contains(@id, 'accept')]",
			"//button[contains(@class, 'agree')]",
		},
		RejectLocators: []string{
			"//button[contains(text(), 'Reject')]",
			"//button[contains(text(), 'Rechazar')]",
			"//button[contains(text(), 'Deny')]",
			"//button[contains(text(), 'Refuse')]",
			"//button[contains(text(), 'Reject all')]",
			"//button[contains(text(), 'Refuser')]",
			"//button[contains(text(), 'Ablehnen')]",
			"//button[contains(text(), 'Rifiuta')]",
			"//button[contains(text(), 'Recusar')]",
			"//button[contains(text(), 'Rejeitar')]",
			"//button[contains(text(), 'No, thanks')]",
			"//a[contains(text(), 'Reject')]",
		},
	}
}
