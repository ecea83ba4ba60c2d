package models

// StatsOverview is the dashboard rollup across the time entry and
// invoice ledgers.
type StatsOverview struct {
	StundenHeute       float64 `json:"stunden_heute"`
	StundenWoche       float64 `json:"stunden_woche"`
	StundenMonat       float64 `json:"stunden_monat"`
	StundenJahr        float64 `json:"stunden_jahr"`
	KundenGesamt       int     `json:"kunden_gesamt"`
	KundenAktiv        int     `json:"kunden_aktiv"`
	LaufendeEintraege  int     `json:"laufende_eintraege"`
}

// MonthlyStats is one month's rollup within a year.
type MonthlyStats struct {
	Monat           int     `json:"monat"`
	AnzahlEintraege int     `json:"anzahl_eintraege"`
	SummeStunden    float64 `json:"summe_stunden"`
}

// DailyStats is one day's rollup within a month.
type DailyStats struct {
	Tag             int     `json:"tag"`
	AnzahlEintraege int     `json:"anzahl_eintraege"`
	SummeStunden    float64 `json:"summe_stunden"`
}

// ClientStats is the per-client total over the time entry ledger.
type ClientStats struct {
	KundeID         int     `json:"kunde_id"`
	KundeName       string  `json:"kunde_name"`
	AnzahlEintraege int     `json:"anzahl_eintraege"`
	SummeStunden    float64 `json:"summe_stunden"`
}

// CategoryStats is the per-category total; entries without a category
// land in an explicit "Ohne Kategorie" bucket with KategorieID nil.
type CategoryStats struct {
	KategorieID     *int    `json:"kategorie_id"`
	KategorieName   string  `json:"kategorie_name"`
	Farbe           *string `json:"farbe"`
	AnzahlEintraege int     `json:"anzahl_eintraege"`
	SummeStunden    float64 `json:"summe_stunden"`
}
