package report

// Colors is the dashboard palette.
type Colors struct {
	Background string `yaml:"background" json:"background"`
	Text       string `yaml:"text" json:"text"`
	Primary    string `yaml:"primary" json:"primary"`
	Secondary  string `yaml:"secondary" json:"secondary"`
	Success    string `yaml:"success" json:"success"`
	Danger     string `yaml:"danger" json:"danger"`
	Light      string `yaml:"light" json:"light"`
	Dark       string `yaml:"dark" json:"dark"`
	Border     string `yaml:"border" json:"border"`
}

// Style is the static presentation configuration handed to the Renderer.
type Style struct {
	Colors Colors `yaml:"colors" json:"colors"`
	// ReportHourUTC is the UTC hour from which the daily report is shown.
	ReportHourUTC int `yaml:"report_hour_utc" json:"report_hour_utc"`
	// ReportTimeLabel is the local wall time of ReportHourUTC shown to readers.
	ReportTimeLabel string `yaml:"report_time_label" json:"report_time_label"`
	// Currency is an ISO 4217 code used to format prices.
	Currency string `yaml:"currency" json:"currency"`
	// Symbol names the stock in titles.
	Symbol string `yaml:"symbol" json:"symbol"`
}

// DefaultStyle returns the stock dashboard look.
func DefaultStyle() Style {
	return Style{
		Colors: Colors{
			Background: "#f9f9f9",
			Text:       "#333333",
			Primary:    "#007BFF",
			Secondary:  "#6c757d",
			Success:    "#28a745",
			Danger:     "#dc3545",
			Light:      "#f8f9fa",
			Dark:       "#343a40",
			Border:     "#dee2e6",
		},
		ReportHourUTC:   18,
		ReportTimeLabel: "8pm", // Paris, summer time
		Currency:        "USD",
		Symbol:          "TTE",
	}
}

// WithDefaults fills every empty field from DefaultStyle.
func (s Style) WithDefaults() Style {
	d := DefaultStyle()
	c := &s.Colors
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&c.Background, d.Colors.Background},
		{&c.Text, d.Colors.Text},
		{&c.Primary, d.Colors.Primary},
		{&c.Secondary, d.Colors.Secondary},
		{&c.Success, d.Colors.Success},
		{&c.Danger, d.Colors.Danger},
		{&c.Light, d.Colors.Light},
		{&c.Dark, d.Colors.Dark},
		{&c.Border, d.Colors.Border},
		{&s.ReportTimeLabel, d.ReportTimeLabel},
		{&s.Currency, d.Currency},
		{&s.Symbol, d.Symbol},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	if s.ReportHourUTC <= 0 || s.ReportHourUTC > 23 {
		s.ReportHourUTC = d.ReportHourUTC
	}
	return s
}
